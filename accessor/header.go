// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package accessor

import (
	"encoding/binary"

	"github.com/erigontech/erigon-history/internal/overflow"
)

// fileVersion is the only magic this accessor understands. Any other
// value makes Open fail with a FormatError.
const fileVersion uint64 = 202202111

// header fields are little-endian, native-width (8 byte) integers, in
// this order, with no padding between them.
const headerFieldCount = 8
const headerSize = headerFieldCount * 8

const (
	minPageShift = 8
	maxPageShift = 24
)

// header is the fixed-size preamble of a state-history file (§3.1).
type header struct {
	fileVersion    uint64
	statesStart    uint64
	statesEnd      uint64
	pageShift      uint64
	blockFirst     uint64
	blockLast      uint64
	countAccounts  uint64
	countStorages  uint64
}

func decodeHeader(b []byte) header {
	return header{
		fileVersion:   binary.LittleEndian.Uint64(b[0*8:]),
		statesStart:   binary.LittleEndian.Uint64(b[1*8:]),
		statesEnd:     binary.LittleEndian.Uint64(b[2*8:]),
		pageShift:     binary.LittleEndian.Uint64(b[3*8:]),
		blockFirst:    binary.LittleEndian.Uint64(b[4*8:]),
		blockLast:     binary.LittleEndian.Uint64(b[5*8:]),
		countAccounts: binary.LittleEndian.Uint64(b[6*8:]),
		countStorages: binary.LittleEndian.Uint64(b[7*8:]),
	}
}

// validate enforces §6.1's format invariants against the actual file
// size. Any failure here is fatal to Open.
func (h header) validate(fileSize int64) error {
	if h.fileVersion != fileVersion {
		return badFormat("unknown fileVersion %d, want %d", h.fileVersion, fileVersion)
	}
	if h.pageShift < minPageShift || h.pageShift > maxPageShift {
		return badFormat("pageShift %d out of range [%d, %d]", h.pageShift, minPageShift, maxPageShift)
	}
	if h.statesStart > h.statesEnd {
		return badFormat("statesStart %d > statesEnd %d", h.statesStart, h.statesEnd)
	}
	if h.statesEnd > uint64(fileSize) {
		return badFormat("statesEnd %d exceeds file size %d", h.statesEnd, fileSize)
	}
	pageSize := uint64(1) << h.pageShift
	if h.statesStart%pageSize != 0 {
		return badFormat("statesStart %d is not page-aligned (page size %d)", h.statesStart, pageSize)
	}
	regionSize := h.statesEnd - h.statesStart
	if regionSize%pageSize != 0 {
		return badFormat("state region size %d is not a multiple of page size %d", regionSize, pageSize)
	}

	// pageCount is derived from two header fields taken straight off the
	// mapped file; reconstructing statesEnd from it catches a header
	// that would otherwise make later offset arithmetic wrap silently,
	// rather than trusting the modulo check above alone.
	pageCount := regionSize / pageSize
	regionBytes, overflowed := overflow.SafeMul(pageCount, pageSize)
	if overflowed {
		return badFormat("page count %d times page size %d overflows", pageCount, pageSize)
	}
	reconstructedEnd, overflowed := overflow.SafeAdd(h.statesStart, regionBytes)
	if overflowed || reconstructedEnd != h.statesEnd {
		return badFormat("statesStart %d + region size %d does not reconstruct statesEnd %d", h.statesStart, regionBytes, h.statesEnd)
	}

	if h.blockFirst > h.blockLast {
		return badFormat("blockFirst %d > blockLast %d", h.blockFirst, h.blockLast)
	}
	return nil
}

func (h header) pageSize() int64 { return int64(1) << h.pageShift }

func (h header) pageMask() int64 { return h.pageSize() - 1 }

// pageCount returns the number of pages in the state region, used only
// for the diagnostic Stats snapshot.
func (h header) pageCount() int64 {
	return overflow.CeilDiv(int64(h.statesEnd-h.statesStart), h.pageSize())
}
