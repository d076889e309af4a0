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

import "github.com/holiman/uint256"

// varShortThreshold is the lead-byte cutoff below which readU64Var and
// readU256Var store the value directly in the lead byte (§4.1).
const varShortThreshold = 224

// byteReader is a cursor over a half-open-ish byte range [pos, end] of
// the mapped file. end is the last readable offset (inclusive); reading
// past it terminates the current page scan as NotFound (§4.1, §7).
type byteReader struct {
	data []byte
	pos  int64
	end  int64
}

func newByteReader(data []byte, start, end int64) byteReader {
	return byteReader{data: data, pos: start, end: end}
}

func (r *byteReader) getByte() (byte, bool) {
	if r.pos > r.end {
		return 0, false
	}
	b := r.data[r.pos]
	r.pos++
	return b, true
}

// readBytes reads n raw bytes, returning false if they don't fit in range.
func (r *byteReader) readBytes(n int64) ([]byte, bool) {
	if r.pos+n-1 > r.end {
		return nil, false
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, true
}

// readFixedU64 reads n big-endian bytes (1 <= n <= 8) into a uint64, used
// for the blockNumber-setting opcodes 1..8.
func (r *byteReader) readFixedU64(n int64) (uint64, bool) {
	b, ok := r.readBytes(n)
	if !ok {
		return 0, false
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, true
}

// readU64Var reads a length-prefixed variable-length uint64 (§4.1).
func (r *byteReader) readU64Var() (uint64, bool) {
	lead, ok := r.getByte()
	if !ok {
		return 0, false
	}
	if lead < varShortThreshold {
		return uint64(lead), true
	}
	remainder := int64(lead) - varShortThreshold
	hi, ok := r.getByte()
	if !ok {
		return 0, false
	}
	v := uint64(hi)
	for i := int64(0); i < remainder; i++ {
		b, ok := r.getByte()
		if !ok {
			return 0, false
		}
		v = v<<8 | uint64(b)
	}
	return v, true
}

// readU256Fixed reads a 32-byte big-endian value.
func (r *byteReader) readU256Fixed(out *uint256.Int) bool {
	b, ok := r.readBytes(32)
	if !ok {
		return false
	}
	out.SetBytes32(b)
	return true
}

// readU256Var reads a variable-length 256-bit value with the same
// length-prefix scheme as readU64Var, but a 256-bit wide accumulator.
func (r *byteReader) readU256Var(out *uint256.Int) bool {
	lead, ok := r.getByte()
	if !ok {
		return false
	}
	if lead < varShortThreshold {
		out.SetUint64(uint64(lead))
		return true
	}
	remainder := int64(lead) - varShortThreshold
	hi, ok := r.getByte()
	if !ok {
		return false
	}
	out.SetUint64(uint64(hi))
	var next uint256.Int
	for i := int64(0); i < remainder; i++ {
		b, ok := r.getByte()
		if !ok {
			return false
		}
		out.Lsh(out, 8)
		next.SetUint64(uint64(b))
		out.Or(out, &next)
	}
	return true
}
