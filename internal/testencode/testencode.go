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

// Package testencode builds valid state-history files for the
// accessor package's tests. It deliberately only ever emits the most
// explicit opcode variants (varint-encoded fields, never the
// short-literal shortcuts) so the encoding stays simple to read and
// audit; the accessor under test still has to decode the full varint
// and bit-packing machinery, just not every combination of it.
package testencode

import (
	"encoding/binary"

	"github.com/holiman/uint256"

	ehcommon "github.com/erigontech/erigon-history/common"
)

const varShortThreshold = 224

// Account is one account record to place on a page.
type Account struct {
	Block       uint64
	Address     ehcommon.Address
	Nonce       uint64
	Incarnation uint64
	Balance     uint256.Int
	CodeHash    ehcommon.Hash
}

// Storage is one storage record to place on a page. The file format
// derives a storage entry's incarnation from the preceding account's
// incarnation, so the encoder emits an
// opIncarnationAdd delta when Incarnation doesn't match the context's
// current value.
type Storage struct {
	Block       uint64
	Address     ehcommon.Address
	Incarnation uint64
	Slot        uint256.Int
	Value       uint256.Int
}

// Record is either an Account or a Storage entry, in file order.
type Record struct {
	Account *Account
	Storage *Storage
}

func AccountRecord(a Account) Record { return Record{Account: &a} }
func StorageRecord(s Storage) Record { return Record{Storage: &s} }

// encodeCtx mirrors accessor's decodeContext: it tracks what the
// decoder would already know, so the encoder only emits the opcodes
// needed to bring the decoder's registers up to date.
type encodeCtx struct {
	haveBlock   bool
	block       uint64
	haveAddress bool
	address     ehcommon.Address
	incarnation uint64 // mirrors decodeContext.incarnation, including its zero-value reset on address change
}

// Page encodes one page's worth of records (already block/address
// sorted by the caller) followed by the end-of-page opcode (0), then
// pads with zero bytes to pageSize. It panics if records overflow
// pageSize; tests should choose a page size with headroom.
func Page(pageSize int, records []Record) []byte {
	var buf []byte
	var ctx encodeCtx

	for _, rec := range records {
		switch {
		case rec.Account != nil:
			buf = appendAccount(buf, &ctx, rec.Account)
		case rec.Storage != nil:
			buf = appendStorage(buf, &ctx, rec.Storage)
		}
	}
	buf = append(buf, 0) // opEndOfPage

	if len(buf) > pageSize {
		panic("testencode: page overflow")
	}
	out := make([]byte, pageSize)
	copy(out, buf)
	return out
}

func appendAccount(buf []byte, ctx *encodeCtx, a *Account) []byte {
	buf = setBlock(buf, ctx, a.Block)
	buf = setAddress(buf, ctx, a.Address)

	// flag=3 (balance+codeHash present), nonceBits=3, incarBits=3: every
	// field is written out explicitly (varints, plus the fixed 32-byte
	// codeHash), never taken from the opcode's literal bits.
	const f = byte(3) | (3 << 2) | (3 << 4)
	buf = append(buf, 10+f)
	buf = appendU256Var(buf, &a.Balance)
	buf = append(buf, a.CodeHash.Bytes()...)
	buf = appendU64Var(buf, a.Nonce)
	buf = appendU64Var(buf, a.Incarnation)

	ctx.incarnation = a.Incarnation
	return buf
}

func appendStorage(buf []byte, ctx *encodeCtx, s *Storage) []byte {
	buf = setBlock(buf, ctx, s.Block)
	buf = setAddress(buf, ctx, s.Address)

	// Mirror decodeStorage's fallback: a zero context incarnation (no
	// account decoded yet on this address since the last reset) reads
	// as 1 before any opIncarnationAdd delta is applied.
	baseline := ctx.incarnation
	if baseline == 0 {
		baseline = 1
	}
	if baseline != s.Incarnation {
		buf = append(buf, 250) // opIncarnationAdd
		buf = appendU64Var(buf, s.Incarnation-baseline)
	}

	// slotCode=9 (varint slot, no delta), valueCode=6 (varint value, no
	// inversion).
	const slotCode = byte(9)
	const valueCode = byte(6)
	f := (slotCode << 4) | valueCode
	buf = append(buf, 74+f)
	buf = appendU256Var(buf, &s.Slot)
	buf = appendU256Var(buf, &s.Value)
	return buf
}

func setBlock(buf []byte, ctx *encodeCtx, block uint64) []byte {
	if ctx.haveBlock && ctx.block == block {
		return buf
	}
	// opcode 8: 8-byte fixed-width big-endian blockNumber.
	buf = append(buf, 8)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], block)
	buf = append(buf, b[:]...)
	ctx.haveBlock = true
	ctx.block = block
	return buf
}

func setAddress(buf []byte, ctx *encodeCtx, address ehcommon.Address) []byte {
	if ctx.haveAddress && ctx.address == address {
		return buf
	}
	buf = append(buf, 9)
	buf = append(buf, address.Bytes()...)
	ctx.haveAddress = true
	ctx.address = address
	ctx.incarnation = 0
	return buf
}

func appendU64Var(buf []byte, v uint64) []byte {
	if v < varShortThreshold {
		return append(buf, byte(v))
	}
	var full [8]byte
	binary.BigEndian.PutUint64(full[:], v)
	trimmed := full[:]
	for len(trimmed) > 1 && trimmed[0] == 0 {
		trimmed = trimmed[1:]
	}
	remainder := len(trimmed) - 1
	buf = append(buf, byte(varShortThreshold+remainder))
	return append(buf, trimmed...)
}

func appendU256Var(buf []byte, v *uint256.Int) []byte {
	if v.IsUint64() && v.Uint64() < varShortThreshold {
		return append(buf, byte(v.Uint64()))
	}
	trimmed := v.Bytes() // already minimal big-endian, non-empty since v >= 224
	remainder := len(trimmed) - 1
	buf = append(buf, byte(varShortThreshold+remainder))
	return append(buf, trimmed...)
}

// Header are the raw fields of a state-history file header (§3.1),
// exported so tests can assemble a whole file via File.
type Header struct {
	FileVersion   uint64
	PageShift     uint64
	BlockFirst    uint64
	BlockLast     uint64
	CountAccounts uint64
	CountStorages uint64
}

// File assembles a complete file: the 64-byte header followed by
// pages, each exactly 1<<h.PageShift bytes (the caller supplies
// already-page-sized byte slices, e.g. from Page).
func File(h Header, pages [][]byte) []byte {
	pageSize := 1 << h.PageShift
	// The header occupies one whole page, zero-padded past its 64 real
	// bytes, so statesStart (== pageSize) always lands page-aligned
	// regardless of pageShift.
	statesStart := uint64(pageSize)
	statesEnd := statesStart + uint64(len(pages)*pageSize)

	out := make([]byte, pageSize, statesEnd)
	binary.LittleEndian.PutUint64(out[0*8:], h.FileVersion)
	binary.LittleEndian.PutUint64(out[1*8:], statesStart)
	binary.LittleEndian.PutUint64(out[2*8:], statesEnd)
	binary.LittleEndian.PutUint64(out[3*8:], h.PageShift)
	binary.LittleEndian.PutUint64(out[4*8:], h.BlockFirst)
	binary.LittleEndian.PutUint64(out[5*8:], h.BlockLast)
	binary.LittleEndian.PutUint64(out[6*8:], h.CountAccounts)
	binary.LittleEndian.PutUint64(out[7*8:], h.CountStorages)
	for _, p := range pages {
		if len(p) != pageSize {
			panic("testencode: page size mismatch")
		}
		out = append(out, p...)
	}
	return out
}
