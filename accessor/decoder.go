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
	"github.com/holiman/uint256"

	ehcommon "github.com/erigontech/erigon-history/common"
)

// entryKind distinguishes the two logical record shapes a page can hold.
type entryKind uint8

const (
	entryAccount entryKind = iota
	entryStorage
)

// entry is one decoded logical record (§3.2): an account entry or a
// storage entry, tagged by kind.
type entry struct {
	kind        entryKind
	blockNumber uint64
	address     ehcommon.Address

	// account fields
	nonce       uint64
	incarnation uint64
	balance     uint256.Int
	codeHash    ehcommon.Hash

	// storage fields (incarnation is shared with the account fields above)
	slot  uint256.Int
	value uint256.Int
}

// decodeContext carries the four per-page registers described in §3.3.
// It is a plain value, reset to zero at the start of every page scan —
// it never survives across pages or across queries.
type decodeContext struct {
	blockNumber         uint64
	address             ehcommon.Address
	hasAddress          bool
	incarnation         uint64
	prevSlot            uint256.Int
	incarnationOverride uint64
}

// opcode ranges, §4.2.
const (
	opEndOfPage      = 0
	opSetBlockLo     = 1
	opSetBlockHi     = 8
	opSetAddress     = 9
	opAccountLo      = 10
	opAccountHi      = 73
	opStorageLo      = 74
	opStorageHi      = 249
	opIncarnationAdd = 250
)

// decodeOutcome tells the page scanner what happened on one decodeNext
// call.
type decodeOutcome uint8

const (
	decodedEntry decodeOutcome = iota
	decodedEndOfPage
	decodedNotFound // truncated read; §4.1 "any read past posEnd aborts"
	decodedSyntaxError
)

// decodeNext advances r past zero or more context-update opcodes and
// returns the next logical entry, or the reason none was produced.
// ctx is mutated in place, exactly mirroring the register semantics of
// §3.3 and the opcode table of §4.2.
func decodeNext(r *byteReader, ctx *decodeContext) (entry, decodeOutcome, *syntaxError) {
	for {
		lead, ok := r.getByte()
		if !ok {
			return entry{}, decodedNotFound, nil
		}
		switch {
		case lead == opEndOfPage:
			return entry{}, decodedEndOfPage, nil

		case lead >= opSetBlockLo && lead <= opSetBlockHi:
			n := int64(lead)
			v, ok := r.readFixedU64(n)
			if !ok {
				return entry{}, decodedNotFound, nil
			}
			ctx.blockNumber = v
			continue

		case lead == opSetAddress:
			b, ok := r.readBytes(ehcommon.AddressLength)
			if !ok {
				return entry{}, decodedNotFound, nil
			}
			ctx.address = ehcommon.BytesToAddress(b)
			ctx.hasAddress = true
			ctx.incarnation = 0
			continue

		case lead >= opAccountLo && lead <= opAccountHi:
			e, ok := decodeAccount(r, ctx, lead-opAccountLo)
			if !ok {
				return entry{}, decodedNotFound, nil
			}
			return e, decodedEntry, nil

		case lead >= opStorageLo && lead <= opStorageHi:
			e, ok := decodeStorage(r, ctx, lead-opStorageLo)
			if !ok {
				return entry{}, decodedNotFound, nil
			}
			return e, decodedEntry, nil

		case lead == opIncarnationAdd:
			v, ok := r.readU64Var()
			if !ok {
				return entry{}, decodedNotFound, nil
			}
			ctx.incarnationOverride = v
			continue

		default:
			se := &syntaxError{pageOffset: r.pos - 1, lead: lead}
			return entry{}, decodedSyntaxError, se
		}
	}
}

// decodeAccount implements the 10..73 opcode class.
func decodeAccount(r *byteReader, ctx *decodeContext, f byte) (entry, bool) {
	var nonce, incarnation uint64
	var balance uint256.Int
	var codeHash ehcommon.Hash

	nonceBits := (f >> 2) & 3
	incarBits := (f >> 4) & 3

	if f&1 != 0 {
		if !r.readU256Var(&balance) {
			return entry{}, false
		}
	}
	if f&2 != 0 {
		b, ok := r.readBytes(ehcommon.HashLength)
		if !ok {
			return entry{}, false
		}
		codeHash = ehcommon.BytesToHash(b)
	}
	if nonceBits == 3 {
		v, ok := r.readU64Var()
		if !ok {
			return entry{}, false
		}
		nonce = v
	} else {
		nonce = uint64(nonceBits)
	}
	if incarBits == 3 {
		v, ok := r.readU64Var()
		if !ok {
			return entry{}, false
		}
		incarnation = v
	} else {
		incarnation = uint64(incarBits)
	}

	ctx.incarnation = incarnation

	return entry{
		kind:        entryAccount,
		blockNumber: ctx.blockNumber,
		address:     ctx.address,
		nonce:       nonce,
		incarnation: incarnation,
		balance:     balance,
		codeHash:    codeHash,
	}, true
}

// decodeStorage implements the 74..249 opcode class.
func decodeStorage(r *byteReader, ctx *decodeContext, f byte) (entry, bool) {
	slotCode := f >> 4
	delta := (f>>3)&1 != 0
	valueCode := f & 7

	var slot uint256.Int
	switch {
	case slotCode <= 8:
		slot.SetUint64(uint64(slotCode))
	case slotCode == 9:
		if !r.readU256Var(&slot) {
			return entry{}, false
		}
	default:
		if !r.readU256Fixed(&slot) {
			return entry{}, false
		}
	}
	if delta {
		var base uint256.Int
		base.Add(&ctx.prevSlot, uint256.NewInt(1))
		slot.Add(&slot, &base)
	}

	var value uint256.Int
	switch {
	case valueCode <= 5:
		value.SetUint64(uint64(valueCode))
	default:
		if !r.readU256Var(&value) {
			return entry{}, false
		}
		if valueCode&1 != 0 {
			value.Not(&value)
		}
	}

	incarnation := ctx.incarnation
	if incarnation == 0 {
		incarnation = 1
	}
	incarnation += ctx.incarnationOverride
	ctx.incarnationOverride = 0

	ctx.prevSlot = slot

	return entry{
		kind:        entryStorage,
		blockNumber: ctx.blockNumber,
		address:     ctx.address,
		incarnation: incarnation,
		slot:        slot,
		value:       value,
	}, true
}
