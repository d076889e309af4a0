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

// searchKey is the composite key a query searches for (§4.3). Each
// component is optional, exactly mirroring the "hasX" flags the spec
// describes: a missing component sorts before a present one.
type searchKey struct {
	hasBlock bool
	block    uint64

	hasAddress bool
	address    ehcommon.Address

	hasIncarnation bool
	incarnation    uint64

	hasSlot bool
	slot    uint256.Int
}

// entryView is the right-hand side of compareGeneral: the identity and
// ordering-relevant fields of one decoded entry (§3.2), tagged with
// which of account/storage it is.
type entryView struct {
	hasBlock   bool
	block      uint64
	hasAddress bool
	address    ehcommon.Address
	hasAccount bool
	hasStorage bool
	// only meaningful when hasStorage:
	incarnation uint64
	slot        uint256.Int
}

func viewOf(e entry) entryView {
	v := entryView{
		hasBlock:   true,
		block:      e.blockNumber,
		hasAddress: true,
		address:    e.address,
		hasAccount: e.kind == entryAccount,
		hasStorage: e.kind == entryStorage,
	}
	if v.hasStorage {
		v.incarnation = e.incarnation
		v.slot = e.slot
	}
	return v
}

// cmpResult is the outcome of a single three-way comparison.
type cmpResult int8

const (
	cmpLT cmpResult = -1
	cmpEQ cmpResult = 0
	cmpGT cmpResult = 1
)

func cmpBool(key, value bool) cmpResult {
	switch {
	case key == value:
		return cmpEQ
	case !key && value:
		return cmpLT
	default:
		return cmpGT
	}
}

func cmpUint64(a, b uint64) cmpResult {
	switch {
	case a == b:
		return cmpEQ
	case a < b:
		return cmpLT
	default:
		return cmpGT
	}
}

func cmpAddress(a, b ehcommon.Address) cmpResult {
	return cmpResult(a.Cmp(b))
}

func cmpUint256(a, b *uint256.Int) cmpResult {
	return cmpResult(a.Cmp(b))
}

// compareGeneral implements the §4.3 ordering: identity fields
// (address, incarnation, slot) compare for equality, blockNumber
// compares as nearest-not-greater. The first non-EQ component decides
// the result.
func compareGeneral(key searchKey, v entryView) cmpResult {
	if c := cmpBool(key.hasAddress, v.hasAddress); c != cmpEQ {
		return c
	}
	if key.hasAddress && v.hasAddress {
		if c := cmpAddress(key.address, v.address); c != cmpEQ {
			return c
		}
	}
	if c := cmpBool(key.hasIncarnation, v.hasStorage); c != cmpEQ {
		return c
	}
	if key.hasIncarnation && v.hasStorage {
		if c := cmpUint64(key.incarnation, v.incarnation); c != cmpEQ {
			return c
		}
	}
	if c := cmpBool(key.hasSlot, v.hasStorage); c != cmpEQ {
		return c
	}
	if key.hasSlot && v.hasStorage {
		slot := v.slot
		if c := cmpUint256(&key.slot, &slot); c != cmpEQ {
			return c
		}
	}
	if c := cmpBool(key.hasBlock, v.hasBlock); c != cmpEQ {
		return c
	}
	if key.hasBlock && v.hasBlock {
		if c := cmpUint64(key.block, v.block); c != cmpEQ {
			return c
		}
	}
	return cmpEQ
}

// identityMatches re-checks the identity components (address,
// incarnation if the key has one, slot if the key has one) of a GT
// candidate returned by the L2 scan. It deliberately ignores
// blockNumber, which a GT result is only guaranteed to be
// nearest-not-greater on (§4.5).
func identityMatches(key searchKey, v entryView) bool {
	if key.hasAddress != v.hasAddress {
		return false
	}
	if key.hasAddress && key.address != v.address {
		return false
	}
	if key.hasIncarnation {
		if !v.hasStorage || key.incarnation != v.incarnation {
			return false
		}
	}
	if key.hasSlot {
		if !v.hasStorage {
			return false
		}
		slot := v.slot
		if key.slot.Cmp(&slot) != 0 {
			return false
		}
	}
	return true
}
