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

	"github.com/erigontech/erigon-history/accounts"
	ehcommon "github.com/erigontech/erigon-history/common"
)

// QueryAccount returns the account state that was current at blockNumber
// (§4.6): the nearest entry at or before blockNumber for address. The
// second return value is false when no history exists for address at
// or before blockNumber, which is also what's returned when blockNumber
// falls outside [BlockFirst, BlockLast] — per §4.6, out-of-range and
// not-found are deliberately indistinguishable to the caller.
func (a *Accessor) QueryAccount(blockNumber uint64, address ehcommon.Address) (accounts.Account, bool) {
	a.stats.incQuery()
	return a.queryAccount(blockNumber, address)
}

func (a *Accessor) queryAccount(blockNumber uint64, address ehcommon.Address) (accounts.Account, bool) {
	if blockNumber < a.hdr.blockFirst || blockNumber > a.hdr.blockLast {
		return accounts.Account{}, false
	}

	key := searchKey{
		hasBlock:   true,
		block:      blockNumber,
		hasAddress: true,
		address:    address,
	}
	e, ok := a.twoLevelSearch(key)
	if !ok || e.kind != entryAccount {
		return accounts.Account{}, false
	}
	return accounts.Account{
		Nonce:       e.nonce,
		Incarnation: e.incarnation,
		Balance:     e.balance,
		CodeHash:    e.codeHash,
	}, true
}

// QueryStorage returns the storage value that was current at
// blockNumber (§4.6) for the given address and slot, scoped to the
// incarnation the account held at that same block. It returns false
// when the account itself has no history at or before blockNumber, or
// when the slot has none within that incarnation.
func (a *Accessor) QueryStorage(blockNumber uint64, address ehcommon.Address, slot uint256.Int) (uint256.Int, bool) {
	a.stats.incQuery()
	acct, ok := a.queryAccount(blockNumber, address)
	if !ok || acct.Incarnation == 0 {
		return uint256.Int{}, false
	}

	key := searchKey{
		hasBlock:       true,
		block:          blockNumber,
		hasAddress:     true,
		address:        address,
		hasIncarnation: true,
		incarnation:    acct.Incarnation,
		hasSlot:        true,
		slot:           slot,
	}
	e, ok := a.twoLevelSearch(key)
	if !ok || e.kind != entryStorage {
		return uint256.Int{}, false
	}
	return e.value, true
}
