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

// Package accounts defines the account record produced by the history
// accessor's queryAccount operation.
package accounts

import (
	"github.com/holiman/uint256"

	ehcommon "github.com/erigontech/erigon-history/common"
)

// EmptyCodeHash is the sentinel stored in Account.CodeHash when the
// account has no associated contract code.
var EmptyCodeHash ehcommon.Hash

// Account is the decoded account record at a given block, as returned
// by an accessor's queryAccount.
type Account struct {
	Nonce       uint64
	Incarnation uint64
	Balance     uint256.Int
	CodeHash    ehcommon.Hash
}

// HasCode reports whether the account carries non-empty contract code,
// i.e. whether CodeHash is anything other than the all-zero sentinel.
func (a *Account) HasCode() bool {
	return a.CodeHash != EmptyCodeHash
}

// IsEmptyAccount reports whether the account record represents the
// zero-value account (no nonce, no balance, no code, no incarnation),
// which is indistinguishable from "account destroyed" for this accessor.
func (a *Account) IsEmptyAccount() bool {
	return a.Nonce == 0 && a.Incarnation == 0 && a.Balance.IsZero() && !a.HasCode()
}
