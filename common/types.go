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

// Package common holds the small fixed-size identifiers shared by the
// history accessor and its collaborators: account addresses and
// 256-bit hashes/storage slots.
package common

import (
	"encoding/hex"
	"fmt"
)

const (
	AddressLength = 20
	HashLength    = 32
)

// Address is a 20-byte Ethereum account identifier.
type Address [AddressLength]byte

func (a Address) Bytes() []byte { return a[:] }

func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) Cmp(b Address) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// BytesToAddress left-pads b into an Address, panicking if b is
// longer than AddressLength.
func BytesToAddress(b []byte) (a Address) {
	if len(b) > AddressLength {
		panic(fmt.Sprintf("common: %d bytes is too long for an Address", len(b)))
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// Hash is a 32-byte value: a storage slot key or a code hash.
type Hash [HashLength]byte

func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) String() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) IsZero() bool { return h == Hash{} }

func BytesToHash(b []byte) (h Hash) {
	if len(b) > HashLength {
		panic(fmt.Sprintf("common: %d bytes is too long for a Hash", len(b)))
	}
	copy(h[HashLength-len(b):], b)
	return h
}
