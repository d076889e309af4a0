// Copyright 2017 The go-ethereum Authors
// (original work)
// Copyright 2024 The Erigon Authors
// (modifications)
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

// Package overflow holds the small overflow-checked integer helpers the
// accessor uses for page and file-offset arithmetic, where a header
// field taken straight from an untrusted mapped file must never be
// allowed to wrap silently.
package overflow

import "math/bits"

// SafeAdd returns x+y and whether the addition overflowed uint64.
func SafeAdd(x, y uint64) (uint64, bool) {
	sum, carryOut := bits.Add64(x, y, 0)
	return sum, carryOut != 0
}

// SafeMul returns x*y and whether the multiplication overflowed uint64.
func SafeMul(x, y uint64) (uint64, bool) {
	hi, lo := bits.Mul64(x, y)
	return lo, hi != 0
}

// CeilDiv returns ceil(x/y), or 0 if y is 0.
func CeilDiv(x, y int64) int64 {
	if y == 0 {
		return 0
	}
	return (x + y - 1) / y
}
