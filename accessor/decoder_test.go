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
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestDecodeAccountLiteralFields(t *testing.T) {
	// flag=0 (no balance, no codeHash), nonceBits=2 (literal nonce=2),
	// incarBits=1 (literal incarnation=1).
	const f = byte(0) | (2 << 2) | (1 << 4)
	buf := []byte{opAccountLo + f}
	r := newByteReader(buf, 0, int64(len(buf))-1)
	var ctx decodeContext

	e, outcome, se := decodeNext(&r, &ctx)
	require.Nil(t, se)
	require.Equal(t, decodedEntry, outcome)
	require.Equal(t, entryAccount, e.kind)
	require.Equal(t, uint64(2), e.nonce)
	require.Equal(t, uint64(1), e.incarnation)
	require.True(t, e.balance.IsZero())
	require.Equal(t, uint64(1), ctx.incarnation, "decoding an account entry updates the context's incarnation register")
}

func TestDecodeStorageLiteralFields(t *testing.T) {
	// slotCode=3 (slot=3), no delta, valueCode=2 (value=2).
	const f = (byte(3) << 4) | (0 << 3) | 2
	buf := []byte{opStorageLo + f}
	r := newByteReader(buf, 0, int64(len(buf))-1)
	var ctx decodeContext
	ctx.incarnation = 5

	e, outcome, se := decodeNext(&r, &ctx)
	require.Nil(t, se)
	require.Equal(t, decodedEntry, outcome)
	require.Equal(t, entryStorage, e.kind)
	require.Equal(t, "3", e.slot.Dec())
	require.Equal(t, "2", e.value.Dec())
	require.Equal(t, uint64(5), e.incarnation, "storage entries inherit the context's current incarnation")
}

func TestDecodeStorageSlotDeltaAndValueInversion(t *testing.T) {
	// slotCode=2 (literal addend 2), delta=1, valueCode=7 (varint value,
	// invert bit set).
	const f = (byte(2) << 4) | (1 << 3) | 7
	buf := []byte{opStorageLo + f, 5} // value varint: literal byte 5
	r := newByteReader(buf, 0, int64(len(buf))-1)
	var ctx decodeContext
	ctx.prevSlot = *uint256.NewInt(10)

	e, outcome, se := decodeNext(&r, &ctx)
	require.Nil(t, se)
	require.Equal(t, decodedEntry, outcome)

	// slot = literal(2) + (prevSlot(10) + 1) = 13
	require.Equal(t, "13", e.slot.Dec())

	var want uint256.Int
	want.SetUint64(5)
	want.Not(&want)
	require.Equal(t, want.Hex(), e.value.Hex())

	require.Equal(t, e.slot.Hex(), ctx.prevSlot.Hex(), "prevSlot is updated to the just-decoded slot")
}

func TestDecodeIncarnationOverrideAppliesOnceToNextStorageEntry(t *testing.T) {
	// opIncarnationAdd(250) carrying a varint delta of 3, then a storage
	// entry with slotCode=0 (slot=0), valueCode=0 (value=0).
	buf := []byte{250, 3, opStorageLo}
	r := newByteReader(buf, 0, int64(len(buf))-1)
	var ctx decodeContext
	ctx.incarnation = 4

	e, outcome, _ := decodeNext(&r, &ctx)
	require.Equal(t, decodedEntry, outcome)
	require.Equal(t, uint64(7), e.incarnation) // 4 + 3
	require.Equal(t, uint64(0), ctx.incarnationOverride, "the override is consumed after one use")
}

func TestDecodeEndOfPage(t *testing.T) {
	buf := []byte{0}
	r := newByteReader(buf, 0, int64(len(buf))-1)
	var ctx decodeContext
	_, outcome, se := decodeNext(&r, &ctx)
	require.Nil(t, se)
	require.Equal(t, decodedEndOfPage, outcome)
}

func TestDecodeUnknownOpcodeIsSyntaxError(t *testing.T) {
	// Opcodes 251..255 are unassigned (250 is opIncarnationAdd, nothing
	// is defined above it).
	buf := []byte{251}
	r := newByteReader(buf, 0, int64(len(buf))-1)
	var ctx decodeContext
	_, outcome, se := decodeNext(&r, &ctx)
	require.Equal(t, decodedSyntaxError, outcome)
	require.NotNil(t, se)
	require.Equal(t, byte(251), se.lead)
}

func TestDecodeSetBlockAndSetAddressResetContext(t *testing.T) {
	buf := []byte{
		8, 0, 0, 0, 0, 0, 0, 0, 42, // opcode 8: blockNumber=42
		9, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, // opcode 9: address
	}
	r := newByteReader(buf, 0, int64(len(buf))-1)
	var ctx decodeContext
	ctx.incarnation = 99

	_, outcome, se := decodeNext(&r, &ctx)
	require.Nil(t, se)
	require.Equal(t, decodedNotFound, outcome) // reader exhausted after the two context opcodes, no terminal entry
	require.Equal(t, uint64(42), ctx.blockNumber)
	require.True(t, ctx.hasAddress)
	require.Equal(t, uint64(0), ctx.incarnation, "setting a new address resets the incarnation register")
}
