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
	"os"
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	ehcommon "github.com/erigontech/erigon-history/common"
	"github.com/erigontech/erigon-history/internal/testencode"
)

func writeTestFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.history")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func openTest(t *testing.T, path string) *Accessor {
	t.Helper()
	a, err := Open(path, Options{NoLock: true})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, a.Close()) })
	return a
}

func addrFromByte(b byte) ehcommon.Address {
	var raw [20]byte
	raw[19] = b
	return ehcommon.BytesToAddress(raw[:])
}

// TestQuerySinglePageScenarios builds one page holding an address'
// account history (blocks 10 and 30) plus its storage history for one
// slot (blocks 30 and 50), and exercises every nearest-not-greater edge
// case a single-page L2 scan can hit.
func TestQuerySinglePageScenarios(t *testing.T) {
	const pageShift = 8 // 256-byte pages
	addr := addrFromByte(1)

	page := testencode.Page(1<<pageShift, []testencode.Record{
		testencode.AccountRecord(testencode.Account{Block: 10, Address: addr, Nonce: 1, Incarnation: 1, Balance: *uint256.NewInt(100)}),
		testencode.AccountRecord(testencode.Account{Block: 30, Address: addr, Nonce: 3, Incarnation: 1, Balance: *uint256.NewInt(300)}),
		testencode.StorageRecord(testencode.Storage{Block: 30, Address: addr, Incarnation: 1, Slot: *uint256.NewInt(5), Value: *uint256.NewInt(111)}),
		testencode.StorageRecord(testencode.Storage{Block: 50, Address: addr, Incarnation: 1, Slot: *uint256.NewInt(5), Value: *uint256.NewInt(222)}),
	})

	file := testencode.File(testencode.Header{
		FileVersion: fileVersion,
		PageShift:   pageShift,
		BlockFirst:  10,
		BlockLast:   50,
	}, [][]byte{page})

	a := openTest(t, writeTestFile(t, file))

	t.Run("before first block is out of range", func(t *testing.T) {
		_, ok := a.QueryAccount(5, addr)
		require.False(t, ok)
	})

	t.Run("exact match on first entry", func(t *testing.T) {
		acct, ok := a.QueryAccount(10, addr)
		require.True(t, ok)
		require.Equal(t, uint64(1), acct.Nonce)
		require.Equal(t, "100", acct.Balance.Dec())
	})

	t.Run("nearest-not-greater between entries", func(t *testing.T) {
		acct, ok := a.QueryAccount(20, addr)
		require.True(t, ok)
		require.Equal(t, uint64(1), acct.Nonce)
	})

	t.Run("exact match on second entry", func(t *testing.T) {
		acct, ok := a.QueryAccount(30, addr)
		require.True(t, ok)
		require.Equal(t, uint64(3), acct.Nonce)
	})

	t.Run("nearest-not-greater past the last account entry, across storage entries", func(t *testing.T) {
		acct, ok := a.QueryAccount(45, addr)
		require.True(t, ok)
		require.Equal(t, uint64(3), acct.Nonce)
		require.Equal(t, "300", acct.Balance.Dec())
	})

	t.Run("after blockLast is out of range", func(t *testing.T) {
		_, ok := a.QueryAccount(60, addr)
		require.False(t, ok)
	})

	t.Run("storage nearest-not-greater", func(t *testing.T) {
		v, ok := a.QueryStorage(45, addr, *uint256.NewInt(5))
		require.True(t, ok)
		require.Equal(t, "111", v.Dec())
	})

	t.Run("storage exact match on the later entry", func(t *testing.T) {
		v, ok := a.QueryStorage(50, addr, *uint256.NewInt(5))
		require.True(t, ok)
		require.Equal(t, "222", v.Dec())
	})

	t.Run("unknown slot is not found", func(t *testing.T) {
		_, ok := a.QueryStorage(50, addr, *uint256.NewInt(6))
		require.False(t, ok)
	})

	t.Run("unknown address is not found", func(t *testing.T) {
		_, ok := a.QueryAccount(30, addrFromByte(99))
		require.False(t, ok)
	})

	t.Run("stat reflects accumulated queries", func(t *testing.T) {
		before := a.Stat().Queries
		a.QueryAccount(30, addr)
		require.Equal(t, before+1, a.Stat().Queries)
	})
}

// TestQueryMultiPageSearch spreads two addresses across two pages so
// twoLevelSearch's L1 binary search has to pick the right page before
// L2 ever runs.
func TestQueryMultiPageSearch(t *testing.T) {
	const pageShift = 8
	addrA := addrFromByte(1)
	addrB := addrFromByte(2)

	page0 := testencode.Page(1<<pageShift, []testencode.Record{
		testencode.AccountRecord(testencode.Account{Block: 10, Address: addrA, Nonce: 1, Incarnation: 1, Balance: *uint256.NewInt(100)}),
	})
	page1 := testencode.Page(1<<pageShift, []testencode.Record{
		testencode.AccountRecord(testencode.Account{Block: 10, Address: addrB, Nonce: 7, Incarnation: 1, Balance: *uint256.NewInt(700)}),
	})

	file := testencode.File(testencode.Header{
		FileVersion: fileVersion,
		PageShift:   pageShift,
		BlockFirst:  10,
		BlockLast:   10,
	}, [][]byte{page0, page1})

	a := openTest(t, writeTestFile(t, file))

	acctA, ok := a.QueryAccount(10, addrA)
	require.True(t, ok)
	require.Equal(t, uint64(1), acctA.Nonce)

	acctB, ok := a.QueryAccount(10, addrB)
	require.True(t, ok)
	require.Equal(t, uint64(7), acctB.Nonce)

	stat := a.Stat()
	require.Greater(t, stat.QueryPagesL1+stat.QueryPagesL2, uint64(0))
}

func TestOpenRejectsTruncatedFile(t *testing.T) {
	path := writeTestFile(t, []byte{1, 2, 3})
	_, err := Open(path, Options{NoLock: true})
	require.Error(t, err)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
}
