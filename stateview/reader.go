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

// Package stateview adapts an accessor.Accessor into the narrow
// read-only surface a CLI or JSON exporter needs: "the state as of
// block N", without any of the live-node machinery (no transactions,
// no pruning, no code storage — this file format carries none of
// that).
package stateview

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/erigontech/erigon-history/accessor"
	"github.com/erigontech/erigon-history/accounts"
	ehcommon "github.com/erigontech/erigon-history/common"
)

// ErrNoHistory is returned by ReadAccountData and ReadAccountStorage when
// the accessor has no record for the requested key at or before the
// reader's block (ReadAccountIncarnation returns 0 instead). Code built against
// this package distinguishes "account never existed up to this block"
// from "account existed but is empty" by this error, not by a nil/zero
// return value.
var ErrNoHistory = errors.New("stateview: no history at or before this block")

// Reader is a point-in-time view over one accessor.Accessor at the block
// number last passed to SetBlock. Call SetBlock (or construct a new
// Reader) to look at a different block; the underlying Accessor can be
// shared by any number of Readers.
type Reader struct {
	a     *accessor.Accessor
	block uint64
}

// NewReader returns a Reader over a, set to block 0 until SetBlock is
// called.
func NewReader(a *accessor.Accessor) *Reader {
	return &Reader{a: a}
}

func (r *Reader) SetBlock(block uint64) { r.block = block }
func (r *Reader) GetBlock() uint64      { return r.block }

// ReadAccountData mirrors the teacher's HistoryReaderV3.ReadAccountData,
// minus the live-transaction plumbing: it resolves straight to the
// accessor's QueryAccount at the reader's fixed block.
func (r *Reader) ReadAccountData(address ehcommon.Address) (*accounts.Account, error) {
	a, ok := r.a.QueryAccount(r.block, address)
	if !ok {
		return nil, fmt.Errorf("ReadAccountData(%s): %w", address, ErrNoHistory)
	}
	return &a, nil
}

// ReadAccountStorage mirrors HistoryReaderV3.ReadAccountStorage: the
// value at slot under address's storage, as of the reader's block. The
// accessor resolves the account's incarnation at that block internally
// (§4.6), so callers never supply one directly.
func (r *Reader) ReadAccountStorage(address ehcommon.Address, slot uint256.Int) (uint256.Int, error) {
	v, ok := r.a.QueryStorage(r.block, address, slot)
	if !ok {
		return uint256.Int{}, fmt.Errorf("ReadAccountStorage(%s, %s): %w", address, slot.Hex(), ErrNoHistory)
	}
	return v, nil
}

// ReadAccountIncarnation mirrors HistoryReaderV3.ReadAccountIncarnation.
// Unlike the teacher's version there is no "incarnation - 1" adjustment
// to undo: this file format's account entries already carry the
// incarnation in effect at the entry's block, not the next one to be
// assigned.
func (r *Reader) ReadAccountIncarnation(address ehcommon.Address) (uint64, error) {
	a, ok := r.a.QueryAccount(r.block, address)
	if !ok {
		return 0, nil
	}
	return a.Incarnation, nil
}
