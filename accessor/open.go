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
	"fmt"
	"os"

	"github.com/anacrolix/log"
	"github.com/c2h5oh/datasize"
	"github.com/edsrzf/mmap-go"
	"github.com/gofrs/flock"
	"github.com/pbnjay/memory"
)

// Options configures Open. The zero value is valid: it takes the
// advisory lock and uses log.Default for diagnostics.
type Options struct {
	// Logger receives Debug-level diagnostics for SyntaxError occurrences
	// (§7). Defaults to log.Default.
	Logger log.Logger

	// NoLock skips taking the advisory shared lock on path+".lock".
	// Tests that don't care about concurrent-writer protection, or
	// environments without a writable directory for the lock file, can
	// set this.
	NoLock bool
}

// Accessor is a handle on one open state-history file (§5's "scoped
// acquisition"). Concurrent queries from multiple goroutines are safe:
// the counters are atomics and the decoder's per-page context registers
// are always stack-local, never shared. Calling Close() concurrently
// with in-flight queries is not safe; callers that do so must provide
// their own synchronization.
type Accessor struct {
	path string
	f    *os.File
	mm   mmap.MMap
	data []byte
	flk  *flock.Flock

	hdr    header
	stats  *counters
	logger log.Logger
}

// Open memory-maps path and validates its header (§6.1). The mapping
// and file handle are held until Close.
func Open(path string, opts Options) (*Accessor, error) {
	logger := opts.Logger
	if logger.IsZero() {
		logger = log.Default
	}

	var flk *flock.Flock
	if !opts.NoLock {
		flk = flock.New(path + ".lock")
		if err := flk.RLock(); err != nil {
			return nil, fmt.Errorf("accessor: open: acquire lock: %w", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		if flk != nil {
			_ = flk.Unlock()
		}
		return nil, fmt.Errorf("accessor: open %s: %w", path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		if flk != nil {
			_ = flk.Unlock()
		}
		return nil, fmt.Errorf("accessor: stat %s: %w", path, err)
	}
	fileSize := fi.Size()
	if fileSize < headerSize {
		_ = f.Close()
		if flk != nil {
			_ = flk.Unlock()
		}
		return nil, badFormat("file %s is %d bytes, smaller than the %d byte header", path, fileSize, headerSize)
	}

	if total := memory.TotalMemory(); total != 0 && uint64(fileSize) > total {
		logger.Levelf(log.Warning, "accessor: %s is %s, larger than the %s of system memory; expect cold-cache page faults",
			path, humanBytes(fileSize), humanBytes(int64(total)))
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		_ = f.Close()
		if flk != nil {
			_ = flk.Unlock()
		}
		return nil, fmt.Errorf("accessor: mmap %s: %w", path, err)
	}

	hdr := decodeHeader(mm)
	if err := hdr.validate(fileSize); err != nil {
		_ = mm.Unmap()
		_ = f.Close()
		if flk != nil {
			_ = flk.Unlock()
		}
		return nil, err
	}

	return &Accessor{
		path:   path,
		f:      f,
		mm:     mm,
		data:   mm,
		flk:    flk,
		hdr:    hdr,
		stats:  newCounters(path),
		logger: logger,
	}, nil
}

// Close releases the mapped region, the file handle and the advisory
// lock, in that order. It is safe to call once; the resources are
// released on every path through Open that created them.
func (a *Accessor) Close() error {
	var firstErr error
	if err := a.mm.Unmap(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("accessor: unmap: %w", err)
	}
	if err := a.f.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("accessor: close: %w", err)
	}
	if a.flk != nil {
		if err := a.flk.Unlock(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("accessor: unlock: %w", err)
		}
	}
	return firstErr
}

// Size returns statesEnd: the number of content bytes in the file
// (§6.2's size(handle)).
func (a *Accessor) Size() uint64 { return a.hdr.statesEnd }

func (a *Accessor) logSyntaxError(se *syntaxError) {
	a.logger.Levelf(log.Debug, "%s: %s", a.path, se.Error())
}

func humanBytes(n int64) string {
	return datasize.ByteSize(n).String()
}
