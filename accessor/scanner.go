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

// scanOutcome is the result of scanning a single page (§4.4).
type scanOutcome int8

const (
	scanEQ scanOutcome = iota
	scanLT
	scanGT
	scanNotFound
)

// scanPage walks the entries of one page, in [start, end] (inclusive
// end, matching byteReader), comparing each against key.
//
// When all is false (L1), it returns the result of the first decoded
// entry only — L1 comparisons only ever look at a page's first entry.
//
// When all is true (L2), it scans through consecutive GT entries,
// remembering the most recent one, and stops at the first non-GT
// entry. This produces the nearest-not-greater entry on the
// blockNumber component while preserving EQ/LT/GT on everything else
// (§4.4's rationale).
func (a *Accessor) scanPage(start, end int64, key searchKey, all bool) (scanOutcome, entry) {
	var ctx decodeContext
	r := newByteReader(a.data, start, end)

	var saved entry
	haveSaved := false

	for {
		e, outcome, se := decodeNext(&r, &ctx)
		switch outcome {
		case decodedSyntaxError:
			a.logSyntaxError(se)
			return scanNotFound, entry{}

		case decodedNotFound, decodedEndOfPage:
			if all && haveSaved {
				return scanGT, saved
			}
			return scanNotFound, entry{}

		case decodedEntry:
			cmp := compareGeneral(key, viewOf(e))
			if !all {
				switch cmp {
				case cmpEQ:
					return scanEQ, e
				case cmpLT:
					return scanLT, e
				default: // cmpGT
					return scanGT, e
				}
			}
			switch cmp {
			case cmpGT:
				saved = e
				haveSaved = true
				continue
			case cmpEQ:
				return scanEQ, e
			default: // cmpLT
				if haveSaved {
					return scanGT, saved
				}
				return scanLT, e
			}
		}
	}
}
