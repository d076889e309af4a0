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

// twoLevelSearch implements §4.5: a binary search over pages (L1),
// comparing each candidate page's first entry against key, followed by
// a nearest-not-greater scan (L2) of the page the L1 loop converges on.
func (a *Accessor) twoLevelSearch(key searchKey) (entry, bool) {
	lowOffset := int64(a.hdr.statesStart)
	highOffset := int64(a.hdr.statesEnd) - 1
	pageSize := a.hdr.pageSize()
	pageMask := a.hdr.pageMask()

	for {
		if lowOffset > highOffset {
			return entry{}, false
		}
		midOffset := highOffset - ((highOffset - lowOffset) >> 1)
		midPageStart := midOffset &^ pageMask
		midPageEnd := midPageStart | pageMask

		if midPageStart <= lowOffset {
			if midPageEnd >= highOffset {
				break
			}
			midPageStart += pageSize
			midPageEnd = midPageStart | pageMask
		}
		if midPageEnd > highOffset {
			midPageEnd = highOffset
		}

		a.stats.incPagesL1()
		outcome, e := a.scanPage(midPageStart, midPageEnd, key, false)
		switch outcome {
		case scanEQ:
			return e, true
		case scanLT:
			highOffset = midPageStart - 1
		case scanGT:
			lowOffset = midPageStart
		case scanNotFound:
			return entry{}, false
		}
	}

	a.stats.incPagesL2()
	outcome, e := a.scanPage(lowOffset, highOffset, key, true)
	switch outcome {
	case scanEQ:
		return e, true
	case scanGT:
		if identityMatches(key, viewOf(e)) {
			return e, true
		}
		return entry{}, false
	default:
		return entry{}, false
	}
}
