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

import "fmt"

// FormatError is returned by Open when the file header fails validation:
// unknown version, an out-of-range page shift, or offsets that don't fit
// the file. It is always fatal to Open.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string { return "accessor: bad file format: " + e.Reason }

func badFormat(format string, a ...any) *FormatError {
	return &FormatError{Reason: fmt.Sprintf(format, a...)}
}

// syntaxError marks an unrecognized opcode byte encountered while
// decoding a page. It never escapes the package: the page scanner
// downgrades it to a NotFound result for that query, per §7.
type syntaxError struct {
	pageOffset int64
	lead       byte
}

func (e *syntaxError) Error() string {
	return fmt.Sprintf("accessor: unknown opcode %#02x at offset %d", e.lead, e.pageOffset)
}
