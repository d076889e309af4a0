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

// Package accessor provides read-only, point-in-time access to a single
// memory-mapped state-history file: a delta-compressed log of historical
// account and storage values, ordered so that the value in effect at any
// past block can be found without scanning the whole file.
//
// Open maps the file and validates its header; QueryAccount and
// QueryStorage then resolve "what was the value as of block N" with a
// two-level search (binary search over pages, then a bounded scan within
// the converged page). The file itself is never written to by this
// package — whatever produced it is out of scope here.
package accessor
