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
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// counters holds the diagnostic counters from §4.6/§6.2. They are
// plain atomics, not locked state: per §5, callers providing their own
// synchronization may still query concurrently, and atomics keep that
// safe without forcing a mutex onto the read path.
type counters struct {
	queries      atomic.Uint64
	queryPagesL1 atomic.Uint64
	queryPagesL2 atomic.Uint64

	promQueries prometheus.Counter
	promPagesL1 prometheus.Counter
	promPagesL2 prometheus.Counter
}

func newCounters(path string) *counters {
	c := &counters{
		promQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "erigon_history",
			Name:        "queries_total",
			Help:        "Total number of queryAccount/queryStorage calls.",
			ConstLabels: prometheus.Labels{"file": path},
		}),
		promPagesL1: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "erigon_history",
			Name:        "query_pages_l1_total",
			Help:        "Total number of L1 (binary search) page reads.",
			ConstLabels: prometheus.Labels{"file": path},
		}),
		promPagesL2: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "erigon_history",
			Name:        "query_pages_l2_total",
			Help:        "Total number of L2 (nearest-not-greater scan) page reads.",
			ConstLabels: prometheus.Labels{"file": path},
		}),
	}
	return c
}

func (c *counters) incQuery() {
	c.queries.Add(1)
	c.promQueries.Inc()
}

func (c *counters) incPagesL1() {
	c.queryPagesL1.Add(1)
	c.promPagesL1.Inc()
}

func (c *counters) incPagesL2() {
	c.queryPagesL2.Add(1)
	c.promPagesL2.Inc()
}

// Stats is a point-in-time snapshot of the accessor's diagnostic
// counters and file layout, for operator visibility (logging, health
// endpoints). It is additive to §6.2's bare stats() contract.
type Stats struct {
	Queries      uint64
	QueryPagesL1 uint64
	QueryPagesL2 uint64

	BlockFirst uint64
	BlockLast  uint64
	PageSize   int64
	PageCount  int64
	FileSize   int64
}

// Collectors returns the Prometheus collectors backing this accessor's
// counters, for the caller to register with whatever registry its
// process already uses (this package never registers with the global
// default registerer itself, so opening the same file twice in tests
// never panics on a duplicate registration).
func (a *Accessor) Collectors() []prometheus.Collector {
	return []prometheus.Collector{a.stats.promQueries, a.stats.promPagesL1, a.stats.promPagesL2}
}

// Stat returns the current counters and header-derived layout info.
func (a *Accessor) Stat() Stats {
	return Stats{
		Queries:      a.stats.queries.Load(),
		QueryPagesL1: a.stats.queryPagesL1.Load(),
		QueryPagesL2: a.stats.queryPagesL2.Load(),
		BlockFirst:   a.hdr.blockFirst,
		BlockLast:    a.hdr.blockLast,
		PageSize:     a.hdr.pageSize(),
		PageCount:    a.hdr.pageCount(),
		FileSize:     int64(a.hdr.statesEnd),
	}
}
