/*
Package metrics exports the operation counters of scapegoat trees as Prometheus
metrics.

A Collector reads the statistics of a tree whenever it is scraped. Trees are
not safe for concurrent use, so clients sharing a tree between a scrape handler
and a writer have to provide a lock with WithLock.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the LICENSE file for details.
*/
package metrics

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'scapegoat'
func tracer() tracing.Trace {
	return tracing.Select("scapegoat")
}
