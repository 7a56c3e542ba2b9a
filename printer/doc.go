/*
Package printer outputs the structure of scapegoat trees level by level.

Every level of a tree is printed as a row of cells, from the root downwards.
Cells show live entries as

	(key, value)

removed entries which have not yet been reclaimed (tombstones) as

	(key, †)

and missing children as

	(null, null)

With Config.HideTombstones set, tombstones print like missing children and
the entries below them are left out, showing only the reachable live structure.

Printing is driven by Output, which feeds the cells of a tree to a Format.
Formats are available for plain text, for consoles with color support and for
HTML.

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

All rights reserved.

Please refer to the License file in the repository root.

*/
package printer

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}
