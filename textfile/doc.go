/*
Package textfile provides API helpers to load text files of key/value records
into scapegoat trees.

Records are lines of the form

	key,value

with optional whitespace around key and value. Lines which cannot be parsed
are skipped; clients may subscribe to a loader to be informed about every
record read and every line skipped.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the LICENSE file for details.
*/
package textfile

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'scapegoat'
func tracer() tracing.Trace {
	return tracing.Select("scapegoat")
}
