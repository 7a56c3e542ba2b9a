package textfile

import (
	"bufio"
	"cmp"
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/guiguan/caster"
	"github.com/npillmayer/scapegoat"
)

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

All rights reserved.

Please refer to the LICENSE file in the repository root.
*/

// ErrMalformedRecord is attached to events for lines which could not be parsed
// as a key/value record.
var ErrMalformedRecord = errors.New("malformed record")

// ParseFunc converts the textual key and value of a record. Both strings are
// already trimmed of surrounding whitespace.
type ParseFunc[K, V any] func(key, value string) (K, V, error)

// Event is broadcast to subscribers of a loader for every line read.
// For records Err is nil; for skipped lines Entry is the zero value and Err
// wraps ErrMalformedRecord.
type Event[K, V any] struct {
	Line  int // 1-based line number
	Entry scapegoat.Entry[K, V]
	Err   error
}

// Loader reads key/value records from text sources.
type Loader[K, V any] struct {
	parse   ParseFunc[K, V]
	cast    *caster.Caster // broadcaster for record events
	records int
	skipped int
}

// NewLoader creates a loader which converts records with parse.
func NewLoader[K, V any](parse ParseFunc[K, V]) *Loader[K, V] {
	return &Loader[K, V]{
		parse: parse,
		cast:  caster.New(nil), // we will broadcast an event for every line read
	}
}

// Subscribe returns a channel which will receive an Event[K,V] for every line
// read by subsequent calls to Read or Load. capacity is the buffer size of the
// channel. Subscribers have to drain their channel, otherwise loading will
// block. The channel is closed when ctx is done or the loader is closed.
func (l *Loader[K, V]) Subscribe(ctx context.Context, capacity uint) (<-chan interface{}, error) {
	ch, ok := l.cast.Sub(ctx, capacity)
	if !ok {
		return nil, errors.New("textfile: loader is closed")
	}
	return ch, nil
}

// Close stops broadcasting and closes all subscriber channels.
func (l *Loader[K, V]) Close() {
	l.cast.Close()
}

// Records returns the number of records read so far.
func (l *Loader[K, V]) Records() int {
	return l.records
}

// Skipped returns the number of malformed lines skipped so far.
func (l *Loader[K, V]) Skipped() int {
	return l.skipped
}

// Read reads all records from r and returns them in input order.
// Malformed lines are skipped; only I/O errors are returned.
func (l *Loader[K, V]) Read(r io.Reader) ([]scapegoat.Entry[K, V], error) {
	if l == nil || l.parse == nil || r == nil {
		return nil, scapegoat.ErrIllegalArguments
	}
	var entries []scapegoat.Entry[K, V]
	reader := bufio.NewReader(r) // no limit on line length
	lineno := 0
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return entries, errors.Wrap(err, "textfile: reading records")
		}
		if line == "" && err == io.EOF {
			break
		}
		lineno++
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) != "" {
			entries = l.record(entries, line, lineno)
		}
		if err == io.EOF {
			break
		}
	}
	return entries, nil
}

// record parses a single non-blank line and broadcasts the outcome.
func (l *Loader[K, V]) record(entries []scapegoat.Entry[K, V], line string, lineno int) []scapegoat.Entry[K, V] {
	entry, err := ParseRecord(line, l.parse)
	if err != nil {
		l.skipped++
		err = errors.Wrapf(err, "line %d", lineno)
		tracer().Debugf("textfile: skipping %s", err.Error())
		l.cast.Pub(Event[K, V]{Line: lineno, Err: err})
		return entries
	}
	l.records++
	l.cast.Pub(Event[K, V]{Line: lineno, Entry: entry})
	return append(entries, entry)
}

// ParseRecord splits a single line at the first comma and converts key and
// value with parse. Errors for malformed lines are marked with ErrMalformedRecord.
func ParseRecord[K, V any](line string, parse ParseFunc[K, V]) (scapegoat.Entry[K, V], error) {
	k, v, ok := strings.Cut(line, ",")
	if !ok {
		return scapegoat.Entry[K, V]{}, errors.Wrapf(ErrMalformedRecord, "missing separator in %q", line)
	}
	key, value, err := parse(strings.TrimSpace(k), strings.TrimSpace(v))
	if err != nil {
		return scapegoat.Entry[K, V]{}, errors.Mark(errors.Wrapf(err, "cannot parse %q", line), ErrMalformedRecord)
	}
	return scapegoat.Entry[K, V]{Key: key, Value: value}, nil
}

// Load reads a file, which must be a regular text file, and returns all the
// records it contains.
func (l *Loader[K, V]) Load(name string) ([]scapegoat.Entry[K, V], error) {
	file, err := openFile(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	tracer().Infof("textfile: loading records from %s", name)
	return l.Read(file)
}

// openFile opens an OS file for reading, checking for error conditions.
func openFile(name string) (*os.File, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return nil, errors.Wrapf(err, "textfile: cannot load %s", name)
	} else if !fi.Mode().IsRegular() {
		return nil, errors.Newf("textfile: %s is not a regular file", name)
	}
	file, err := os.Open(name) // just open for read access
	if err != nil {
		return nil, errors.Wrapf(err, "textfile: cannot open %s", name)
	}
	return file, nil
}

// LoadTree loads the records of a file into a new tree with balance factor alpha.
func LoadTree[K cmp.Ordered, V any](name string, alpha float64, parse ParseFunc[K, V]) (*scapegoat.Tree[K, V], error) {
	loader := NewLoader(parse)
	defer loader.Close()
	entries, err := loader.Load(name)
	if err != nil {
		return nil, err
	}
	b := scapegoat.NewBuilder[K, V](alpha)
	for _, e := range entries {
		if err := b.Add(e.Key, e.Value); err != nil {
			return nil, err
		}
	}
	if loader.Skipped() > 0 {
		tracer().Infof("textfile: %d malformed lines skipped in %s", loader.Skipped(), name)
	}
	return b.Tree()
}

// --- Record parsers --------------------------------------------------------

// IntString parses records with integer keys and string values.
func IntString(key, value string) (int, string, error) {
	k, err := strconv.Atoi(key)
	if err != nil {
		return 0, "", err
	}
	if value == "" {
		return 0, "", errors.New("empty value")
	}
	return k, value, nil
}

// IntInt parses records with integer keys and integer values.
func IntInt(key, value string) (int, int, error) {
	k, err := strconv.Atoi(key)
	if err != nil {
		return 0, 0, err
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, 0, err
	}
	return k, v, nil
}

// StringString parses records with string keys and string values.
func StringString(key, value string) (string, string, error) {
	if key == "" {
		return "", "", errors.New("empty key")
	}
	return key, value, nil
}
