package printer

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/npillmayer/scapegoat"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/uax11"
)

// EmptyTreeText is printed for trees without nodes.
const EmptyTreeText = "Tree is empty."

// CellKind classifies the cells of a level row.
type CellKind int

// Kinds of cells
const (
	LiveCell      CellKind = iota // live entry
	TombstoneCell                 // removed entry, not yet reclaimed
	AbsentCell                    // missing child
	EmptyCell                     // placeholder for an empty tree
)

func (k CellKind) String() string {
	switch k {
	case LiveCell:
		return "live"
	case TombstoneCell:
		return "tombstone"
	case AbsentCell:
		return "absent"
	}
	return "empty"
}

// Cell is a single slot of a level row, ready for output.
type Cell struct {
	Text  string
	Kind  CellKind
	Width int // display width of Text in fixed-width positions
}

// Config represents a set of configuration parameters for printing.
type Config struct {
	LineWidth      int            // wrap rows wider than this; 0 means no wrapping
	Context        *uax11.Context // context for display width calculation
	HideTombstones bool           // print tombstones as missing children, omitting their subtrees
}

// Format is an interface for output drivers, given an io.Writer.
//
// For every level of a tree, Output will call Row, then Cell for every slot of the
// level, then EndRow. Rows too wide for the configured line width are split into
// more than one Row/EndRow sequence with the same depth.
type Format interface {
	Preamble(io.Writer)
	Row(int, io.Writer)
	Cell(Cell, io.Writer)
	EndRow(io.Writer)
	Postamble(io.Writer)
}

var setupGraphemes sync.Once

// Output prints a tree level by level using a given format.
//
// tree, w and format may not be nil. If config is nil, rows will not be wrapped.
// It is safe to have config.Context set to nil; in this case, uax11.LatinContext
// is used.
func Output[K, V any](tree *scapegoat.Tree[K, V], w io.Writer, config *Config, format Format) error {
	if tree == nil || w == nil || format == nil {
		return scapegoat.ErrIllegalArguments
	}
	if config == nil {
		config = &Config{}
	}
	context := config.Context
	if context == nil {
		context = uax11.LatinContext
	}
	setupGraphemes.Do(grapheme.SetupGraphemeClasses)
	width := func(s string) int {
		return uax11.StringWidth(grapheme.StringFromString(s), context)
	}
	format.Preamble(w)
	if tree.IsEmpty() {
		format.Row(0, w)
		format.Cell(Cell{Text: EmptyTreeText, Kind: EmptyCell, Width: width(EmptyTreeText)}, w)
		format.EndRow(w)
		format.Postamble(w)
		return nil
	}
	// skip marks the slots of a row which lie below a hidden tombstone
	var skip, next []bool
	tree.EachLevel(func(depth int, row []scapegoat.Slot[K, V]) bool {
		next = next[:0]
		visible := 0
		for i, slot := range row {
			hidden := i < len(skip) && skip[i]
			if slot.Present {
				h := hidden || (config.HideTombstones && slot.Tombstone)
				next = append(next, h, h)
			}
			if !hidden {
				visible++
			}
		}
		if visible == 0 {
			return false
		}
		format.Row(depth, w)
		used := 0
		for i, slot := range row {
			if i < len(skip) && skip[i] {
				continue
			}
			cell := cellFor(slot, config.HideTombstones)
			cell.Width = width(cell.Text)
			if config.LineWidth > 0 && used > 0 && used+cell.Width+1 > config.LineWidth {
				format.EndRow(w)
				format.Row(depth, w)
				used = 0
			}
			format.Cell(cell, w)
			used += cell.Width + 1
		}
		format.EndRow(w)
		skip, next = next, skip
		return true
	})
	format.Postamble(w)
	T().Debugf("printed tree of %d entries", tree.Len())
	return nil
}

func cellFor[K, V any](slot scapegoat.Slot[K, V], hideTombstones bool) Cell {
	switch {
	case !slot.Present, slot.Tombstone && hideTombstones:
		return Cell{Text: "(null, null)", Kind: AbsentCell}
	case slot.Tombstone:
		return Cell{Text: fmt.Sprintf("(%v, †)", slot.Key), Kind: TombstoneCell}
	}
	return Cell{Text: fmt.Sprintf("(%v, %v)", slot.Key, slot.Value), Kind: LiveCell}
}

// Print outputs a tree to stdout, using a console format with colors.
//
// The line width will be taken from the current terminal's properties (if
// stdout is interactive). Config.Context will be created based on heuristics
// from the user environment.
func Print[K, V any](tree *scapegoat.Tree[K, V]) error {
	config := ConfigFromTerminal()
	config.Context = uax11.ContextFromEnvironment()
	return Output(tree, os.Stdout, config, NewConsole(nil))
}

// --- Plain text ------------------------------------------------------------

// Plain is a format for unstyled text, one line per row. Every cell is followed
// by a single space.
type Plain struct{}

// Preamble is a no-op for plain text.
func (Plain) Preamble(io.Writer) {}

// Postamble is a no-op for plain text.
func (Plain) Postamble(io.Writer) {}

// Row is a no-op for plain text.
func (Plain) Row(int, io.Writer) {}

// Cell outputs the cell's text, followed by a space.
func (Plain) Cell(c Cell, w io.Writer) {
	io.WriteString(w, c.Text)
	if c.Kind != EmptyCell {
		io.WriteString(w, " ")
	}
}

// EndRow terminates the current line.
func (Plain) EndRow(w io.Writer) {
	io.WriteString(w, "\n")
}
