package printer

import (
	"io"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Console is a format for outputting trees to a console with a fixed width
// font. It uses colors to distinguish live entries, tombstones and missing
// children.
type Console struct {
	colors map[CellKind]*color.Color
}

// NewConsole creates a new console format.
//
// colors is a map from cell kinds to colors, used for display. It may contain
// just a subset of the cell kinds; cells of other kinds are printed uncolored.
// If colors is nil, a default palette is used.
func NewConsole(colors map[CellKind]*color.Color) *Console {
	if colors == nil {
		colors = makeDefaultPalette()
	}
	return &Console{colors: colors}
}

func makeDefaultPalette() map[CellKind]*color.Color {
	return map[CellKind]*color.Color{
		LiveCell:      color.New(color.FgBlue),
		TombstoneCell: color.New(color.FgRed),
		AbsentCell:    color.New(color.Faint),
		EmptyCell:     color.New(color.Italic),
	}
}

// Preamble is a no-op for consoles.
func (fw *Console) Preamble(io.Writer) {}

// Postamble is a no-op for consoles.
func (fw *Console) Postamble(io.Writer) {}

// Row is a no-op for consoles.
func (fw *Console) Row(int, io.Writer) {}

// Cell outputs a cell in the color configured for its kind.
func (fw *Console) Cell(cell Cell, w io.Writer) {
	if c, ok := fw.colors[cell.Kind]; ok {
		c.Fprint(w, cell.Text)
	} else {
		io.WriteString(w, cell.Text)
	}
	io.WriteString(w, " ")
}

// EndRow terminates the current line.
func (fw *Console) EndRow(w io.Writer) {
	io.WriteString(w, "\n")
}

// --- Config for terminals --------------------------------------------------

// ConfigFromTerminal is a simple helper for creating a printing Config.
// It checks wether stdout is a terminal, and if so it reads the terminal's width
// and sets the Config.LineWidth parameter accordingly.
func ConfigFromTerminal() *Config {
	config := &Config{}
	if term.IsTerminal(1) {
		w, _, err := term.GetSize(1)
		if err != nil {
			config.LineWidth = 80
		} else if w > 10 {
			config.LineWidth = w
		} else {
			config.LineWidth = 10
		}
	} else {
		config.LineWidth = 0
	}
	T().Debugf("setting line length to %d en", config.LineWidth)
	return config
}
