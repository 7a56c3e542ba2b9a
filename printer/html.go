package printer

import (
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTML is a format for simple HTML output. A tree is rendered as a table with
// one table row per level. Cells carry a CSS class according to their kind.
//
// HTML is stateful and may not be used for more than one Output at a time.
type HTML struct {
	table *html.Node
	row   *html.Node
	Err   error // error of the last rendering, if any
}

// NewHTML creates an HTML format.
func NewHTML() *HTML {
	return &HTML{}
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     a.String(),
		DataAtom: a,
		Attr:     attrs,
	}
}

// Preamble starts a new table.
func (h *HTML) Preamble(io.Writer) {
	h.table = element(atom.Table, html.Attribute{Key: "class", Val: "scapegoat"})
	h.row = nil
	h.Err = nil
}

// Row starts a table row for a level of the tree.
func (h *HTML) Row(depth int, _ io.Writer) {
	h.row = element(atom.Tr, html.Attribute{Key: "data-depth", Val: strconv.Itoa(depth)})
	h.table.AppendChild(h.row)
}

// Cell appends a table cell to the current row.
func (h *HTML) Cell(cell Cell, _ io.Writer) {
	td := element(atom.Td, html.Attribute{Key: "class", Val: cell.Kind.String()})
	td.AppendChild(&html.Node{Type: html.TextNode, Data: cell.Text})
	h.row.AppendChild(td)
}

// EndRow is a no-op for HTML.
func (h *HTML) EndRow(io.Writer) {}

// Postamble renders the complete table to w.
func (h *HTML) Postamble(w io.Writer) {
	if h.Err = html.Render(w, h.table); h.Err != nil {
		T().Errorf("cannot render HTML: %v", h.Err)
	}
	io.WriteString(w, "\n")
}
