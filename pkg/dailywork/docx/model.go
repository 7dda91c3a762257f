package docx

import "strings"

// Kind identifies the type of a top-level body element.
type Kind int

const (
	// KindOther covers body elements that are neither paragraphs nor tables
	// (section properties, content controls, bookmarks).
	KindOther Kind = iota
	// KindParagraph is a w:p element.
	KindParagraph
	// KindTable is a w:tbl element.
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindTable:
		return "table"
	default:
		return "other"
	}
}

// Block is a top-level element of the document body.
type Block interface {
	Kind() Kind
	// Text returns the visible text of the element. Paragraph boundaries are
	// rendered as "\n".
	Text() string
}

// RunStyle is the character formatting applied to a paragraph's text.
type RunStyle struct {
	// FontFamily is the font name (w:rFonts ascii).
	FontFamily string `json:"font_family,omitempty"`
	// FontSize is the font size in points.
	FontSize int `json:"font_size,omitempty"`
	// Color is the foreground color as "#rrggbb".
	Color string `json:"color,omitempty"`
	// Bold reports whether the text is bold.
	Bold bool `json:"bold,omitempty"`
}

// Paragraph is a single text block.
type Paragraph struct {
	text  string
	style *RunStyle
}

// NewParagraph returns an unstyled paragraph.
func NewParagraph(text string) *Paragraph {
	return &Paragraph{text: text}
}

// NewStyledParagraph returns a paragraph whose text carries style.
func NewStyledParagraph(text string, style RunStyle) *Paragraph {
	return &Paragraph{text: text, style: &style}
}

func (p *Paragraph) Kind() Kind   { return KindParagraph }
func (p *Paragraph) Text() string { return p.text }

// Style returns the formatting of the paragraph's first run, or nil when the
// run carries no explicit formatting.
func (p *Paragraph) Style() *RunStyle {
	if p.style == nil {
		return nil
	}
	s := *p.style
	return &s
}

// Table is an ordered sequence of rows.
type Table struct {
	rows []*Row
}

// NewTable builds a table from cell texts. Each inner slice is one row; a
// cell text containing "\n" becomes one paragraph per line.
func NewTable(rows ...[]string) *Table {
	t := &Table{}
	for _, cells := range rows {
		row := &Row{}
		for _, text := range cells {
			c := &Cell{}
			for _, line := range strings.Split(text, "\n") {
				c.paragraphs = append(c.paragraphs, NewParagraph(line))
			}
			row.cells = append(row.cells, c)
		}
		t.rows = append(t.rows, row)
	}
	return t
}

func (t *Table) Kind() Kind { return KindTable }

func (t *Table) Text() string {
	var lines []string
	for _, r := range t.rows {
		for _, c := range r.cells {
			lines = append(lines, c.Text())
		}
	}
	return strings.Join(lines, "\n")
}

// NumRows returns the number of rows, header included.
func (t *Table) NumRows() int { return len(t.rows) }

// Row returns the row at index i, or nil when out of range.
func (t *Table) Row(i int) *Row {
	if i < 0 || i >= len(t.rows) {
		return nil
	}
	return t.rows[i]
}

// Row is an ordered sequence of cells.
type Row struct {
	cells []*Cell
}

// NumCells returns the number of w:tc elements in the row.
func (r *Row) NumCells() int { return len(r.cells) }

// Cell returns the cell at index i, or nil when out of range.
func (r *Row) Cell(i int) *Cell {
	if i < 0 || i >= len(r.cells) {
		return nil
	}
	return r.cells[i]
}

// Cell is a table cell holding one or more paragraphs.
type Cell struct {
	paragraphs []*Paragraph
	raw        *rawCell
	dirty      bool
}

// rawCell locates a parsed cell inside the source document part.
type rawCell struct {
	start   int // offset of '<' of the w:tc start tag
	openEnd int // offset just past the start tag
	end     int // offset just past the w:tc end tag
	props   []byte
}

// Text returns the cell's paragraphs joined by "\n".
func (c *Cell) Text() string {
	lines := make([]string, len(c.paragraphs))
	for i, p := range c.paragraphs {
		lines[i] = p.text
	}
	return strings.Join(lines, "\n")
}

// NumChildren returns the number of paragraphs in the cell.
func (c *Cell) NumChildren() int { return len(c.paragraphs) }

// Paragraphs returns the cell's paragraphs in order.
func (c *Cell) Paragraphs() []*Paragraph {
	out := make([]*Paragraph, len(c.paragraphs))
	copy(out, c.paragraphs)
	return out
}

// Replace discards every child of the cell, prior formatting included, and
// inserts a single paragraph containing text formatted with style.
func (c *Cell) Replace(text string, style RunStyle) {
	c.paragraphs = []*Paragraph{NewStyledParagraph(text, style)}
	c.dirty = true
}

// Other is a body element that is neither a paragraph nor a table.
type Other struct {
	name string
	text string
}

func (o *Other) Kind() Kind   { return KindOther }
func (o *Other) Text() string { return o.text }

// Name returns the element's local name (e.g. "sectPr").
func (o *Other) Name() string { return o.name }
