package docx

import (
	"archive/zip"
	"strings"
)

// Document is the body of a .docx package as an ordered sequence of blocks.
//
// A Document returned by Parse keeps the original package; Bytes rewrites only
// the cells changed through Cell.Replace and copies every other byte. A
// Document built with New is rendered from scratch.
type Document struct {
	blocks []Block
	src    *source
}

// source is the package a parsed Document came from.
type source struct {
	archive  *zip.Reader
	mainPart string
	xml      []byte
}

// New builds an in-memory document from blocks.
func New(blocks ...Block) *Document {
	return &Document{blocks: blocks}
}

// NumChildren returns the number of top-level body elements.
func (d *Document) NumChildren() int { return len(d.blocks) }

// Child returns the top-level element at index i, or nil when out of range.
func (d *Document) Child(i int) Block {
	if i < 0 || i >= len(d.blocks) {
		return nil
	}
	return d.blocks[i]
}

// ChildIndex returns the position of b among the body's children, or -1.
func (d *Document) ChildIndex(b Block) int {
	for i, c := range d.blocks {
		if c == b {
			return i
		}
	}
	return -1
}

// FindText returns the index of the top-level element enclosing the first
// occurrence of s in document order. A match inside a table cell resolves to
// the table.
func (d *Document) FindText(s string) (int, bool) {
	if s == "" {
		return -1, false
	}
	for i, b := range d.blocks {
		if strings.Contains(b.Text(), s) {
			return i, true
		}
	}
	return -1, false
}

// Modified reports whether any cell was replaced since the document was
// parsed or built.
func (d *Document) Modified() bool {
	return len(d.dirtyCells()) > 0
}

// dirtyCells returns replaced cells of top-level tables in document order.
func (d *Document) dirtyCells() []*Cell {
	var out []*Cell
	for _, b := range d.blocks {
		t, ok := b.(*Table)
		if !ok {
			continue
		}
		for _, r := range t.rows {
			for _, c := range r.cells {
				if c.dirty {
					out = append(out, c)
				}
			}
		}
	}
	return out
}
