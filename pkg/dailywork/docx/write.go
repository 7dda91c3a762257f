package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

	packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

	documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="` + nsW + `"><w:body>`
	documentFooter = `</w:body></w:document>`
)

// Bytes serializes the document as a .docx package.
func (d *Document) Bytes() ([]byte, error) {
	if d.src == nil {
		return d.render()
	}

	part, err := d.splice()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range d.src.archive.File {
		if f.Name != d.src.mainPart {
			if err := zw.Copy(f); err != nil {
				return nil, fmt.Errorf("copy %s: %w", f.Name, err)
			}
			continue
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: f.Modified,
		})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(part); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// splice rewrites the replaced cells of the source part in place.
func (d *Document) splice() ([]byte, error) {
	cells := d.dirtyCells()
	sort.Slice(cells, func(i, j int) bool { return cells[i].raw.start < cells[j].raw.start })

	src := d.src.xml
	var out bytes.Buffer
	out.Grow(len(src))
	pos := 0
	for _, c := range cells {
		if c.raw == nil || c.raw.start < pos || c.raw.end > len(src) {
			return nil, fmt.Errorf("%w: cell outside source part", ErrInvalidFormat)
		}
		out.Write(src[pos:c.raw.start])
		out.Write(renderParsedCell(c, src))
		pos = c.raw.end
	}
	out.Write(src[pos:])
	return out.Bytes(), nil
}

// renderParsedCell keeps the cell's start tag and w:tcPr and replaces the rest.
// A cell in the default namespace gets a local w prefix, since unprefixed
// attributes such as val have no namespace.
func renderParsedCell(c *Cell, src []byte) []byte {
	open := src[c.raw.start:c.raw.openEnd]
	prefix := elementPrefix(open)

	tag := bytes.TrimSuffix(open, []byte("/>"))
	if len(tag) == len(open) {
		tag = bytes.TrimSuffix(open, []byte(">"))
	}

	var buf bytes.Buffer
	buf.Write(bytes.TrimRight(tag, " \t\r\n"))
	contentPrefix := prefix
	if prefix == "" {
		contentPrefix = "w"
		buf.WriteString(` xmlns:w="` + nsW + `"`)
	}
	buf.WriteByte('>')
	buf.Write(c.raw.props)
	writeParagraphs(&buf, contentPrefix, c.paragraphs)
	buf.WriteString("</" + qualify(prefix, "tc") + ">")
	return buf.Bytes()
}

// render builds a minimal package for an in-memory document.
func (d *Document) render() ([]byte, error) {
	var body bytes.Buffer
	body.WriteString(documentHeader)
	for _, b := range d.blocks {
		switch t := b.(type) {
		case *Paragraph:
			writeParagraph(&body, "w", t)
		case *Table:
			writeTable(&body, t)
		}
	}
	body.WriteString(documentFooter)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{packageRelsPart, []byte(packageRelsXML)},
		{defaultMainPart, body.Bytes()},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(p.data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTable(buf *bytes.Buffer, t *Table) {
	buf.WriteString("<w:tbl>")
	for _, r := range t.rows {
		buf.WriteString("<w:tr>")
		for _, c := range r.cells {
			buf.WriteString("<w:tc>")
			writeParagraphs(buf, "w", c.paragraphs)
			buf.WriteString("</w:tc>")
		}
		buf.WriteString("</w:tr>")
	}
	buf.WriteString("</w:tbl>")
}

// writeParagraphs writes paras, or one empty paragraph since a cell must
// hold at least one.
func writeParagraphs(buf *bytes.Buffer, prefix string, paras []*Paragraph) {
	if len(paras) == 0 {
		buf.WriteString("<" + qualify(prefix, "p") + "/>")
		return
	}
	for _, p := range paras {
		writeParagraph(buf, prefix, p)
	}
}

func writeParagraph(buf *bytes.Buffer, prefix string, p *Paragraph) {
	q := func(local string) string { return qualify(prefix, local) }

	if p.text == "" && p.style == nil {
		buf.WriteString("<" + q("p") + "/>")
		return
	}

	buf.WriteString("<" + q("p") + "><" + q("r") + ">")
	if p.style != nil {
		writeRunStyle(buf, prefix, *p.style)
	}
	for i, line := range strings.Split(p.text, "\n") {
		if i > 0 {
			buf.WriteString("<" + q("br") + "/>")
		}
		buf.WriteString("<" + q("t") + ` xml:space="preserve">`)
		xml.EscapeText(buf, []byte(line))
		buf.WriteString("</" + q("t") + ">")
	}
	buf.WriteString("</" + q("r") + "></" + q("p") + ">")
}

// writeRunStyle writes w:rPr with children in schema order.
func writeRunStyle(buf *bytes.Buffer, prefix string, s RunStyle) {
	q := func(local string) string { return qualify(prefix, local) }

	buf.WriteString("<" + q("rPr") + ">")
	if s.FontFamily != "" {
		font := escapeAttr(s.FontFamily)
		fmt.Fprintf(buf, `<%s %s="%s" %s="%s" %s="%s" %s="%s"/>`,
			q("rFonts"), q("ascii"), font, q("hAnsi"), font, q("eastAsia"), font, q("cs"), font)
	}
	if s.Bold {
		buf.WriteString("<" + q("b") + "/><" + q("bCs") + "/>")
	}
	if s.Color != "" {
		fmt.Fprintf(buf, `<%s %s="%s"/>`, q("color"), q("val"), strings.ToUpper(strings.TrimPrefix(s.Color, "#")))
	}
	if s.FontSize > 0 {
		hp := strconv.Itoa(PointsToHalfPoints(s.FontSize))
		fmt.Fprintf(buf, `<%s %s="%s"/><%s %s="%s"/>`, q("sz"), q("val"), hp, q("szCs"), q("val"), hp)
	}
	buf.WriteString("</" + q("rPr") + ">")
}

// elementPrefix returns the namespace prefix of a raw start tag such as
// `<w:tc>`.
func elementPrefix(open []byte) string {
	name := strings.TrimPrefix(string(open), "<")
	if i := strings.IndexAny(name, " \t\r\n/>"); i >= 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i]
	}
	return ""
}

func qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

func escapeAttr(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
