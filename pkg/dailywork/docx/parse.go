package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// XML namespaces and part names used in WordprocessingML packages
const (
	nsW             = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	relTypeDocument = "/officeDocument"
	defaultMainPart = "word/document.xml"
	packageRelsPart = "_rels/.rels"
)

// ErrInvalidFormat indicates the input is not a readable .docx package.
var ErrInvalidFormat = errors.New("invalid docx format")

// Parse reads a .docx package and returns its body.
func Parse(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	mainPart := findMainPart(zr)
	partXML, err := readZipFile(zr, mainPart)
	if err != nil {
		return nil, err
	}
	if partXML == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidFormat, mainPart)
	}

	blocks, err := parseBody(partXML)
	if err != nil {
		return nil, err
	}

	return &Document{
		blocks: blocks,
		src: &source{
			archive:  zr,
			mainPart: mainPart,
			xml:      partXML,
		},
	}, nil
}

// findMainPart resolves the main document part from the package relationships.
func findMainPart(r *zip.Reader) string {
	relsXML, err := readZipFile(r, packageRelsPart)
	if err != nil || relsXML == nil {
		return defaultMainPart
	}

	decoder := xml.NewDecoder(bytes.NewReader(relsXML))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var relType, target string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Type":
					relType = attr.Value
				case "Target":
					target = attr.Value
				}
			}
			if strings.HasSuffix(relType, relTypeDocument) && target != "" {
				return strings.TrimPrefix(target, "/")
			}
		}
	}

	return defaultMainPart
}

// parseBody parses the children of w:body in document order.
func parseBody(data []byte) ([]Block, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	if err := seekBody(decoder); err != nil {
		return nil, err
	}

	var blocks []Block
	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: unterminated body: %v", ErrInvalidFormat, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				p, err := parseParagraph(decoder)
				if err != nil {
					return nil, err
				}
				blocks = append(blocks, p)
			case "tbl":
				tbl, err := parseTable(decoder, data)
				if err != nil {
					return nil, err
				}
				blocks = append(blocks, tbl)
			default:
				text, err := readElementText(decoder)
				if err != nil {
					return nil, err
				}
				blocks = append(blocks, &Other{name: t.Name.Local, text: text})
			}
		case xml.EndElement:
			return blocks, nil
		}
	}
}

func seekBody(decoder *xml.Decoder) error {
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return fmt.Errorf("%w: no body element", ErrInvalidFormat)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "body" && se.Name.Space == nsW {
			return nil
		}
	}
}

// parseParagraph reads a w:p element whose start tag was already consumed.
// Only w:t text inside runs is kept; w:tab and w:br become "\t" and "\n".
func parseParagraph(decoder *xml.Decoder) (*Paragraph, error) {
	var text strings.Builder
	var style *RunStyle
	stack := []string{"p"}

	for len(stack) > 0 {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			parent := stack[len(stack)-1]
			switch t.Name.Local {
			case "tab":
				if parent == "r" {
					text.WriteByte('\t')
				}
			case "br", "cr":
				if parent == "r" {
					text.WriteByte('\n')
				}
			case "rPr":
				if parent == "r" && style == nil {
					s, err := parseRunStyle(decoder)
					if err != nil {
						return nil, err
					}
					style = &s
					continue
				}
			}
			stack = append(stack, t.Name.Local)
		case xml.CharData:
			if stack[len(stack)-1] == "t" {
				text.Write(t)
			}
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}

	return &Paragraph{text: text.String(), style: style}, nil
}

// parseRunStyle reads a run's w:rPr element.
func parseRunStyle(decoder *xml.Decoder) (RunStyle, error) {
	var style RunStyle
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return style, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			val := attrValue(t, "val")
			switch t.Name.Local {
			case "rFonts":
				style.FontFamily = attrValue(t, "ascii")
			case "b":
				style.Bold = val == "" || (val != "0" && val != "false")
			case "color":
				if val != "" && val != "auto" {
					style.Color = "#" + strings.ToLower(val)
				}
			case "sz":
				if hp, err := strconv.Atoi(val); err == nil {
					style.FontSize = HalfPointsToPoints(hp)
				}
			}
		case xml.EndElement:
			depth--
		}
	}

	return style, nil
}

// parseTable reads a w:tbl element whose start tag was already consumed.
func parseTable(decoder *xml.Decoder, src []byte) (*Table, error) {
	tbl := &Table{}

	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "tr" {
				row, err := parseRow(decoder, src)
				if err != nil {
					return nil, err
				}
				tbl.rows = append(tbl.rows, row)
				continue
			}
			if err := decoder.Skip(); err != nil {
				return nil, err
			}
		case xml.EndElement:
			return tbl, nil
		}
	}
}

func parseRow(decoder *xml.Decoder, src []byte) (*Row, error) {
	row := &Row{}

	for {
		start := decoder.InputOffset()
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "tc" {
				cell, err := parseCell(decoder, src, int(start))
				if err != nil {
					return nil, err
				}
				row.cells = append(row.cells, cell)
				continue
			}
			if err := decoder.Skip(); err != nil {
				return nil, err
			}
		case xml.EndElement:
			return row, nil
		}
	}
}

// parseCell reads a w:tc element starting at offset start of src. Paragraphs
// of nested tables are flattened into the cell.
func parseCell(decoder *xml.Decoder, src []byte, start int) (*Cell, error) {
	cell := &Cell{raw: &rawCell{start: start, openEnd: int(decoder.InputOffset())}}

	for {
		offset := decoder.InputOffset()
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tcPr":
				if err := decoder.Skip(); err != nil {
					return nil, err
				}
				cell.raw.props = src[offset:decoder.InputOffset()]
			case "p":
				p, err := parseParagraph(decoder)
				if err != nil {
					return nil, err
				}
				cell.paragraphs = append(cell.paragraphs, p)
			case "tbl":
				nested, err := parseTable(decoder, src)
				if err != nil {
					return nil, err
				}
				for _, r := range nested.rows {
					for _, c := range r.cells {
						cell.paragraphs = append(cell.paragraphs, c.paragraphs...)
					}
				}
			default:
				text, err := readElementText(decoder)
				if err != nil {
					return nil, err
				}
				if text != "" {
					cell.paragraphs = append(cell.paragraphs, NewParagraph(text))
				}
			}
		case xml.EndElement:
			cell.raw.end = int(decoder.InputOffset())
			return cell, nil
		}
	}
}

// readElementText collects w:t text of an element whose start tag was
// already consumed, one line per paragraph.
func readElementText(decoder *xml.Decoder) (string, error) {
	var lines []string
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return "", err
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "p" {
				p, err := parseParagraph(decoder)
				if err != nil {
					return "", err
				}
				lines = append(lines, p.text)
				continue
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}

	return strings.Join(lines, "\n"), nil
}

func attrValue(se xml.StartElement, local string) string {
	for _, attr := range se.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}

func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, nil
}
