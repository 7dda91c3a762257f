// Package locator finds the daily-work table row that corresponds to a
// spreadsheet row and projects its cells onto named fields.
package locator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ukaji3/dailywork-go/pkg/dailywork/docx"
)

// DefaultHeading is the text that anchors the daily-work table.
const DefaultHeading = "Daily Work"

// DateLayout formats dates the way the daily-work tables write them (M/d/yyyy).
const DateLayout = "1/2/2006"

var (
	// ErrHeadingNotFound indicates the heading text does not occur in the document.
	ErrHeadingNotFound = errors.New("heading not found")
	// ErrTableNotFound indicates no table follows the heading.
	ErrTableNotFound = errors.New("no table after heading")
	// ErrDateNotFound indicates no row's date cell contains the target date.
	ErrDateNotFound = errors.New("no row for date")
	// ErrNoEntriesFound indicates every row's task cell is empty.
	ErrNoEntriesFound = errors.New("no daily work entries")
)

// Mode selects how Locate chooses a row.
type Mode int

const (
	// ModeMatch returns the first row whose date cell contains Query.Date.
	ModeMatch Mode = iota
	// ModeMostRecent returns the first row with a non-empty task. Tables list
	// the newest entry first.
	ModeMostRecent
)

func (m Mode) String() string {
	if m == ModeMostRecent {
		return "most-recent"
	}
	return "match"
}

// Query describes the row to locate.
type Query struct {
	// Heading is the anchor text. Empty means DefaultHeading.
	Heading string
	// Mode selects match or most-recent-entry behavior.
	Mode Mode
	// Date is the target date in ModeMatch. Ignored in ModeMostRecent.
	Date time.Time
	// Location is the zone used to format Date. Nil means UTC.
	Location *time.Location
}

// Match is a located table row.
type Match struct {
	// Table is the first table after the heading.
	Table *docx.Table
	// Index is the row index within Table (never 0, the header).
	Index int
	// Row is the located row.
	Row *docx.Row
	// Date is the formatted target date in ModeMatch, or the first line of
	// the row's date cell in ModeMostRecent.
	Date string
}

// FormatDate formats t as M/d/yyyy in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// FindTable returns the first table after the block enclosing the first
// occurrence of heading, and that table's child index.
func FindTable(doc *docx.Document, heading string) (*docx.Table, int, error) {
	if heading == "" {
		heading = DefaultHeading
	}

	anchor, ok := doc.FindText(heading)
	if !ok {
		return nil, -1, fmt.Errorf("%w: %q", ErrHeadingNotFound, heading)
	}

	for i := anchor + 1; i < doc.NumChildren(); i++ {
		if t, ok := doc.Child(i).(*docx.Table); ok {
			return t, i, nil
		}
	}

	return nil, -1, fmt.Errorf("%w: %q", ErrTableNotFound, heading)
}

// Locate resolves the heading, its table and the row selected by q. The
// document is re-resolved on every call and never modified.
func Locate(doc *docx.Document, q Query) (*Match, error) {
	table, _, err := FindTable(doc, q.Heading)
	if err != nil {
		return nil, err
	}

	if q.Mode == ModeMostRecent {
		return mostRecent(table)
	}
	return matchDate(table, FormatDate(q.Date, q.Location))
}

func mostRecent(table *docx.Table) (*Match, error) {
	for i := 1; i < table.NumRows(); i++ {
		row := table.Row(i)
		if row.NumCells() < NumFields {
			continue
		}

		task := strings.TrimSpace(row.Cell(FieldTask.Index()).Text())
		if task == "" {
			continue
		}

		dateText := strings.TrimSpace(row.Cell(FieldDate.Index()).Text())
		return &Match{
			Table: table,
			Index: i,
			Row:   row,
			Date:  strings.SplitN(dateText, "\n", 2)[0],
		}, nil
	}

	return nil, ErrNoEntriesFound
}

// matchDate uses substring containment so date cells such as
// "Mon 6/2/2025" match "6/2/2025".
func matchDate(table *docx.Table, formatted string) (*Match, error) {
	for i := 1; i < table.NumRows(); i++ {
		row := table.Row(i)
		cell := row.Cell(FieldDate.Index())
		if cell == nil {
			continue
		}
		if strings.Contains(cell.Text(), formatted) {
			return &Match{Table: table, Index: i, Row: row, Date: formatted}, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrDateNotFound, formatted)
}
