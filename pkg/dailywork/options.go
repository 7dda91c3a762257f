// Package dailywork synchronizes a classroom workbook with the daily-work
// tables of per-student documents.
package dailywork

import (
	"time"

	"github.com/ukaji3/dailywork-go/pkg/dailywork/locator"
)

// Default sheet names.
const (
	StudentWorkSheet  = "Student Work"
	ArchiveSheet      = "Student Response Archive"
	DocsDatabaseSheet = "Student Docs Database"
)

// Columns maps Student Work fields to 1-based sheet columns.
type Columns struct {
	// DocID is the student document identifier column.
	DocID int
	// Date is the daily-work date column.
	Date int
	// Task is the collected task column.
	Task int
	// Comment is the teacher comment column.
	Comment int
	// Response is the student follow-up column.
	Response int
	// ArchiveCheckbox is the archive checkbox column; it is also the last
	// column copied to the archive.
	ArchiveCheckbox int
}

// DefaultColumns returns the Student Work layout: B doc id, C date, D task,
// E comment, F response, H archive checkbox.
func DefaultColumns() Columns {
	return Columns{
		DocID:           2,
		Date:            3,
		Task:            4,
		Comment:         5,
		Response:        6,
		ArchiveCheckbox: 8,
	}
}

// DatabaseColumns maps Student Docs Database fields to 1-based columns.
type DatabaseColumns struct {
	// DocID is the document identifier column.
	DocID int
	// ActivationDate receives the document's activation timestamp.
	ActivationDate int
}

// DefaultDatabaseColumns returns C doc id, D activation date.
func DefaultDatabaseColumns() DatabaseColumns {
	return DatabaseColumns{DocID: 3, ActivationDate: 4}
}

// Options configures batch operations.
type Options struct {
	// Heading is the text anchoring the daily-work table.
	Heading string
	// Location is the time zone for every date format, spreadsheet and
	// document side alike.
	Location *time.Location
	// Columns is the Student Work layout.
	Columns Columns
	// Database is the Student Docs Database layout.
	Database DatabaseColumns
}

// DefaultOptions returns default batch options in UTC.
func DefaultOptions() Options {
	return Options{
		Heading:  locator.DefaultHeading,
		Location: time.UTC,
		Columns:  DefaultColumns(),
		Database: DefaultDatabaseColumns(),
	}
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}
