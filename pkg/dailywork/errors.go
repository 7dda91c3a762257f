package dailywork

import (
	"errors"
	"fmt"

	"github.com/ukaji3/dailywork-go/pkg/dailywork/locator"
	"github.com/ukaji3/dailywork-go/pkg/dailywork/sheet"
	"github.com/ukaji3/dailywork-go/pkg/dailywork/store"
)

// ErrNoStudentData indicates the sheet holds only its header row.
var ErrNoStudentData = errors.New("no student data found in sheet")

// ErrNotActivated indicates batch operations were invoked without activation.
var ErrNotActivated = errors.New("sheet not activated")

// Errors raised by the locator, the workbook and the document store.
var (
	ErrHeadingNotFound  = locator.ErrHeadingNotFound
	ErrTableNotFound    = locator.ErrTableNotFound
	ErrDateNotFound     = locator.ErrDateNotFound
	ErrNoEntriesFound   = locator.ErrNoEntriesFound
	ErrSheetNotFound    = sheet.ErrSheetNotFound
	ErrDocumentNotFound = store.ErrDocumentNotFound
	ErrAccessDenied     = store.ErrAccessDenied
)

// RowError is a failure while processing one workbook row.
type RowError struct {
	Row   int
	DocID string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("Error processing document %s: %v", e.DocID, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// NewRowError creates a new RowError.
func NewRowError(row int, docID string, err error) *RowError {
	return &RowError{
		Row:   row,
		DocID: docID,
		Err:   err,
	}
}
