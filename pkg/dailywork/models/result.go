// Package models defines data structures for classroom workbook synchronization.
package models

// Status is the outcome of processing one workbook row.
type Status string

const (
	// StatusUpdated means the row's workbook cells or document were written.
	StatusUpdated Status = "updated"
	// StatusSkipped means the row lacked a required field or had nothing to do.
	StatusSkipped Status = "skipped"
	// StatusFailed means processing the row raised an error.
	StatusFailed Status = "failed"
)

// RowResult is the outcome of processing a single workbook row.
type RowResult struct {
	// Row is the 1-based workbook row.
	Row int `json:"row"`
	// DocID is the student document identifier, if the row had one.
	DocID string `json:"doc_id,omitempty"`
	// Status is the row outcome.
	Status Status `json:"status"`
	// Err is the failure cause when Status is StatusFailed.
	Err error `json:"-"`
	// Message is the human-readable failure message.
	Message string `json:"message,omitempty"`
}

// Updated returns a successful result.
func Updated(row int, docID string) RowResult {
	return RowResult{Row: row, DocID: docID, Status: StatusUpdated}
}

// Skipped returns a result for a row that was not processed.
func Skipped(row int, docID string) RowResult {
	return RowResult{Row: row, DocID: docID, Status: StatusSkipped}
}

// Failed returns a failed result carrying err.
func Failed(row int, docID string, err error) RowResult {
	return RowResult{Row: row, DocID: docID, Status: StatusFailed, Err: err, Message: err.Error()}
}
