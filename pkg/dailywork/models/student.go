package models

import "time"

// StudentRow is one row of the Student Work sheet.
type StudentRow struct {
	// Row is the 1-based workbook row.
	Row int `json:"row"`
	// DocID is the student document identifier.
	DocID string `json:"doc_id"`
	// DateText is the raw date cell value.
	DateText string `json:"date_text,omitempty"`
	// Date is the daily-work date, zero when HasDate is false.
	Date time.Time `json:"date,omitempty"`
	// HasDate reports whether the date column held a parseable date.
	HasDate bool `json:"has_date"`
	// Task is the collected daily-work task.
	Task string `json:"task,omitempty"`
	// Comment is the teacher comment to send.
	Comment string `json:"comment,omitempty"`
	// Response is the collected student follow-up.
	Response string `json:"response,omitempty"`
}
