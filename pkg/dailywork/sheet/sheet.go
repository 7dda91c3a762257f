// Package sheet exposes workbook sheets as 1-based row sources.
package sheet

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound indicates the workbook has no sheet with the requested name.
var ErrSheetNotFound = errors.New("sheet not found")

// Workbook is an open .xlsx file.
type Workbook struct {
	f    *excelize.File
	path string
}

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return &Workbook{f: f, path: path}, nil
}

// Path returns the file the workbook was opened from.
func (w *Workbook) Path() string { return w.path }

// Sheet returns the named sheet.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	idx, err := w.f.GetSheetIndex(name)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	return &Sheet{f: w.f, name: name}, nil
}

// Save writes the workbook back to its path.
func (w *Workbook) Save() error {
	return w.f.SaveAs(w.path)
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// Sheet is a worksheet addressed with 1-based rows and columns. Row 1 is the
// header row.
type Sheet struct {
	f    *excelize.File
	name string
}

// Name returns the sheet name.
func (s *Sheet) Name() string { return s.name }

// NumRows returns the index of the last row holding data.
func (s *Sheet) NumRows() (int, error) {
	rows, err := s.f.GetRows(s.name)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Get returns the raw cell value: numbers and dates are not formatted, so a
// date cell yields its Excel serial.
func (s *Sheet) Get(row, col int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	return s.f.GetCellValue(s.name, cell, excelize.Options{RawCellValue: true})
}

// Set writes value to the cell.
func (s *Sheet) Set(row, col int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return s.f.SetCellValue(s.name, cell, value)
}

// Row returns the typed values of columns 1..ncols of row.
func (s *Sheet) Row(row, ncols int) ([]interface{}, error) {
	values := make([]interface{}, ncols)
	for col := 1; col <= ncols; col++ {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return nil, err
		}
		raw, err := s.f.GetCellValue(s.name, cell, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		cellType, err := s.f.GetCellType(s.name, cell)
		if err != nil {
			return nil, err
		}
		if cellType == excelize.CellTypeBool {
			values[col-1] = ParseBool(raw)
			continue
		}
		t, ok, err := s.dateValue(cell, raw)
		if err != nil {
			return nil, err
		}
		if ok {
			values[col-1] = t
			continue
		}
		values[col-1] = parseValue(raw)
	}
	return values, nil
}

// dateValue returns the cell as a time when it holds a number styled with a
// date or time format. The time carries the serial's wall clock in UTC.
func (s *Sheet) dateValue(cell, raw string) (time.Time, bool, error) {
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, false, nil
	}
	styleID, err := s.f.GetCellStyle(s.name, cell)
	if err != nil || styleID == 0 {
		return time.Time{}, false, err
	}
	style, err := s.f.GetStyle(styleID)
	if err != nil {
		return time.Time{}, false, err
	}
	if !isDateFormat(style.NumFmt, style.CustomNumFmt) {
		return time.Time{}, false, nil
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false, nil
	}
	return t, true, nil
}

// Append writes values into the row after the last row holding data.
func (s *Sheet) Append(values []interface{}) error {
	n, err := s.NumRows()
	if err != nil {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(1, n+1)
	if err != nil {
		return err
	}
	return s.f.SetSheetRow(s.name, cell, &values)
}
