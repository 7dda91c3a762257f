package sheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrInvalidDate indicates a cell value that is neither an Excel serial nor
// a recognized date text.
var ErrInvalidDate = errors.New("invalid date")

// dateLayouts are tried in order for text date cells.
var dateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	time.RFC3339,
	"1/2/2006 15:04:05",
	"01/02/2006 15:04:05",
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate converts a raw date cell value to a time in loc. Serials are
// wall-clock values, so 45810 is midnight of 6/2/2025 in loc. Text may carry
// a weekday or other words around the date ("Tue 6/3/2025").
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}

	candidates := append([]string{value}, strings.Fields(value)...)
	for _, c := range candidates {
		c = strings.Trim(c, ",")
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, c, loc); err == nil {
				return t, nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}
