package dailywork

// RowSource is a sheet addressed with 1-based rows and columns. Row 1 is the
// header and is never processed.
type RowSource interface {
	NumRows() (int, error)
	Get(row, col int) (string, error)
	Set(row, col int, value interface{}) error
	// Row returns the typed values of columns 1..ncols.
	Row(row, ncols int) ([]interface{}, error)
}

// Appender is a RowSource that can add a row after its last row.
type Appender interface {
	RowSource
	Append(values []interface{}) error
}
