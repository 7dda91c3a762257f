package models

// Summary collects the per-row results of one batch operation.
type Summary struct {
	// Operation is the batch operation name (e.g. "collect-followups").
	Operation string `json:"operation"`
	// Results holds one entry per processed row, in row order.
	Results []RowResult `json:"results"`
}

// NewSummary returns an empty summary for operation.
func NewSummary(operation string) *Summary {
	return &Summary{Operation: operation}
}

// Add appends a row result.
func (s *Summary) Add(r RowResult) {
	s.Results = append(s.Results, r)
}

// UpdatedCount returns the number of rows with StatusUpdated.
func (s *Summary) UpdatedCount() int {
	n := 0
	for _, r := range s.Results {
		if r.Status == StatusUpdated {
			n++
		}
	}
	return n
}

// Errors returns the failure messages in row order.
func (s *Summary) Errors() []string {
	var errs []string
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			errs = append(errs, r.Message)
		}
	}
	return errs
}

// HasErrors reports whether any row failed.
func (s *Summary) HasErrors() bool {
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			return true
		}
	}
	return false
}
