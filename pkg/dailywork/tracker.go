package dailywork

import "strings"

// CommentTracker remembers the teacher comment of every row so that edits
// can be detected between two snapshots of the sheet.
type CommentTracker struct {
	seen   map[int]string
	primed bool
}

// NewCommentTracker returns an empty tracker.
func NewCommentTracker() *CommentTracker {
	return &CommentTracker{seen: make(map[int]string)}
}

// Changed snapshots column col of src and returns the rows whose comment
// changed to a non-empty value since the previous call. The first call only
// records the snapshot.
func (t *CommentTracker) Changed(src RowSource, col int) ([]int, error) {
	n, err := src.NumRows()
	if err != nil {
		return nil, err
	}

	next := make(map[int]string, n)
	var changed []int
	for row := 2; row <= n; row++ {
		v, err := src.Get(row, col)
		if err != nil {
			return nil, err
		}
		v = strings.TrimSpace(v)
		next[row] = v
		if t.primed && v != "" && v != t.seen[row] {
			changed = append(changed, row)
		}
	}

	t.seen = next
	t.primed = true
	return changed, nil
}
