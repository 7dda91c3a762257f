package locator

import (
	"errors"
	"fmt"

	"github.com/ukaji3/dailywork-go/pkg/dailywork/docx"
)

// Field is a logical column of a daily-work table row.
type Field int

const (
	// FieldDate is the entry date, read-only.
	FieldDate Field = iota
	// FieldTask is the student's task description, read-only.
	FieldTask
	// FieldTeacherComment is the only writable field.
	FieldTeacherComment
	// FieldStudentResponse is the student's follow-up, read-only.
	FieldStudentResponse
)

// NumFields is the number of cells a complete daily-work row has.
const NumFields = 4

// FeedbackStyle is the formatting of teacher comments written into student
// documents. It matches the comment style of the document template.
var FeedbackStyle = docx.RunStyle{
	FontFamily: "Nunito",
	FontSize:   12,
	Color:      "#cc0000",
	Bold:       true,
}

var (
	// ErrReadOnlyField indicates a write to a field other than the teacher comment.
	ErrReadOnlyField = errors.New("field is read-only")
	// ErrMissingCell indicates the row has no cell for the field.
	ErrMissingCell = errors.New("row has no cell for field")
)

// Index returns the cell position of the field.
func (f Field) Index() int { return int(f) }

func (f Field) String() string {
	switch f {
	case FieldDate:
		return "date"
	case FieldTask:
		return "task"
	case FieldTeacherComment:
		return "teacher comment"
	case FieldStudentResponse:
		return "student response"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// ReadField returns the text of the field's cell.
func ReadField(row *docx.Row, f Field) (string, error) {
	cell := row.Cell(f.Index())
	if cell == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingCell, f)
	}
	return cell.Text(), nil
}

// WriteField replaces the teacher comment cell with a single paragraph of
// text in FeedbackStyle.
func WriteField(row *docx.Row, f Field, text string) error {
	return WriteFieldStyled(row, f, text, FeedbackStyle)
}

// WriteFieldStyled is WriteField with an explicit style.
func WriteFieldStyled(row *docx.Row, f Field, text string, style docx.RunStyle) error {
	if f != FieldTeacherComment {
		return fmt.Errorf("%w: %s", ErrReadOnlyField, f)
	}
	cell := row.Cell(f.Index())
	if cell == nil {
		return fmt.Errorf("%w: %s", ErrMissingCell, f)
	}
	cell.Replace(text, style)
	return nil
}
