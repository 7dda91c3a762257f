package locator

import (
	"errors"
	"testing"

	"github.com/ukaji3/dailywork-go/pkg/dailywork/docx"
)

func TestReadField(t *testing.T) {
	row := docx.NewTable([]string{"Mon 6/2/2025", "Lab", "Nice", "Thanks"}).Row(0)

	tests := []struct {
		field    Field
		expected string
	}{
		{FieldDate, "Mon 6/2/2025"},
		{FieldTask, "Lab"},
		{FieldTeacherComment, "Nice"},
		{FieldStudentResponse, "Thanks"},
	}

	for _, tt := range tests {
		got, err := ReadField(row, tt.field)
		if err != nil {
			t.Errorf("ReadField(%s) failed: %v", tt.field, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ReadField(%s) = %q, expected %q", tt.field, got, tt.expected)
		}
	}

	short := docx.NewTable([]string{"6/2/2025"}).Row(0)
	if _, err := ReadField(short, FieldStudentResponse); !errors.Is(err, ErrMissingCell) {
		t.Errorf("ReadField on short row: err = %v, expected ErrMissingCell", err)
	}
}

func TestWriteFieldReplacesContent(t *testing.T) {
	tests := []struct {
		name  string
		prior string
	}{
		{"empty", ""},
		{"single paragraph", "old comment"},
		{"multiple paragraphs", "first\nsecond\nthird"},
	}

	for _, tt := range tests {
		row := docx.NewTable([]string{"6/2/2025", "Lab", tt.prior, ""}).Row(0)

		if err := WriteField(row, FieldTeacherComment, "Great job"); err != nil {
			t.Fatalf("%s: WriteField failed: %v", tt.name, err)
		}

		cell := row.Cell(FieldTeacherComment.Index())
		paras := cell.Paragraphs()
		if len(paras) != 1 {
			t.Fatalf("%s: expected 1 paragraph, got %d", tt.name, len(paras))
		}
		if paras[0].Text() != "Great job" {
			t.Errorf("%s: text = %q", tt.name, paras[0].Text())
		}
		if s := paras[0].Style(); s == nil || *s != FeedbackStyle {
			t.Errorf("%s: style = %+v, expected %+v", tt.name, s, FeedbackStyle)
		}
	}
}

func TestFeedbackStyle(t *testing.T) {
	expected := docx.RunStyle{FontFamily: "Nunito", FontSize: 12, Color: "#cc0000", Bold: true}
	if FeedbackStyle != expected {
		t.Errorf("FeedbackStyle = %+v, expected %+v", FeedbackStyle, expected)
	}
}

func TestWriteFieldReadOnly(t *testing.T) {
	row := docx.NewTable([]string{"6/2/2025", "Lab", "", ""}).Row(0)

	for _, f := range []Field{FieldDate, FieldTask, FieldStudentResponse} {
		if err := WriteField(row, f, "x"); !errors.Is(err, ErrReadOnlyField) {
			t.Errorf("WriteField(%s): err = %v, expected ErrReadOnlyField", f, err)
		}
	}

	short := docx.NewTable([]string{"6/2/2025", "Lab"}).Row(0)
	if err := WriteField(short, FieldTeacherComment, "x"); !errors.Is(err, ErrMissingCell) {
		t.Errorf("WriteField on short row: err = %v, expected ErrMissingCell", err)
	}
}
