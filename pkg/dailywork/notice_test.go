package dailywork

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ukaji3/dailywork-go/pkg/dailywork/models"
	"github.com/ukaji3/dailywork-go/pkg/dailywork/notify"
)

func TestNotice(t *testing.T) {
	ok := models.NewSummary(OpCollectFollowUps.Name)
	ok.Add(models.Updated(2, "doc-ada"))
	ok.Add(models.Updated(3, "doc-grace"))
	ok.Add(models.Skipped(4, ""))

	partial := models.NewSummary(OpSendFeedback.Name)
	partial.Add(models.Updated(2, "doc-ada"))
	partial.Add(failed(3, "doc-grace", ErrDateNotFound))
	partial.Add(failed(4, "doc-linus", ErrDocumentNotFound))

	tests := []struct {
		name      string
		op        Operation
		sum       *models.Summary
		wantTitle string
		wantBody  string
	}{
		{
			name:      "success",
			op:        OpCollectFollowUps,
			sum:       ok,
			wantTitle: notify.TitleSuccess,
			wantBody:  "Successfully collected 2 student follow-up response(s).",
		},
		{
			name:      "partial",
			op:        OpSendFeedback,
			sum:       partial,
			wantTitle: notify.TitlePartial,
			wantBody: "Added feedback to 1 document(s).\n\nErrors:\n" +
				"Error processing document doc-grace: no row for date\n" +
				"Error processing document doc-linus: document not found",
		},
		{
			name:      "empty",
			op:        OpArchive,
			sum:       models.NewSummary(OpArchive.Name),
			wantTitle: notify.TitleSuccess,
			wantBody:  "Successfully archived 0 student response(s).",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, body := Notice(tt.op, tt.sum)
			if title != tt.wantTitle {
				t.Errorf("title = %q, expected %q", title, tt.wantTitle)
			}
			if diff := cmp.Diff(tt.wantBody, body); diff != "" {
				t.Errorf("body mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFailureNotice(t *testing.T) {
	title, body := FailureNotice(OpCollectDailyWork, ErrNoStudentData)
	if title != notify.TitleError {
		t.Errorf("title = %q, expected %q", title, notify.TitleError)
	}
	if want := "Failed to collect daily work: no student data found in sheet"; body != want {
		t.Errorf("body = %q, expected %q", body, want)
	}
}

func TestRowError(t *testing.T) {
	err := NewRowError(5, "doc-ada", ErrTableNotFound)
	if !errors.Is(err, ErrTableNotFound) {
		t.Error("RowError does not unwrap to its cause")
	}
	if want := "Error processing document doc-ada: no table after heading"; err.Error() != want {
		t.Errorf("Error() = %q, expected %q", err.Error(), want)
	}
}
