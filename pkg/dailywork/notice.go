package dailywork

import (
	"fmt"
	"strings"

	"github.com/ukaji3/dailywork-go/pkg/dailywork/models"
	"github.com/ukaji3/dailywork-go/pkg/dailywork/notify"
)

// Operation names a batch operation and its summary messages.
type Operation struct {
	// Name is the operation's command name, also used in logs.
	Name string
	// Action completes "Failed to ..." in failure notices.
	Action string
	// Success is the summary when every row succeeded; it takes the
	// updated-row count.
	Success string
	// Partial precedes the error list when some rows failed; it takes the
	// updated-row count.
	Partial string
}

var (
	// OpCollectDailyWork copies the latest daily-work entries into the sheet.
	OpCollectDailyWork = Operation{
		Name:    "collect-daily-work",
		Action:  "collect daily work",
		Success: "Successfully collected daily work for %d student(s).",
		Partial: "Collected daily work for %d student(s).",
	}
	// OpCollectFollowUps copies student follow-up responses into the sheet.
	OpCollectFollowUps = Operation{
		Name:    "collect-followups",
		Action:  "collect follow-up responses",
		Success: "Successfully collected %d student follow-up response(s).",
		Partial: "Collected %d response(s).",
	}
	// OpSendFeedback writes teacher comments into student documents.
	OpSendFeedback = Operation{
		Name:    "send-feedback",
		Action:  "send feedback",
		Success: "Successfully added feedback to %d student document(s).",
		Partial: "Added feedback to %d document(s).",
	}
	// OpArchive moves checked rows to the archive sheet.
	OpArchive = Operation{
		Name:    "archive",
		Action:  "archive responses",
		Success: "Successfully archived %d student response(s).",
		Partial: "Archived %d response(s).",
	}
	// OpCheckActivation records when documents first mention today's date.
	OpCheckActivation = Operation{
		Name:    "check-activation",
		Action:  "check activation",
		Success: "Recorded activation for %d document(s).",
		Partial: "Recorded activation for %d document(s).",
	}
	// OpWatch reruns archive and feedback on every workbook save. It has
	// no summary of its own.
	OpWatch = Operation{
		Name:   "watch",
		Action: "watch the workbook",
	}
)

// Notice renders the end-of-batch dialog for sum.
func Notice(op Operation, sum *models.Summary) (title, body string) {
	n := sum.UpdatedCount()
	if !sum.HasErrors() {
		return notify.TitleSuccess, fmt.Sprintf(op.Success, n)
	}
	body = fmt.Sprintf(op.Partial, n) + "\n\nErrors:\n" + strings.Join(sum.Errors(), "\n")
	return notify.TitlePartial, body
}

// FailureNotice renders the dialog for a batch that could not run at all.
func FailureNotice(op Operation, err error) (title, body string) {
	return notify.TitleError, fmt.Sprintf("Failed to %s: %v", op.Action, err)
}
