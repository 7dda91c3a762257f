package dailywork

import (
	"context"
	"strings"
	"time"

	"github.com/ukaji3/dailywork-go/pkg/dailywork/locator"
	"github.com/ukaji3/dailywork-go/pkg/dailywork/models"
)

// ActivationLayout formats recorded activation times (MM/dd/yyyy HH:mm:ss).
const ActivationLayout = "01/02/2006 15:04:05"

// CheckActivation scans the Student Docs Database sheet. A document counts as
// activated once it mentions today's date; its last-modified time is then
// written to the activation column. Rows that already hold a value are left
// alone.
func (r *Runner) CheckActivation(ctx context.Context, db RowSource, today time.Time) (*models.Summary, error) {
	loc := r.opts.location()
	date := locator.FormatDate(today, loc)
	return r.run(ctx, OpCheckActivation, db, false, func(ctx context.Context, db RowSource, row int) models.RowResult {
		return r.activationRow(ctx, db, row, date, loc)
	})
}

func (r *Runner) activationRow(ctx context.Context, db RowSource, row int, date string, loc *time.Location) models.RowResult {
	c := r.opts.Database

	docID, err := db.Get(row, c.DocID)
	if err != nil {
		return failed(row, "", err)
	}
	docID = strings.TrimSpace(docID)
	if docID == "" {
		return models.Skipped(row, "")
	}
	current, err := db.Get(row, c.ActivationDate)
	if err != nil {
		return failed(row, docID, err)
	}
	if strings.TrimSpace(current) != "" {
		return models.Skipped(row, docID)
	}

	doc, err := r.docs.Open(ctx, docID)
	if err != nil {
		return failed(row, docID, err)
	}
	if _, ok := doc.FindText(date); !ok {
		return models.Skipped(row, docID)
	}

	modified, err := r.docs.Modified(ctx, docID)
	if err != nil {
		return failed(row, docID, err)
	}
	if err := db.Set(row, c.ActivationDate, modified.In(loc).Format(ActivationLayout)); err != nil {
		return failed(row, docID, err)
	}
	return models.Updated(row, docID)
}
