package dailywork

import (
	"context"
	"strings"
	"time"

	"github.com/ukaji3/dailywork-go/pkg/dailywork/models"
	"github.com/ukaji3/dailywork-go/pkg/dailywork/sheet"
)

// Archive moves every checked Student Work row to the archive sheet. Columns
// A through the checkbox column are copied, followed by now in the configured
// zone. The archived row's response is cleared and its box unchecked.
func (r *Runner) Archive(ctx context.Context, src RowSource, archive Appender, now time.Time) (*models.Summary, error) {
	// Workbook times are wall clock values; keep the zone's clock reading.
	local := now.In(r.opts.location())
	stamp := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), local.Second(), 0, time.UTC)
	return r.run(ctx, OpArchive, src, false, func(_ context.Context, src RowSource, row int) models.RowResult {
		return r.archiveRow(src, archive, row, stamp)
	})
}

func (r *Runner) archiveRow(src RowSource, archive Appender, row int, stamp time.Time) models.RowResult {
	c := r.opts.Columns

	docID, err := src.Get(row, c.DocID)
	if err != nil {
		return failed(row, "", err)
	}
	checked, err := src.Get(row, c.ArchiveCheckbox)
	if err != nil {
		return failed(row, docID, err)
	}
	docID = strings.TrimSpace(docID)
	if !sheet.ParseBool(checked) {
		return models.Skipped(row, docID)
	}

	values, err := src.Row(row, c.ArchiveCheckbox)
	if err != nil {
		return failed(row, docID, err)
	}
	if err := archive.Append(append(values, stamp)); err != nil {
		return failed(row, docID, err)
	}
	if err := src.Set(row, c.Response, ""); err != nil {
		return failed(row, docID, err)
	}
	if err := src.Set(row, c.ArchiveCheckbox, false); err != nil {
		return failed(row, docID, err)
	}
	return models.Updated(row, docID)
}
