package dailywork

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ukaji3/dailywork-go/pkg/dailywork/docx"
	"github.com/ukaji3/dailywork-go/pkg/dailywork/locator"
	"github.com/ukaji3/dailywork-go/pkg/dailywork/models"
	"github.com/ukaji3/dailywork-go/pkg/dailywork/sheet"
	"github.com/ukaji3/dailywork-go/pkg/dailywork/store"
)

// Runner executes batch operations over workbook rows. Rows are processed
// sequentially; a failing row is recorded in the summary and the batch moves
// on to the next row.
type Runner struct {
	docs store.Provider
	opts Options
	log  *zap.Logger
}

// NewRunner creates a Runner. A nil logger discards output.
func NewRunner(docs store.Provider, opts Options, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Heading == "" {
		opts.Heading = locator.DefaultHeading
	}
	return &Runner{docs: docs, opts: opts, log: log}
}

type rowFunc func(ctx context.Context, src RowSource, row int) models.RowResult

// run applies fn to rows 2..N of src. Cancellation is checked between rows.
func (r *Runner) run(ctx context.Context, op Operation, src RowSource, requireData bool, fn rowFunc) (*models.Summary, error) {
	n, err := src.NumRows()
	if err != nil {
		return nil, err
	}
	if requireData && n <= 1 {
		return nil, ErrNoStudentData
	}

	summary := models.NewSummary(op.Name)
	for row := 2; row <= n; row++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		res := fn(ctx, src, row)
		r.logResult(op, res)
		summary.Add(res)
	}

	r.log.Info("batch finished",
		zap.String("operation", op.Name),
		zap.Int("rows", n-1),
		zap.Int("updated", summary.UpdatedCount()),
		zap.Int("errors", len(summary.Errors())))
	return summary, nil
}

func (r *Runner) logResult(op Operation, res models.RowResult) {
	fields := []zap.Field{
		zap.String("operation", op.Name),
		zap.Int("row", res.Row),
		zap.String("doc_id", res.DocID),
	}
	switch res.Status {
	case models.StatusFailed:
		r.log.Warn("row failed", append(fields, zap.Error(res.Err))...)
	case models.StatusUpdated:
		r.log.Info("row updated", fields...)
	default:
		r.log.Debug("row skipped", fields...)
	}
}

func failed(row int, docID string, err error) models.RowResult {
	return models.Failed(row, docID, NewRowError(row, docID, err))
}

// readRow reads the Student Work cells of row without interpreting the date.
func (r *Runner) readRow(src RowSource, row int) (models.StudentRow, error) {
	c := r.opts.Columns
	sr := models.StudentRow{Row: row}

	cols := []struct {
		col int
		dst *string
	}{
		{c.DocID, &sr.DocID},
		{c.Date, &sr.DateText},
		{c.Task, &sr.Task},
		{c.Comment, &sr.Comment},
		{c.Response, &sr.Response},
	}
	for _, f := range cols {
		v, err := src.Get(row, f.col)
		if err != nil {
			return sr, err
		}
		*f.dst = v
	}
	sr.DocID = strings.TrimSpace(sr.DocID)
	sr.DateText = strings.TrimSpace(sr.DateText)
	return sr, nil
}

func (r *Runner) parseDate(sr *models.StudentRow) error {
	d, err := sheet.ParseDate(sr.DateText, r.opts.location())
	if err != nil {
		return err
	}
	sr.Date, sr.HasDate = d, true
	return nil
}

// CollectDailyWork copies each student's most recent daily-work entry into
// the date and task columns.
func (r *Runner) CollectDailyWork(ctx context.Context, src RowSource) (*models.Summary, error) {
	return r.run(ctx, OpCollectDailyWork, src, true, r.collectDailyWorkRow)
}

func (r *Runner) collectDailyWorkRow(ctx context.Context, src RowSource, row int) models.RowResult {
	sr, err := r.readRow(src, row)
	if err != nil {
		return failed(row, sr.DocID, err)
	}
	if sr.DocID == "" {
		return models.Skipped(row, "")
	}

	doc, err := r.docs.Open(ctx, sr.DocID)
	if err != nil {
		return failed(row, sr.DocID, err)
	}
	m, err := locator.Locate(doc, locator.Query{Heading: r.opts.Heading, Mode: locator.ModeMostRecent})
	if err != nil {
		return failed(row, sr.DocID, err)
	}
	task, err := locator.ReadField(m.Row, locator.FieldTask)
	if err != nil {
		return failed(row, sr.DocID, err)
	}

	if err := src.Set(row, r.opts.Columns.Date, m.Date); err != nil {
		return failed(row, sr.DocID, err)
	}
	if err := src.Set(row, r.opts.Columns.Task, strings.TrimSpace(task)); err != nil {
		return failed(row, sr.DocID, err)
	}
	return models.Updated(row, sr.DocID)
}

// CollectFollowUps copies the student response of the row matching each
// sheet row's date into the response column.
func (r *Runner) CollectFollowUps(ctx context.Context, src RowSource) (*models.Summary, error) {
	return r.run(ctx, OpCollectFollowUps, src, true, r.collectFollowUpRow)
}

func (r *Runner) collectFollowUpRow(ctx context.Context, src RowSource, row int) models.RowResult {
	sr, err := r.readRow(src, row)
	if err != nil {
		return failed(row, sr.DocID, err)
	}
	if sr.DocID == "" || sr.DateText == "" {
		return models.Skipped(row, sr.DocID)
	}

	m, _, err := r.locateDate(ctx, &sr)
	if err != nil {
		return failed(row, sr.DocID, err)
	}
	response, err := locator.ReadField(m.Row, locator.FieldStudentResponse)
	if err != nil {
		return failed(row, sr.DocID, err)
	}

	if err := src.Set(row, r.opts.Columns.Response, strings.TrimSpace(response)); err != nil {
		return failed(row, sr.DocID, err)
	}
	return models.Updated(row, sr.DocID)
}

// SendFeedback writes each row's teacher comment into the matching row of
// the student's document.
func (r *Runner) SendFeedback(ctx context.Context, src RowSource) (*models.Summary, error) {
	return r.run(ctx, OpSendFeedback, src, false, r.sendFeedbackRow)
}

// SendFeedbackRow sends the teacher comment of a single row.
func (r *Runner) SendFeedbackRow(ctx context.Context, src RowSource, row int) models.RowResult {
	res := r.sendFeedbackRow(ctx, src, row)
	r.logResult(OpSendFeedback, res)
	return res
}

func (r *Runner) sendFeedbackRow(ctx context.Context, src RowSource, row int) models.RowResult {
	sr, err := r.readRow(src, row)
	if err != nil {
		return failed(row, sr.DocID, err)
	}
	if sr.DocID == "" || sr.DateText == "" || strings.TrimSpace(sr.Comment) == "" {
		return models.Skipped(row, sr.DocID)
	}

	m, doc, err := r.locateDate(ctx, &sr)
	if err != nil {
		return failed(row, sr.DocID, err)
	}
	if err := locator.WriteField(m.Row, locator.FieldTeacherComment, sr.Comment); err != nil {
		return failed(row, sr.DocID, err)
	}
	if err := r.docs.Save(ctx, sr.DocID, doc); err != nil {
		return failed(row, sr.DocID, err)
	}
	return models.Updated(row, sr.DocID)
}

func (r *Runner) locateDate(ctx context.Context, sr *models.StudentRow) (*locator.Match, *docx.Document, error) {
	if err := r.parseDate(sr); err != nil {
		return nil, nil, err
	}
	doc, err := r.docs.Open(ctx, sr.DocID)
	if err != nil {
		return nil, nil, err
	}
	m, err := locator.Locate(doc, locator.Query{
		Heading:  r.opts.Heading,
		Mode:     locator.ModeMatch,
		Date:     sr.Date,
		Location: r.opts.location(),
	})
	if err != nil {
		return nil, nil, err
	}
	return m, doc, nil
}
