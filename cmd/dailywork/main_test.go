package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"github.com/ukaji3/dailywork-go/internal/config"
	"github.com/ukaji3/dailywork-go/pkg/dailywork"
	"github.com/ukaji3/dailywork-go/pkg/dailywork/docx"
	"github.com/ukaji3/dailywork-go/pkg/dailywork/models"
	"github.com/ukaji3/dailywork-go/pkg/dailywork/notify"
	"github.com/ukaji3/dailywork-go/pkg/dailywork/sheet"
	"github.com/ukaji3/dailywork-go/pkg/dailywork/store"
)

type alert struct {
	title, body string
}

type recorder struct {
	alerts []alert
}

func (r *recorder) Alert(title, body string, buttons notify.ButtonSet) error {
	r.alerts = append(r.alerts, alert{title, body})
	return nil
}

func newTestApp(t *testing.T) (*app, *recorder) {
	t.Helper()
	dir := t.TempDir()

	docsDir := filepath.Join(dir, "docs")
	require.NoError(t, os.Mkdir(docsDir, 0755))
	doc := docx.New(
		docx.NewParagraph("Daily Work"),
		docx.NewTable(
			[]string{"Date", "Task", "Teacher Comment", "Student Response"},
			[]string{"6/3/2025", "Essay draft", "", "Outline done"},
		),
	)
	data, err := doc.Bytes()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(docsDir, "doc-ada.docx"), data, 0644))

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", dailywork.StudentWorkSheet))
	require.NoError(t, f.SetSheetRow(dailywork.StudentWorkSheet, "A1", &[]interface{}{"Name", "Doc ID", "Date", "Task", "Comment", "Response"}))
	require.NoError(t, f.SetSheetRow(dailywork.StudentWorkSheet, "A2", &[]interface{}{"Ada", "doc-ada"}))
	_, err = f.NewSheet(dailywork.ArchiveSheet)
	require.NoError(t, err)
	workbook := filepath.Join(dir, "class.xlsx")
	require.NoError(t, f.SaveAs(workbook))
	require.NoError(t, f.Close())

	cfg := config.Default()
	cfg.Activated = true
	cfg.Workbook = workbook
	cfg.Documents.Dir = docsDir

	docs, err := newProvider(cfg)
	require.NoError(t, err)
	_, ok := docs.(*store.DirStore)
	require.True(t, ok)

	log := zaptest.NewLogger(t)
	rec := &recorder{}
	return &app{
		cfg:      cfg,
		log:      log,
		runner:   dailywork.NewRunner(docs, cfg.Options(), log),
		notifier: rec,
	}, rec
}

func TestRunBatchSavesAndAlertsOnce(t *testing.T) {
	a, rec := newTestApp(t)

	err := a.runBatch(context.Background(), dailywork.OpCollectDailyWork, withStudentWork(a, func(ctx context.Context, src *sheet.Sheet) (*models.Summary, error) {
		return a.runner.CollectDailyWork(ctx, src)
	}))
	require.NoError(t, err)

	require.Len(t, rec.alerts, 1)
	assert.Equal(t, notify.TitleSuccess, rec.alerts[0].title)
	assert.Equal(t, "Successfully collected daily work for 1 student(s).", rec.alerts[0].body)

	wb, err := sheet.Open(a.cfg.Workbook)
	require.NoError(t, err)
	defer wb.Close()
	src, err := wb.Sheet(dailywork.StudentWorkSheet)
	require.NoError(t, err)
	task, err := src.Get(2, 4)
	require.NoError(t, err)
	assert.Equal(t, "Essay draft", task)
}

func TestRunBatchFailure(t *testing.T) {
	a, rec := newTestApp(t)
	a.cfg.Sheets.StudentWork = "Missing"

	err := a.runBatch(context.Background(), dailywork.OpCollectFollowUps, withStudentWork(a, func(ctx context.Context, src *sheet.Sheet) (*models.Summary, error) {
		return a.runner.CollectFollowUps(ctx, src)
	}))
	assert.ErrorIs(t, err, dailywork.ErrSheetNotFound)

	require.Len(t, rec.alerts, 1)
	assert.Equal(t, notify.TitleError, rec.alerts[0].title)
	assert.Contains(t, rec.alerts[0].body, "Failed to collect follow-up responses:")
}

func TestNewProviderS3(t *testing.T) {
	cfg := config.Default()
	cfg.Documents.Backend = config.BackendS3
	cfg.Documents.S3 = config.S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "docs"}

	docs, err := newProvider(cfg)
	require.NoError(t, err)
	_, ok := docs.(*store.S3Store)
	assert.True(t, ok)
}

// editWorkbook writes cells into the Student Work sheet the way a teacher
// saving the workbook would.
func editWorkbook(t *testing.T, path string, cells map[string]interface{}) {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	for cell, v := range cells {
		require.NoError(t, f.SetCellValue(dailywork.StudentWorkSheet, cell, v))
	}
	require.NoError(t, f.Save())
}

func TestWatchSendsEditedComments(t *testing.T) {
	a, rec := newTestApp(t)
	ctx := context.Background()
	editWorkbook(t, a.cfg.Workbook, map[string]interface{}{
		"C2": "6/3/2025",
		"A3": "Grace",
		"B3": "doc-grace",
	})

	tracker := dailywork.NewCommentTracker()
	require.NoError(t, a.onWorkbookSaved(ctx, tracker))
	assert.Empty(t, rec.alerts)

	// Row 3 has no date, so its comment is skipped without a dialog.
	editWorkbook(t, a.cfg.Workbook, map[string]interface{}{
		"E2": "Nice outline",
		"E3": "Hi Grace",
	})
	before, err := os.Stat(a.cfg.Workbook)
	require.NoError(t, err)

	require.NoError(t, a.onWorkbookSaved(ctx, tracker))

	after, err := os.Stat(a.cfg.Workbook)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime(), "workbook rewritten with nothing archived")

	docs, err := store.NewDirStore(a.cfg.Documents.Dir)
	require.NoError(t, err)
	doc, err := docs.Open(ctx, "doc-ada")
	require.NoError(t, err)
	assert.Equal(t, "Nice outline", doc.Child(1).(*docx.Table).Row(1).Cell(2).Text())

	require.Len(t, rec.alerts, 1)
	assert.Equal(t, notify.TitleSuccess, rec.alerts[0].title)
	assert.Equal(t, "Successfully added feedback to 1 student document(s).", rec.alerts[0].body)

	// An unchanged comment is not sent again.
	require.NoError(t, a.onWorkbookSaved(ctx, tracker))
	assert.Len(t, rec.alerts, 1)
}

func TestWatchSkippedCommentsStaySilent(t *testing.T) {
	a, rec := newTestApp(t)
	ctx := context.Background()

	tracker := dailywork.NewCommentTracker()
	require.NoError(t, a.onWorkbookSaved(ctx, tracker))

	editWorkbook(t, a.cfg.Workbook, map[string]interface{}{"E2": "No date yet"})
	require.NoError(t, a.onWorkbookSaved(ctx, tracker))
	assert.Empty(t, rec.alerts)
}

func TestWatchArchivesCheckedRows(t *testing.T) {
	a, rec := newTestApp(t)
	editWorkbook(t, a.cfg.Workbook, map[string]interface{}{
		"F2": "Outline done",
		"H2": true,
	})

	require.NoError(t, a.onWorkbookSaved(context.Background(), dailywork.NewCommentTracker()))

	wb, err := sheet.Open(a.cfg.Workbook)
	require.NoError(t, err)
	defer wb.Close()

	archive, err := wb.Sheet(dailywork.ArchiveSheet)
	require.NoError(t, err)
	name, err := archive.Get(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Ada", name)

	src, err := wb.Sheet(dailywork.StudentWorkSheet)
	require.NoError(t, err)
	checked, err := src.Get(2, 8)
	require.NoError(t, err)
	assert.False(t, sheet.ParseBool(checked))
	response, err := src.Get(2, 6)
	require.NoError(t, err)
	assert.Empty(t, response)

	require.Len(t, rec.alerts, 1)
	assert.Equal(t, "Successfully archived 1 student response(s).", rec.alerts[0].body)
}

func useConfig(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dailywork.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	prevConfig, prevWorkbook := configPath, workbookPath
	configPath, workbookPath = path, ""
	t.Cleanup(func() { configPath, workbookPath = prevConfig, prevWorkbook })
	t.Setenv(config.EnvActivated, "")
}

func TestSetupRequiresActivation(t *testing.T) {
	docsDir := t.TempDir()
	useConfig(t, fmt.Sprintf("activated: false\ndocuments:\n  dir: %q\n", docsDir))

	rec := &recorder{}
	a, err := setup(rec, dailywork.OpArchive)
	assert.Nil(t, a)
	assert.ErrorIs(t, err, dailywork.ErrNotActivated)

	require.Len(t, rec.alerts, 1)
	assert.Equal(t, notify.TitleError, rec.alerts[0].title)
	assert.Equal(t, "Failed to archive responses: sheet not activated", rec.alerts[0].body)
}

func TestSetupActivated(t *testing.T) {
	docsDir := t.TempDir()
	useConfig(t, fmt.Sprintf("activated: true\ndocuments:\n  dir: %q\n", docsDir))

	rec := &recorder{}
	a, err := setup(rec, dailywork.OpArchive)
	require.NoError(t, err)
	assert.Same(t, rec, a.notifier)
	assert.Empty(t, rec.alerts)
}

func TestSetupConfigError(t *testing.T) {
	useConfig(t, "activated: [oops\n")

	rec := &recorder{}
	_, err := setup(rec, dailywork.OpCollectFollowUps)
	require.Error(t, err)

	require.Len(t, rec.alerts, 1)
	assert.Equal(t, notify.TitleError, rec.alerts[0].title)
	assert.Contains(t, rec.alerts[0].body, "Failed to collect follow-up responses: failed to parse config")
}
