// Package main provides the CLI entry point for dailywork.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/dailywork-go/internal/config"
	"github.com/ukaji3/dailywork-go/internal/logging"
	"github.com/ukaji3/dailywork-go/pkg/dailywork"
	"github.com/ukaji3/dailywork-go/pkg/dailywork/models"
	"github.com/ukaji3/dailywork-go/pkg/dailywork/notify"
	"github.com/ukaji3/dailywork-go/pkg/dailywork/sheet"
	"github.com/ukaji3/dailywork-go/pkg/dailywork/store"
	"github.com/ukaji3/dailywork-go/pkg/dailywork/watch"
)

var (
	configPath   string
	workbookPath string
	noColor      bool
	feedbackRow  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dailywork",
		Short: "Synchronize a Student Work workbook with student daily-work documents",
		Long: `dailywork copies daily-work entries and follow-up responses from per-student
documents into the Student Work workbook, writes teacher feedback back into
the documents, and archives reviewed responses.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "dailywork.yaml", "Config file path")
	rootCmd.PersistentFlags().StringVarP(&workbookPath, "workbook", "w", "", "Workbook path (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	sendFeedbackCmd := &cobra.Command{
		Use:   "send-feedback",
		Short: "Write teacher comments into the matching rows of student documents",
		Args:  cobra.NoArgs,
		RunE:  runSendFeedback,
	}
	sendFeedbackCmd.Flags().IntVar(&feedbackRow, "row", 0, "Send feedback for a single sheet row only")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "collect-daily-work",
			Short: "Copy each student's most recent daily-work entry into the sheet",
			Args:  cobra.NoArgs,
			RunE:  runCollectDailyWork,
		},
		&cobra.Command{
			Use:   "collect-followups",
			Short: "Copy student follow-up responses for each row's date into the sheet",
			Args:  cobra.NoArgs,
			RunE:  runCollectFollowUps,
		},
		sendFeedbackCmd,
		&cobra.Command{
			Use:   "archive",
			Short: "Move checked rows to the response archive",
			Args:  cobra.NoArgs,
			RunE:  runArchive,
		},
		&cobra.Command{
			Use:   "check-activation",
			Short: "Record when student documents first mention today's date",
			Args:  cobra.NoArgs,
			RunE:  runCheckActivation,
		},
		&cobra.Command{
			Use:   "watch",
			Short: "Archive checked rows and send edited comments whenever the workbook is saved",
			Args:  cobra.NoArgs,
			RunE:  runWatch,
		},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app is the state shared by every subcommand.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	runner   *dailywork.Runner
	notifier notify.Notifier
}

func newConsole() *notify.Console {
	c := notify.NewConsole(os.Stdout)
	if noColor {
		c.WithoutColor()
	}
	return c
}

// setup loads configuration and builds the app for op. Failures, including
// a sheet that is not activated, are shown through notifier before the app
// exists.
func setup(notifier notify.Notifier, op dailywork.Operation) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, alertFailure(notifier, op, err)
	}
	if workbookPath != "" {
		cfg.Workbook = workbookPath
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, alertFailure(notifier, op, err)
	}

	if !cfg.Activated {
		log.Warn("refusing to run before activation", zap.String("operation", op.Name))
		return nil, alertFailure(notifier, op, dailywork.ErrNotActivated)
	}

	docs, err := newProvider(cfg)
	if err != nil {
		return nil, alertFailure(notifier, op, fmt.Errorf("failed to open document store: %w", err))
	}

	return &app{
		cfg:      cfg,
		log:      log,
		runner:   dailywork.NewRunner(docs, cfg.Options(), log),
		notifier: notifier,
	}, nil
}

func newProvider(cfg *config.Config) (store.Provider, error) {
	switch cfg.Documents.Backend {
	case config.BackendS3:
		return store.NewS3Store(cfg.S3())
	default:
		return store.NewDirStore(cfg.Documents.Dir)
	}
}

// batchFunc runs one operation against an open workbook.
type batchFunc func(ctx context.Context, wb *sheet.Workbook) (*models.Summary, error)

// runBatch opens the workbook, runs fn, saves the workbook and shows exactly
// one dialog. Cells written before a top-level failure are still saved.
func (a *app) runBatch(ctx context.Context, op dailywork.Operation, fn batchFunc) error {
	defer a.log.Sync()

	wb, err := sheet.Open(a.cfg.Workbook)
	if err != nil {
		return a.fail(op, fmt.Errorf("failed to open workbook: %w", err))
	}
	defer wb.Close()

	sum, runErr := fn(ctx, wb)
	if sum != nil {
		if err := wb.Save(); err != nil {
			return a.fail(op, fmt.Errorf("failed to save workbook: %w", err))
		}
	}
	if runErr != nil {
		return a.fail(op, runErr)
	}

	title, body := dailywork.Notice(op, sum)
	return a.notifier.Alert(title, body, notify.ButtonsOK)
}

func (a *app) fail(op dailywork.Operation, err error) error {
	a.log.Error("batch failed", zap.String("operation", op.Name), zap.Error(err))
	return alertFailure(a.notifier, op, err)
}

// alertFailure shows the single Error dialog for err and returns err.
func alertFailure(notifier notify.Notifier, op dailywork.Operation, err error) error {
	title, body := dailywork.FailureNotice(op, err)
	if alertErr := notifier.Alert(title, body, notify.ButtonsOK); alertErr != nil {
		return errors.Join(err, alertErr)
	}
	return err
}

func withStudentWork(a *app, fn func(context.Context, *sheet.Sheet) (*models.Summary, error)) batchFunc {
	return func(ctx context.Context, wb *sheet.Workbook) (*models.Summary, error) {
		src, err := wb.Sheet(a.cfg.Sheets.StudentWork)
		if err != nil {
			return nil, err
		}
		return fn(ctx, src)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runCollectDailyWork(cmd *cobra.Command, args []string) error {
	a, err := setup(newConsole(), dailywork.OpCollectDailyWork)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	return a.runBatch(ctx, dailywork.OpCollectDailyWork, withStudentWork(a, func(ctx context.Context, src *sheet.Sheet) (*models.Summary, error) {
		return a.runner.CollectDailyWork(ctx, src)
	}))
}

func runCollectFollowUps(cmd *cobra.Command, args []string) error {
	a, err := setup(newConsole(), dailywork.OpCollectFollowUps)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	return a.runBatch(ctx, dailywork.OpCollectFollowUps, withStudentWork(a, func(ctx context.Context, src *sheet.Sheet) (*models.Summary, error) {
		return a.runner.CollectFollowUps(ctx, src)
	}))
}

func runSendFeedback(cmd *cobra.Command, args []string) error {
	a, err := setup(newConsole(), dailywork.OpSendFeedback)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	if feedbackRow != 0 && feedbackRow < 2 {
		return a.fail(dailywork.OpSendFeedback, fmt.Errorf("invalid row: %d (data starts at row 2)", feedbackRow))
	}

	return a.runBatch(ctx, dailywork.OpSendFeedback, withStudentWork(a, func(ctx context.Context, src *sheet.Sheet) (*models.Summary, error) {
		if feedbackRow == 0 {
			return a.runner.SendFeedback(ctx, src)
		}
		sum := models.NewSummary(dailywork.OpSendFeedback.Name)
		sum.Add(a.runner.SendFeedbackRow(ctx, src, feedbackRow))
		return sum, nil
	}))
}

func runArchive(cmd *cobra.Command, args []string) error {
	a, err := setup(newConsole(), dailywork.OpArchive)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	return a.runBatch(ctx, dailywork.OpArchive, func(ctx context.Context, wb *sheet.Workbook) (*models.Summary, error) {
		src, err := wb.Sheet(a.cfg.Sheets.StudentWork)
		if err != nil {
			return nil, err
		}
		archive, err := wb.Sheet(a.cfg.Sheets.Archive)
		if err != nil {
			return nil, err
		}
		return a.runner.Archive(ctx, src, archive, time.Now())
	})
}

func runCheckActivation(cmd *cobra.Command, args []string) error {
	a, err := setup(newConsole(), dailywork.OpCheckActivation)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	return a.runBatch(ctx, dailywork.OpCheckActivation, func(ctx context.Context, wb *sheet.Workbook) (*models.Summary, error) {
		db, err := wb.Sheet(a.cfg.Sheets.DocsDatabase)
		if err != nil {
			return nil, err
		}
		return a.runner.CheckActivation(ctx, db, time.Now())
	})
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := setup(newConsole(), dailywork.OpWatch)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	tracker := dailywork.NewCommentTracker()
	// Prime the comment snapshot so existing comments are not resent.
	if err := a.onWorkbookSaved(ctx, tracker); err != nil {
		return err
	}

	w, err := watch.New(a.cfg.Workbook, a.cfg.DebounceInterval(), func(ctx context.Context) error {
		return a.onWorkbookSaved(ctx, tracker)
	}, a.log)
	if err != nil {
		return fmt.Errorf("failed to watch workbook: %w", err)
	}

	w.Start(ctx)
	<-ctx.Done()
	return w.Stop()
}

// onWorkbookSaved sends feedback for comments that changed since the previous
// call and archives checked rows. The workbook is written only when a row was
// archived, so the watcher does not loop on its own saves.
func (a *app) onWorkbookSaved(ctx context.Context, tracker *dailywork.CommentTracker) error {
	wb, err := sheet.Open(a.cfg.Workbook)
	if err != nil {
		return err
	}
	defer wb.Close()

	src, err := wb.Sheet(a.cfg.Sheets.StudentWork)
	if err != nil {
		return err
	}
	archive, err := wb.Sheet(a.cfg.Sheets.Archive)
	if err != nil {
		return err
	}

	changedRows, err := tracker.Changed(src, a.cfg.Columns.Comment)
	if err != nil {
		return err
	}
	feedback := models.NewSummary(dailywork.OpSendFeedback.Name)
	for _, row := range changedRows {
		feedback.Add(a.runner.SendFeedbackRow(ctx, src, row))
	}
	// Rows skipped for a missing date or doc id stay silent.
	if feedback.UpdatedCount() > 0 || feedback.HasErrors() {
		a.alert(dailywork.OpSendFeedback, feedback)
	}

	archived, err := a.runner.Archive(ctx, src, archive, time.Now())
	if err != nil {
		return err
	}
	if archived.UpdatedCount() == 0 {
		return nil
	}
	if err := wb.Save(); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	a.alert(dailywork.OpArchive, archived)
	return nil
}

func (a *app) alert(op dailywork.Operation, sum *models.Summary) {
	title, body := dailywork.Notice(op, sum)
	if err := a.notifier.Alert(title, body, notify.ButtonsOK); err != nil {
		a.log.Warn("alert failed", zap.String("operation", op.Name), zap.Error(err))
	}
}
