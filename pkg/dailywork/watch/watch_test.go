package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestWatcherDebouncesWrites(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fsnotify Windows goroutines are not tracked by goleak")
	}
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "class.xlsx")
	if err := os.WriteFile(path, []byte("v0"), 0644); err != nil {
		t.Fatal(err)
	}

	calls := make(chan struct{}, 10)
	w, err := New(path, 100*time.Millisecond, func(ctx context.Context) error {
		calls <- struct{}{}
		return errors.New("handler errors are logged, not fatal")
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte{byte('a' + i)}, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("handler not called after writes")
	}

	time.Sleep(300 * time.Millisecond)
	if got := w.Runs(); got != 1 {
		t.Errorf("Runs() = %d, expected 1 for one burst of writes", got)
	}

	if err := w.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fsnotify Windows goroutines are not tracked by goleak")
	}
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "class.xlsx")

	w, err := New(path, 20*time.Millisecond, func(ctx context.Context) error { return nil }, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	w.Start(context.Background())

	if err := os.WriteFile(filepath.Join(dir, "other.xlsx"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)

	if got := w.Runs(); got != 0 {
		t.Errorf("Runs() = %d, expected 0", got)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}

func TestNewRejectsNilHandler(t *testing.T) {
	if _, err := New("class.xlsx", 0, nil, nil); err == nil {
		t.Error("New(nil handler) expected error")
	}
}
