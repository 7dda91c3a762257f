package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ukaji3/dailywork-go/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{" WARN ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if err != nil {
			t.Errorf("ParseLevel(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(\"loud\") expected error")
	}
}

func TestConsoleLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(config.LoggingConfig{Level: "warn"}, &buf)
	if err != nil {
		t.Fatalf("newLogger failed: %v", err)
	}

	log.Info("row updated", zap.String("doc_id", "doc-ada"))
	log.Warn("row failed", zap.String("doc_id", "doc-grace"))
	log.Sync()

	out := buf.String()
	if strings.Contains(out, "doc-ada") {
		t.Errorf("info line written at warn level:\n%s", out)
	}
	if !strings.Contains(out, "doc-grace") {
		t.Errorf("warn line missing:\n%s", out)
	}
}

func TestFileCore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dailywork.log")
	var console bytes.Buffer
	log, err := newLogger(config.LoggingConfig{Level: "info", File: path, JSON: true}, &console)
	if err != nil {
		t.Fatalf("newLogger failed: %v", err)
	}

	log.Info("batch finished", zap.String("operation", "archive"), zap.Int("updated", 2))
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, data)
	}
	if entry["message"] != "batch finished" || entry["level"] != "INFO" || entry["operation"] != "archive" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Errorf("entry missing timestamp: %v", entry)
	}

	if !strings.Contains(console.String(), `"message":"batch finished"`) {
		t.Errorf("JSON console output missing message:\n%s", console.String())
	}
}
