package logging_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"clipper/internal/config"
	"clipper/internal/logging"
	"clipper/internal/services"
)

func TestNewFromConfigWritesJSONFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Level = "info"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("batch started", logging.Int("segments", 3))
	logger.Debug("hidden at info level")

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "clipper.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one JSON line, got %d: %q", len(lines), data)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "batch started" || entry["level"] != "info" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["segments"] != float64(3) {
		t.Fatalf("expected segments=3, got %v", entry["segments"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", entry)
	}
}

func TestConsoleLoggerFormatsSubject(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithBatchID(context.Background(), "3f2a9c1b")
	ctx = services.WithSegmentIndex(ctx, 2)
	ctx = services.WithStage(ctx, "transcribe")
	component := logging.NewComponentLogger(logger, "pipeline")
	logging.WithContext(ctx, component).Info("stage completed", logging.Bool("cached", false), logging.String("artifact", "clip.txt"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	for _, want := range []string{
		"INFO [pipeline] Batch 3f2a9c1b · Segment #2 (transcribe) - stage completed",
		"    - Cached: no",
		"    - Artifact: clip.txt",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in console output:\n%s", want, text)
		}
	}
	if strings.Contains(text, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", text)
	}
}

func TestConsoleLoggerIncludesSourceAtDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("probing")

	file, err := os.Open(logPath)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		t.Fatal("expected a log line")
	}
	if !strings.Contains(scanner.Text(), "logger_test.go:") {
		t.Fatalf("expected caller in debug line, got %q", scanner.Text())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "summary skipped", "summarize_skipped", logging.Error(errors.New("no transcript")))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry[logging.FieldEventType] != "summarize_skipped" {
		t.Fatalf("expected event type, got %v", entry)
	}
	if entry[logging.FieldErrorHint] == nil {
		t.Fatalf("expected default hint, got %v", entry)
	}
}

func TestContextFieldsEmptyContext(t *testing.T) {
	if fields := logging.ContextFields(context.Background()); len(fields) != 0 {
		t.Fatalf("expected no fields, got %v", fields)
	}
}

func TestHintForMarkers(t *testing.T) {
	timeout := services.Wrap(services.ErrTimeout, "transcode", "ffmpeg", "deadline", nil)
	if got := logging.HintFor(timeout); !strings.Contains(got, "[timeouts]") {
		t.Fatalf("unexpected timeout hint %q", got)
	}
	if got := logging.HintFor(errors.New("plain")); got != "check logs for details" {
		t.Fatalf("unexpected default hint %q", got)
	}
}

func TestJSONDurationsAreSeconds(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "timing.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("stage completed", logging.Duration("stage_duration", 1500*time.Millisecond))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry["stage_duration"] != 1.5 {
		t.Fatalf("expected stage_duration=1.5, got %v", entry["stage_duration"])
	}
}
