package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPrettyHandlerFormatsComponentAndTrack(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))
	logger = NewComponentLogger(logger, "mixer")

	logger.Info("saved mix", Track("Song_A"), slog.String("path", "/tmp/a b.wav"), slog.Int("stems", 3))

	line := buf.String()
	if !strings.Contains(line, "INFO mixer: [Song_A] saved mix") {
		t.Fatalf("unexpected prefix in %q", line)
	}
	if !strings.Contains(line, `path="/tmp/a b.wav"`) {
		t.Fatalf("expected quoted path in %q", line)
	}
	if !strings.Contains(line, "stems=3") {
		t.Fatalf("expected stems attr in %q", line)
	}
	if strings.Contains(line, "component=") || strings.Contains(line, "track=") {
		t.Fatalf("component/track should be lifted into the prefix: %q", line)
	}
}

func TestPrettyHandlerLiftsRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newPrettyHandler(&buf, new(slog.LevelVar), false))
	logger = NewComponentLogger(logger, "batch").With(slog.String(FieldRunID, "0123456789abcdef"))

	logger.Info("track skipped", Track("Song_B"))

	line := buf.String()
	if !strings.Contains(line, "batch: [run 01234567] [Song_B] track skipped") {
		t.Fatalf("unexpected prefix in %q", line)
	}
	if strings.Contains(line, "run_id=") {
		t.Fatalf("run id should be lifted into the prefix: %q", line)
	}
}

func TestPrettyHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))
	logger.Info("hidden")
	logger.Warn("shown", Error(errors.New("bad thing")))
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("info line should be filtered: %q", buf.String())
	}
	if !strings.Contains(buf.String(), `error="bad thing"`) {
		t.Fatalf("expected error attr: %q", buf.String())
	}
}

func TestNewJSONWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mixprep.log")
	logger, err := New(Options{Level: "info", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello", slog.String("k", "v"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &payload); err != nil {
		t.Fatalf("decode json line %q: %v", data, err)
	}
	if payload["msg"] != "hello" || payload["level"] != "info" || payload["k"] != "v" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key in %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewComponentLogger(nil, "x")
	logger.Error("nothing")
}
