package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"DEBUG":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWritesFieldsAtLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	logger, err := New(
		WithLevel("warn"),
		WithFields(map[string]any{"component": "tuner", "": "skipped"}),
		WithOutputPaths(path),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", zap.Int("n", 3))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatal(err)
	}
	if entry["msg"] != "shown" || entry["component"] != "tuner" || entry["n"] != float64(3) {
		t.Fatalf("unexpected entry %v", entry)
	}
	if _, ok := entry[""]; ok {
		t.Fatal("empty field key was not skipped")
	}
}

func TestWithDevelopmentKeepsLevel(t *testing.T) {
	cfg := zap.NewProductionConfig()
	WithLevel("error")(&cfg)
	WithDevelopment(true)(&cfg)
	if !cfg.Development || cfg.Level.Level() != zapcore.ErrorLevel {
		t.Fatalf("development config lost level: dev=%v level=%v", cfg.Development, cfg.Level.Level())
	}
	WithDevelopment(false)(&cfg)
	if !cfg.Development {
		t.Fatal("WithDevelopment(false) reset the config")
	}
}

func TestWithDevelopmentKeepsOutputPaths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.log")
	logger, err := New(WithOutputPaths(path), WithDevelopment(true))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("console line")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "console line") {
		t.Fatalf("development logger ignored output path, file holds %q", data)
	}
	if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		t.Fatalf("want console encoding, got %q", data)
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) = nil")
	}
	l := zap.NewExample()
	if OrNop(l) != l {
		t.Fatal("OrNop replaced a non-nil logger")
	}
}
