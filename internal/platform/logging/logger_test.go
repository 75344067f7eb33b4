package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNew_JSONWritesKeyValueFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(FormatJSON, LevelInfo, &buf)

	logger.Info("results refreshed", "finished", 3, "error", errors.New("boom"))
	logger.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, `"msg":"results refreshed"`) {
		t.Fatalf("expected message in output, got %s", out)
	}
	if !strings.Contains(out, `"finished":3`) {
		t.Fatalf("expected finished field in output, got %s", out)
	}
	if !strings.Contains(out, `"error":"boom"`) {
		t.Fatalf("expected error field in output, got %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry must be filtered at info level")
	}
}

func TestLogger_WithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(FormatJSON, LevelWarn, &buf).With("run_id", "r-1")

	logger.Warn("unmatched result", "match", "France-Romania")

	if !strings.Contains(buf.String(), `"run_id":"r-1"`) {
		t.Fatalf("expected run_id field, got %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		" INFO ":  LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelWarn,
	}
	for raw, want := range tests {
		if got := ParseLevel(raw, LevelWarn); got != want {
			t.Fatalf("ParseLevel(%q): got=%s want=%s", raw, got, want)
		}
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("no panic")
	if logger.With("k", "v") == nil {
		t.Fatalf("expected nop logger from nil receiver")
	}
}
