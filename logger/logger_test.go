package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelWarn, &buf)

	log.Debug("hidden")
	log.Info("also hidden")
	log.Warn("shown")
	log.Error("also shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("suppressed levels leaked: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown") || !strings.Contains(out, "[ERROR] also shown") {
		t.Errorf("expected warn and error lines, got %q", out)
	}
}

func TestKeyValueFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelInfo, &buf)

	log.Info("probe done", "host", "10.0.0.5", "printer", true)

	out := buf.String()
	if !strings.Contains(out, "host=10.0.0.5") || !strings.Contains(out, "printer=true") {
		t.Errorf("missing fields in %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"error": LevelError,
		"WARN":  LevelWarn,
		"info":  LevelInfo,
		"debug": LevelDebug,
		"trace": LevelTrace,
		"":      LevelInfo,
		"junk":  LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var log *Logger
	log.Info("no panic")
	log.SetLevel(LevelDebug)
}
