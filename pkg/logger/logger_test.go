package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestLogger(level string) (*AppLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(level, &buf)
	l.now = func() time.Time { return time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC) }
	return l, &buf
}

func TestLogger_Format(t *testing.T) {
	l, buf := newTestLogger("info")
	l.Info("Session opened", "session_id", "abc", "pages", 3)

	want := "[2025-03-15 10:30:00] INFO: Session opened session_id=abc pages=3\n"
	if buf.String() != want {
		t.Fatalf("unexpected log line:\n got %q\nwant %q", buf.String(), want)
	}
}

func TestLogger_ErrorIncludesCause(t *testing.T) {
	l, buf := newTestLogger("error")
	l.Error("Export failed", errors.New("boom"), "page", 2)

	if !strings.Contains(buf.String(), "ERROR: Export failed error=boom page=2") {
		t.Fatalf("unexpected log line: %q", buf.String())
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	l, buf := newTestLogger("warn")
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("expected debug and info to be filtered, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "WARN: shown") {
		t.Fatalf("expected warn line, got %q", buf.String())
	}
}

func TestLogger_DropsDanglingKey(t *testing.T) {
	l, buf := newTestLogger("debug")
	l.Debug("odd", "key")

	if strings.Contains(buf.String(), "key") {
		t.Fatalf("expected dangling key to be dropped, got %q", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DEBUG,
		"INFO":    INFO,
		"warning": WARN,
		" error ": ERROR,
		"bogus":   INFO,
	}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Fatalf("parseLogLevel(%q) = %d, want %d", in, got, want)
		}
	}
}
