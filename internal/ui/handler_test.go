package ui

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fatih/color"
)

func noColor(t *testing.T) {
	t.Helper()
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })
}

func TestHandlerFormat(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	log := NewLogger(&buf, slog.LevelInfo)

	log.Info("Preparing version 1.2.3")
	log.Error("push failed")

	want := "[INFO ] Preparing version 1.2.3\n[ERROR] push failed\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestHandlerLevelFilter(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	log := NewLogger(&buf, slog.LevelWarn)

	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("shown")

	want := "[WARN ] shown\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestHandlerOff(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer

	level, err := ParseLevel("off")
	if err != nil {
		t.Fatal(err)
	}
	log := NewLogger(&buf, level)
	log.Error("hidden")

	if buf.Len() != 0 {
		t.Errorf("output = %q, want empty", buf.String())
	}
}

func TestHandlerAttrs(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	log := NewLogger(&buf, slog.LevelInfo)

	log.Info("pushing", "remote", "origin", "tags", 2)

	want := "[INFO ] pushing remote=origin tags=2\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestHandlerWithAttrsAndGroup(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	log := NewLogger(&buf, slog.LevelInfo).WithGroup("git").With("dir", "/work")

	log.Info("tagging")

	want := "[INFO ] tagging git.dir=/work\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"error", slog.LevelError},
		{"WARN", slog.LevelWarn},
		{"info", slog.LevelInfo},
		{"Debug", slog.LevelDebug},
		{"trace", LevelTrace},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud): expected error")
	}
}

func TestLevelWord(t *testing.T) {
	if got := levelWord(LevelTrace); got != "TRACE" {
		t.Errorf("levelWord(trace) = %q", got)
	}
	if got := levelWord(slog.LevelError + 2); got != "ERROR" {
		t.Errorf("levelWord(error+2) = %q", got)
	}
}
