package diagnostics

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestRenderPlainWhenNotATerminal(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	got := render(color.FgRed, "bad input: %d", 5)
	if got != "bad input: 5" {
		t.Errorf("expected plain rendering, got %q", got)
	}
}

func TestNewRespectsDebugFlag(t *testing.T) {
	quiet := New(false)
	if quiet.Level.String() != "info" {
		t.Errorf("expected info level by default, got %s", quiet.Level)
	}

	verbose := New(true)
	if verbose.Level.String() != "debug" {
		t.Errorf("expected debug level when requested, got %s", verbose.Level)
	}
}

func TestErrorfAndWarnfDoNotPanic(t *testing.T) {
	log := New(false)
	var sb strings.Builder
	log.SetOutput(&sb)
	Errorf(log, "boom: %s", "oops")
	Warnf(log, "careful: %s", "ok")
	if !strings.Contains(sb.String(), "boom") {
		t.Errorf("expected logged output to contain the error message")
	}
}
