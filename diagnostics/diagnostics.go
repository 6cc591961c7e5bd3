// Package diagnostics is the compiler's structured logger: a
// logrus.Logger whose Errorf/Warnf wrappers colorize their message
// with fatih/color when standard error is a terminal, and print plain
// text otherwise (e.g. when output is piped into a file or CI log).
package diagnostics

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// New returns a logger at Info level, or Debug level when debug is
// true, writing to stderr with logrus's own color handling disabled —
// color comes from Errorf/Warnf below instead.
func New(debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: true,
	})
	if debug {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}

// isColorTerminal reports whether stderr is an interactive terminal,
// the condition under which diagnostics are colorized. fatih/color's
// own NoColor default only inspects stdout, so compiler diagnostics
// (written to stderr) need their own check.
func isColorTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Errorf logs a fatal compiler diagnostic, in bold red when attached
// to a terminal.
func Errorf(log *logrus.Logger, format string, args ...interface{}) {
	log.Error(render(color.FgRed, format, args...))
}

// Warnf logs a non-fatal diagnostic, in bold yellow when attached to
// a terminal.
func Warnf(log *logrus.Logger, format string, args ...interface{}) {
	log.Warn(render(color.FgYellow, format, args...))
}

func render(attr color.Attribute, format string, args ...interface{}) string {
	msg := fmt.Sprintf(format, args...)
	if !isColorTerminal() {
		return msg
	}
	return color.New(attr, color.Bold).Sprint(msg)
}
