// Package clog provides the leveled, per-subsystem logging spec.md §7's
// error taxonomy assumes (SILENT, ERROR, INFO, DEBUG) on top of the
// standard log/slog handler interface, with a rotated file sink
// (gopkg.in/natefinch/lumberjack.v2) and color-tinted console output
// (github.com/fatih/color) when stderr is a terminal. See SPEC_FULL.md §1.1
// for why this sits on slog rather than gioui's bare log.Printf calls.
package clog

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Severity mirrors spec.md §7's taxonomy. Debug is the most verbose.
type Severity = slog.Level

const (
	Debug  Severity = slog.LevelDebug
	Info   Severity = slog.LevelInfo
	Error  Severity = slog.LevelError
	Silent Severity = slog.Level(1 << 10) // above Error: nothing logs at this level
)

var root = slog.New(slog.NewTextHandler(os.Stderr, nil))

// Configure points the root logger at a rotated log file, in addition to
// color-tinted stderr output when stderr is a TTY. Safe to call once at
// process startup (cmd/cwcgo).
func Configure(path string, maxSizeMB, maxBackups, maxAgeDays int, minLevel Severity) {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
	var writers io.Writer = rotator
	if isTTY(os.Stderr) {
		writers = io.MultiWriter(rotator, &colorWriter{out: os.Stderr})
	}
	opts := &slog.HandlerOptions{Level: minLevel}
	root = slog.New(slog.NewTextHandler(writers, opts))
}

// For returns a logger scoped to subsystem name (e.g. "bsp", "cursor"),
// matching spec.md §2's per-component breakdown.
func For(subsystem string) *slog.Logger {
	return root.With(slog.String("subsystem", subsystem))
}

// Diagnostic logs msg at sev on the given subsystem logger. A Silent
// severity is a deliberate no-op: spec.md §7 uses it to mark operations
// that are rejected or dropped without surfacing a log line (e.g. a
// recoverable-protocol-error the collaborator is simply asked to tear
// itself down over).
func Diagnostic(subsystem string, sev Severity, msg string, args ...any) {
	if sev == Silent {
		return
	}
	For(subsystem).Log(context.Background(), sev, msg, args...)
}

// colorWriter tints each line by its slog level marker, best-effort: the
// text handler writes "level=ERROR" etc. verbatim, so this only adds a
// leading color escape without trying to parse the line.
type colorWriter struct {
	out io.Writer
}

func (w *colorWriter) Write(p []byte) (int, error) {
	c := color.New(color.FgWhite)
	switch {
	case contains(p, "level=ERROR"):
		c = color.New(color.FgRed)
	case contains(p, "level=WARN"):
		c = color.New(color.FgYellow)
	case contains(p, "level=DEBUG"):
		c = color.New(color.FgCyan)
	}
	c.Fprint(w.out, string(p))
	return len(p), nil
}

func contains(p []byte, s string) bool {
	return len(p) >= len(s) && indexOf(p, s) >= 0
}

func indexOf(p []byte, s string) int {
	for i := 0; i+len(s) <= len(p); i++ {
		if string(p[i:i+len(s)]) == s {
			return i
		}
	}
	return -1
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
