// Package testutil provides helpers shared by package tests: loggers that
// write through testing.TB and temporary session store paths.
package testutil

import (
	"log/slog"
	"path/filepath"
	"testing"
)

// NewTestLogger returns a logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// TempStatePath returns a session database path under a fresh temp dir.
// Extra elements become intermediate directories that do not exist yet.
func TempStatePath(t testing.TB, dirs ...string) string {
	t.Helper()
	parts := append([]string{t.TempDir()}, dirs...)
	return filepath.Join(append(parts, "session.db")...)
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
