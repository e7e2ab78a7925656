package common

import (
	"testing"

	"github.com/sirupsen/logrus"
)

// testLogWriter redirects a logger's output to testing.T.Log, so the
// engine's chatter only shows up for failing tests.
type testLogWriter struct {
	t      testing.TB
	prefix string
}

func (w *testLogWriter) Write(d []byte) (int, error) {
	if n := len(d); n > 0 && d[n-1] == '\n' {
		d = d[:n-1]
	}
	if w.prefix != "" {
		l := w.prefix + ": " + string(d)
		w.t.Log(l)
		return len(l), nil
	}
	w.t.Log(string(d))
	return len(d), nil
}

// NewTestLogger returns a debug-level logger wired to t.Log.
func NewTestLogger(t testing.TB) *logrus.Logger {
	logger := logrus.New()
	logger.Out = &testLogWriter{t: t}
	logger.Level = logrus.DebugLevel
	return logger
}
