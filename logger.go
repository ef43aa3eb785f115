package bapi

import (
	"log"
	"sync/atomic"
	"testing"
)

// Logger can be implemented to get informed about important states.
type Logger interface {
	LogUnhandledError(err error)
	LogRecoveryError(err error)
	LogWriteError(err error)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogUnhandledError(err error) {
	l.Logger.Printf("bapi: unhandled error: %s", err)
}

func (l stdLogger) LogRecoveryError(err error) {
	l.Logger.Printf("bapi: error handler failed: %s", err)
}

func (l stdLogger) LogWriteError(err error) {
	l.Logger.Printf("bapi: error while writing response: %s", err)
}

func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}
	return stdLogger{l}
}

type TestLogger struct {
	tb testing.TB

	NumLogUnhandledError int64
	NumLogRecoveryError  int64
	NumLogWriteError     int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogUnhandledError(err error) {
	atomic.AddInt64(&l.NumLogUnhandledError, 1)
	l.tb.Logf("bapi: unhandled error: %s", err)
}

func (l *TestLogger) LogRecoveryError(err error) {
	atomic.AddInt64(&l.NumLogRecoveryError, 1)
	l.tb.Logf("bapi: error handler failed: %s", err)
}

func (l *TestLogger) LogWriteError(err error) {
	atomic.AddInt64(&l.NumLogWriteError, 1)
	l.tb.Logf("bapi: error while writing response: %s", err)
}

var _ Logger = &TestLogger{}
