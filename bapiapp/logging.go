package bapiapp

import (
	"context"

	"github.com/advdv/bapi"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger configured from the environment.
// BAPI_LOG_LEVEL controls the level (debug, info, warn, error).
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogUnhandledError(err error) {
	l.Logger.Error("unhandled error", zap.Error(err))
}

func (l zapLogger) LogRecoveryError(err error) {
	l.Logger.Error("error handler failed", zap.Error(err))
}

func (l zapLogger) LogWriteError(err error) {
	l.Logger.Warn("error while writing response", zap.Error(err))
}

func newZapLogger(l *zap.Logger) bapi.Logger {
	return zapLogger{l.Named("bapi")}
}

// logStates returns an observer that logs lifecycle transitions at debug level.
func logStates(l *zap.Logger) bapi.Observer {
	l = l.Named("dispatch")
	return func(ctx context.Context, s bapi.State) {
		if !l.Core().Enabled(zapcore.DebugLevel) {
			return
		}
		l.Debug("state", append(requestFields(ctx), zap.Stringer("state", s))...)
	}
}
