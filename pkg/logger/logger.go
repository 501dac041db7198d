// Package logger provides structured logging with context support.
package logger

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appctx "tourbook/internal/core/context"
)

// Logger wraps zap.SugaredLogger with context-aware logging.
type Logger struct {
	*zap.SugaredLogger
}

type loggerKey struct{}

// Config holds logger configuration.
type Config struct {
	// Level is one of debug, info, warn, error
	Level string
	// Development switches to colored console output
	Development bool
	// Output defaults to stdout
	Output zapcore.WriteSyncer
}

// New creates a Logger. An unknown level is an error.
func New(cfg Config) (*Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		var err error
		if level, err = zapcore.ParseLevel(cfg.Level); err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if cfg.Development {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	out := cfg.Output
	if out == nil {
		out = zapcore.Lock(os.Stdout)
	}

	z := zap.New(zapcore.NewCore(enc, out, level), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return &Logger{z.Sugar()}, nil
}

var (
	defaultOnce   sync.Once
	defaultLogger *Logger
)

// Default returns the shared info-level JSON logger.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLogger, _ = New(Config{})
	})
	return defaultLogger
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

// NewFromZap wraps an existing zap logger (e.g. zaptest/observer in tests).
func NewFromZap(z *zap.Logger) *Logger {
	return &Logger{z.Sugar()}
}

// WithContext adds the trace ids and acting user carried by ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	sugar := l.SugaredLogger
	if trace := appctx.GetTrace(ctx); trace != nil {
		sugar = sugar.With("trace_id", trace.TraceID, "request_id", trace.RequestID)
	}
	if user := appctx.GetUser(ctx); user != nil {
		sugar = sugar.With("user", user.Username)
	}
	return &Logger{sugar}
}

// With adds key-value pairs to logger.
func (l *Logger) With(keysAndValues ...any) *Logger {
	return &Logger{l.SugaredLogger.With(keysAndValues...)}
}

// WithComponent tags entries with the subsystem name.
func (l *Logger) WithComponent(name string) *Logger {
	return l.With("component", name)
}

// Sync flushes buffered entries. Errors from syncing stdout are ignored.
func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

// WithLogger stores l in ctx for the package-level helpers.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the logger stored in ctx, or Default, enriched by WithContext.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerKey{}).(*Logger); ok {
		return l.WithContext(ctx)
	}
	return Default().WithContext(ctx)
}

// helper reports the caller of the package-level functions below.
func helper(ctx context.Context) *zap.SugaredLogger {
	return FromContext(ctx).WithOptions(zap.AddCallerSkip(1))
}

// Info logs at info level through the logger in ctx.
func Info(ctx context.Context, msg string, keysAndValues ...any) {
	helper(ctx).Infow(msg, keysAndValues...)
}

// Warn logs at warn level through the logger in ctx.
func Warn(ctx context.Context, msg string, keysAndValues ...any) {
	helper(ctx).Warnw(msg, keysAndValues...)
}

// Error logs at error level through the logger in ctx.
func Error(ctx context.Context, msg string, keysAndValues ...any) {
	helper(ctx).Errorw(msg, keysAndValues...)
}
