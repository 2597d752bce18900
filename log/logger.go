// Package log wraps zap with the small surface the simulator needs:
// named loggers, typed fields and context propagation.
package log

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

type (
	Level = zapcore.Level
	Field = zap.Field
)

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

// Logger is a zap logger that keeps its level adjustable after construction
type Logger struct {
	l     *zap.Logger
	level zap.AtomicLevel
}

// Config selects encoder, destination and filtering for New
type Config struct {
	Level  string // debug, info, warn, error
	Format string // console or json
	Output string // file path, "stderr", "stdout" or "" for discard
	Filter string // optional zapfilter rule, e.g. "info:tuning.* warn:*"
}

// New builds a logger from cfg
func New(cfg Config) (*Logger, error) {
	level := zap.NewAtomicLevel()
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	var encCfg zapcore.EncoderConfig
	var enc zapcore.Encoder
	switch cfg.Format {
	case "json":
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(encCfg)
	case "", "console":
		encCfg = zap.NewDevelopmentEncoderConfig()
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	sink, err := openSink(cfg.Output)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(enc, sink, level)
	if cfg.Filter != "" {
		rule, err := zapfilter.ParseRules(cfg.Filter)
		if err != nil {
			return nil, fmt.Errorf("invalid log filter %q: %w", cfg.Filter, err)
		}
		core = zapfilter.NewFilteringCore(core, rule)
	}

	return &Logger{l: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)), level: level}, nil
}

func openSink(output string) (zapcore.WriteSyncer, error) {
	switch output {
	case "":
		return zapcore.AddSync(io.Discard), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return zapcore.AddSync(f), nil
}

// NewFromZap wraps an existing zap logger, used by tests with zaptest/observer
func NewFromZap(l *zap.Logger) *Logger {
	return &Logger{l: l, level: zap.NewAtomicLevelAt(zapcore.DebugLevel)}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{l: zap.NewNop(), level: zap.NewAtomicLevel()}
}

func (l *Logger) Named(name string) *Logger {
	return &Logger{l: l.l.Named(name), level: l.level}
}

func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{l: l.l.With(fields...), level: l.level}
}

// Enabled reports whether entries at level pass the level threshold
func (l *Logger) Enabled(level Level) bool { return l.level.Enabled(level) }

func (l *Logger) Debug(msg string, fields ...Field) { l.l.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.l.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.l.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.l.Error(msg, fields...) }

// Sync flushes buffered entries; errors from syncing a terminal are ignored
func (l *Logger) Sync() {
	_ = l.l.Sync()
}
