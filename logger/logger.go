package logger

import (
	"context"
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// CtxLoggerKey is how request-scoped loggers are stored/retrieved.
	CtxLoggerKey ctxKey = "app-logger"

	debugLogging = "HELIOX_DEBUG_LOGGING"
)

type ctxKey string

var (
	baseLogger *zap.SugaredLogger
	initOnce   sync.Once
)

type Logger struct {
	sugar  *zap.SugaredLogger
	labels map[string]string
}

func initBaseLogger() {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if debug, err := strconv.ParseBool(os.Getenv(debugLogging)); err == nil && debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewNop()
	}

	baseLogger = l.Sugar()
}

// FromContext returns the logger stored on the context, or a fresh one.
func FromContext(ctx context.Context) ILogger {
	if l, ok := ctx.Value(CtxLoggerKey).(ILogger); ok {
		return l
	}

	return NewLogger()
}

func NewLogger() ILogger {
	initOnce.Do(initBaseLogger)

	return &Logger{
		sugar:  baseLogger,
		labels: make(map[string]string),
	}
}

func (l *Logger) SetLabel(key, value string) {
	l.labels[key] = value
	l.sugar = l.sugar.With(key, value)
}

func (l *Logger) Debug(v ...interface{})   { l.sugar.Debug(v...) }
func (l *Logger) Info(v ...interface{})    { l.sugar.Info(v...) }
func (l *Logger) Warning(v ...interface{}) { l.sugar.Warn(v...) }
func (l *Logger) Error(v ...interface{})   { l.sugar.Error(v...) }

func (l *Logger) Debugf(format string, v ...interface{})   { l.sugar.Debugf(format, v...) }
func (l *Logger) Infof(format string, v ...interface{})    { l.sugar.Infof(format, v...) }
func (l *Logger) Warningf(format string, v ...interface{}) { l.sugar.Warnf(format, v...) }
func (l *Logger) Errorf(format string, v ...interface{})   { l.sugar.Errorf(format, v...) }
