// Package logx is a small leveled logging facade over zap, so call sites
// stay terse and the backend stays swappable.
package logx

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

var (
	atomicLevel = zap.NewAtomicLevelAt(LevelInfo)
	sugar       = newLogger().Sugar()
)

func newLogger() *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(os.Stderr),
		atomicLevel,
	)
	return zap.New(core, zap.AddCallerSkip(1))
}

// SetLevel changes the minimum logged level at runtime.
func SetLevel(l Level) {
	atomicLevel.SetLevel(l)
}

func Debug(args ...any)                 { sugar.Debug(args...) }
func Debugf(format string, args ...any) { sugar.Debugf(format, args...) }

func Info(args ...any)                 { sugar.Info(args...) }
func Infof(format string, args ...any) { sugar.Infof(format, args...) }

func Warn(args ...any)                 { sugar.Warn(args...) }
func Warnf(format string, args ...any) { sugar.Warnf(format, args...) }

func Error(args ...any)                 { sugar.Error(args...) }
func Errorf(format string, args ...any) { sugar.Errorf(format, args...) }

func Fatalf(format string, args ...any) { sugar.Fatalf(format, args...) }
