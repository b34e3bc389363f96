package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is the structured logging field type
type Field = zapcore.Field

var (
	// String - returns the string field
	String = zap.String
	// Int - returns the int field
	Int = zap.Int
	// Float64 - returns the float64 field
	Float64 = zap.Float64
	// Any - returns the field with any value
	Any = zap.Any
	// Error - returns the error field
	Error = zap.Error
)

// Logger is methods that logger must have
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

type loggerImpl struct {
	zap *zap.Logger
}

// New - returns the logger with the given level and namespace
func New(level string, namespace string) Logger {
	globalLevel := parseLevel(level)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stdout),
		globalLevel,
	)

	return &loggerImpl{
		zap: zap.New(core, zap.AddCaller()).Named(namespace),
	}
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *loggerImpl) Debug(msg string, fields ...Field) {
	l.zap.Debug(msg, fields...)
}

func (l *loggerImpl) Info(msg string, fields ...Field) {
	l.zap.Info(msg, fields...)
}

func (l *loggerImpl) Warn(msg string, fields ...Field) {
	l.zap.Warn(msg, fields...)
}

func (l *loggerImpl) Error(msg string, fields ...Field) {
	l.zap.Error(msg, fields...)
}
