package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// L is the process-wide logger. It starts as a development logger so packages
// can log from tests; Init replaces it once config is known.
var L *zap.Logger

func init() {
	L = newLogger(false)
}

func newLogger(production bool) *zap.Logger {
	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	l, err := cfg.Build(zap.AddCaller(), zap.AddCallerSkip(1))
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// Init switches to the JSON production encoder when production is true.
func Init(production bool) {
	L = newLogger(production)
}

// Sync flushes buffered entries. Call before exit.
func Sync() {
	_ = L.Sync()
}

func Info(msg string, fields ...zap.Field) {
	L.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	L.Warn(msg, fields...)
}

func Error(msg string, err error, fields ...zap.Field) {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	L.Error(msg, fields...)
}
