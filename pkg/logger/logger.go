package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar *zap.SugaredLogger

func init() {
	Init(os.Getenv("ENVIRONMENT"))
}

// Init rebuilds the package logger. Development gets a colored console
// encoder at debug level, everything else JSON at info level.
func Init(environment string) {
	var cfg zap.Config
	if environment == "development" || environment == "" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		base = zap.NewNop()
	}

	if sugar != nil {
		_ = sugar.Sync()
	}
	sugar = base.Sugar()
}

// L returns the underlying structured logger for callers that want fields.
func L() *zap.Logger {
	return sugar.Desugar().WithOptions(zap.AddCallerSkip(-1))
}

func Info(format string, v ...interface{}) {
	sugar.Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	sugar.Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	sugar.Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	sugar.Warnf(format, v...)
}

// Helper for lifecycle logs
func LogPickupError(requestID, action string, err error) {
	Warn("Pickup log error: action=%s, requestID=%s, error=%v", action, requestID, err)
}

func Sync() {
	_ = sugar.Sync()
}
