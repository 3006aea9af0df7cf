package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the command line logger. Development mode logs debug entries
// to stderr in console format, otherwise info and above are written as JSON.
func New(devmode bool) *zap.Logger {
	var encoder zapcore.Encoder
	level := zapcore.InfoLevel
	if devmode {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		level = zapcore.DebugLevel
	} else {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	return zap.New(core).With(zap.Bool("devmode", devmode))
}
