package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the process logger
type Options struct {
	AppName  string
	Level    string
	FilePath string // optional rotating file sink, stdout is always written
	MaxSize  int    // megabytes before rotation
	MaxAge   int    // days to keep rotated files
}

func buildLumberjackSyncer(o Options) *lumberjack.Logger {
	maxSize := o.MaxSize
	if maxSize <= 0 {
		maxSize = 10
	}
	maxAge := o.MaxAge
	if maxAge <= 0 {
		maxAge = 7
	}
	return &lumberjack.Logger{
		Filename:   o.FilePath,
		MaxSize:    maxSize,
		MaxBackups: 7,
		MaxAge:     maxAge,
		Compress:   false,
	}
}

// New builds a JSON zap logger writing to stdout and, if configured, a rotated file.
// Every entry carries the service name.
func New(o Options) *zap.Logger {
	level, err := zapcore.ParseLevel(o.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	syncers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if o.FilePath != "" {
		syncers = append(syncers, zapcore.AddSync(buildLumberjackSyncer(o)))
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(syncers...),
		level,
	)

	return zap.New(core).With(zap.String("service", o.AppName))
}
