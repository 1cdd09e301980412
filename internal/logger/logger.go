// =============================================================================
// SuperSlice ETL - Logger
// =============================================================================
//
// Builds the structured zap logger used by every component. Output always
// goes to stdout; when a log file is configured it is written as well and
// rotated by lumberjack.
//
// =============================================================================

package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/bwilly/SuperSliceETL/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds a logger from the logging config.
//
// PARAMETERS:
//   - cfg: Level, format and optional rotating file.
//   - service: Added to every entry as the "service" field.
//
// RETURNS:
//   - The logger. Call Sync before exit.
//   - An error if the log directory cannot be created.
func New(cfg config.LoggingConfig, service string) (*zap.Logger, error) {
	writers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, err
		}
		writers = append(writers, zapcore.AddSync(&lumberjack.Logger{
			Filename: cfg.File,
			MaxSize:  cfg.MaxSizeMB,
			MaxAge:   cfg.MaxAgeDays,
			Compress: true,
		}))
	}

	return build(cfg, service, zapcore.NewMultiWriteSyncer(writers...)), nil
}

// NewWithWriter builds a logger that writes only to w.
func NewWithWriter(cfg config.LoggingConfig, service string, w io.Writer) *zap.Logger {
	return build(cfg, service, zapcore.AddSync(w))
}

func build(cfg config.LoggingConfig, service string, sink zapcore.WriteSyncer) *zap.Logger {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zap.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "msg"

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, sink, level)
	return zap.New(core, zap.AddCaller()).With(zap.String("service", service))
}
