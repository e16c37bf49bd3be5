// Package logger provides a convenience function to constructing a logger
// for use. This is required not just for applications but for testing.
package logger

import (
	"fmt"
	"os"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config defines where the logs are written and which level is enabled.
type Config struct {
	Level      string // debug, info, warn, error. Empty means info.
	File       string // Rotating log file. Empty means stderr.
	MaxSize    int    // Megabytes before the file is rotated.
	MaxBackups int    // Rotated files to keep.
	MaxAge     int    // Days to keep a rotated file.
}

// New constructs a Sugared Logger that writes to stderr or to the configured
// file and provides human readable timestamps.
func New(service string, cfg Config) (*zap.SugaredLogger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		var err error
		if level, err = zapcore.ParseLevel(cfg.Level); err != nil {
			return nil, fmt.Errorf("parsing log level: %w", err)
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// The interactive menu owns stdout so the logs never go there.
	sink := zapcore.Lock(os.Stderr)
	if cfg.File != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
		})
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), sink, level)

	log := zap.New(core, zap.AddCaller(), zap.Fields(zap.String("service", service)))

	return log.Sugar(), nil
}
