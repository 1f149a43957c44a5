package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the file sink. Zero fields use the defaults below.
type Rotation struct {
	// MaxSizeMB is the size in megabytes a file grows to before rotating.
	MaxSizeMB int
	// MaxBackups is the number of rotated files kept.
	MaxBackups int
	// MaxAgeDays is the number of days rotated files are kept.
	MaxAgeDays int
	// Compress gzips rotated files.
	Compress bool
}

const (
	defaultMaxSizeMB  = 5
	defaultMaxBackups = 3
	defaultMaxAgeDays = 14
	logDirPermissions = 0o755
)

func (r Rotation) withDefaults() Rotation {
	if r.MaxSizeMB <= 0 {
		r.MaxSizeMB = defaultMaxSizeMB
	}

	if r.MaxBackups <= 0 {
		r.MaxBackups = defaultMaxBackups
	}

	if r.MaxAgeDays <= 0 {
		r.MaxAgeDays = defaultMaxAgeDays
	}

	return r
}

// fileCore writes JSON entries to a lumberjack-rotated file.
func fileCore(path string, rotation Rotation, level zapcore.LevelEnabler) zapcore.Core {
	rotation = rotation.withDefaults()

	// lumberjack creates the file lazily; make sure the directory exists.
	//nolint:errcheck // A failure surfaces on the first write instead.
	_ = os.MkdirAll(filepath.Dir(path), logDirPermissions)

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    rotation.MaxSizeMB,
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAgeDays,
		Compress:   rotation.Compress,
	})

	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapcore.NewCore(zapcore.NewJSONEncoder(cfg), writer, level)
}
