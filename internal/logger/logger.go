// Package logger is the ambient structured-logging layer (SPEC_FULL §6
// env, LOG_LEVEL/LOG_FORMAT/LOG_FILE): a zap logger writing to stdout and,
// when configured, a lumberjack-rotated file. Grounded on
// xkilldash9x-scalpel-cli's pkg/observability/logger.go (atomic
// global-logger pointer, console/JSON encoder switch, zapcore.Tee'd file
// sink), adapted from that repo's sync.Once global singleton to an
// explicit instance the caller constructs once at startup and threads
// through — this codebase has one process per run, not a long-lived
// server with package-level logging call sites that predate any config.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls one logger instance.
type Config struct {
	Level  string // debug|info|warn|error, default info
	Format string // console|json, default console
	File   string // rotating file sink path; empty disables file output

	MaxSizeMB  int // lumberjack MaxSize, default 100
	MaxBackups int // default 5
	MaxAgeDays int // default 30
	Compress   bool
}

func (c Config) withDefaults() Config {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.MaxSizeMB == 0 {
		c.MaxSizeMB = 100
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 5
	}
	if c.MaxAgeDays == 0 {
		c.MaxAgeDays = 30
	}
	return c
}

// New builds a zap.Logger per cfg, tee'd across stdout and an optional
// rotating file sink.
func New(cfg Config) (*zap.Logger, error) {
	cfg = cfg.withDefaults()

	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	consoleCore := zapcore.NewCore(encoderFor(cfg.Format), zapcore.Lock(os.Stdout), level)
	cores := []zapcore.Core{consoleCore}

	if cfg.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(encoderFor("json"), fileWriter, level))
	}

	core := zapcore.NewTee(cores...)
	return zap.New(core, zap.AddStacktrace(zap.ErrorLevel)).Named("flashloop"), nil
}

func encoderFor(format string) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	if format == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}

// Sync flushes l, logging (not panicking on) a flush failure — matched to
// the teacher's shutdown-time best-effort Sync.
func Sync(l *zap.Logger) {
	if err := l.Sync(); err != nil {
		fmt.Fprintln(os.Stderr, "logger: failed to sync:", err)
	}
}
