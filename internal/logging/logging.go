// Package logging provides the application's file logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultFile is the log file written next to the working directory.
const DefaultFile = "tui.log"

// Config controls where and how verbosely the logger writes.
type Config struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// Logger wraps zap.SugaredLogger to provide application-specific logging.
type Logger struct {
	*zap.SugaredLogger
}

// New creates a logger writing to cfg.File. The file is truncated so each run
// starts with a fresh log; the terminal belongs to the UI and is never written to.
func New(cfg Config) (*Logger, error) {
	zapConfig := zap.NewDevelopmentConfig()

	levelName := cfg.Level
	if levelName == "" {
		levelName = "info"
	}
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	file := cfg.File
	if file == "" {
		file = DefaultFile
	}
	if dir := filepath.Dir(file); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	if err := os.WriteFile(file, nil, 0600); err != nil {
		return nil, fmt.Errorf("failed to truncate log file: %w", err)
	}

	zapConfig.OutputPaths = []string{file}
	zapConfig.ErrorOutputPaths = []string{file}
	zapConfig.DisableStacktrace = true

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// WithFields adds structured fields to the logger.
func (l *Logger) WithFields(fields ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(fields...)}
}

// WithError adds an error field to the logger.
func (l *Logger) WithError(err error) *Logger {
	return l.WithFields("error", err.Error())
}

// WithComponent adds a component field to the logger.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithFields("component", component)
}

// Close flushes buffered entries.
func (l *Logger) Close() error {
	return l.Sync()
}
