// Package logging builds the run logger: human-readable console output plus
// a structured run.log in the log directory.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RunLogName is the log file written into the log directory.
const RunLogName = "run.log"

// New creates a logger that tees console output and <dir>/run.log.
// verbose lowers the level to debug; otherwise level names one of
// debug/info/warn/error, defaulting to info.
func New(dir, level string, verbose bool) (*zap.Logger, error) {
	zapLevel := parseLevel(level)
	if verbose {
		zapLevel = zapcore.DebugLevel
	}

	consoleConfig := zap.NewDevelopmentEncoderConfig()
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleConfig),
		zapcore.Lock(os.Stdout),
		zapLevel,
	)

	if dir == "" {
		return zap.New(consoleCore), nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	file, err := os.OpenFile(filepath.Join(dir, RunLogName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(file),
		zapLevel,
	)

	return zap.New(zapcore.NewTee(consoleCore, fileCore)), nil
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
