package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultDir is where log files are written
const DefaultDir = "logs"

// Options controls where and how much is logged
type Options struct {
	// Dir holds the JSON log files; DefaultDir when empty
	Dir string

	// Console receives the human-readable stream; stderr when nil so stdout stays
	// free for command output
	Console io.Writer

	// Verbose lowers the console level from Info to Debug
	Verbose bool

	// Color enables colored level names on the console
	Color bool
}

// InitLogger initializes a zap logger with console and file outputs
// env is used to prefix the log file name
func InitLogger(env string, verbose bool) (*zap.Logger, error) {
	return NewLogger(env, Options{Verbose: verbose, Color: true})
}

// NewLogger builds a logger that tees a console core with a JSON file core under opts.Dir
func NewLogger(env string, opts Options) (*zap.Logger, error) {
	dir := opts.Dir
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	logFile, err := os.OpenFile(FileName(dir, env, time.Now()), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	if opts.Color {
		consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		consoleEncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	fileEncoderConfig := zap.NewProductionEncoderConfig()
	fileEncoderConfig.TimeKey = "timestamp"
	fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleLevel := zapcore.InfoLevel
	if opts.Verbose {
		consoleLevel = zapcore.DebugLevel
	}

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig), zapcore.AddSync(console), consoleLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), zapcore.AddSync(logFile), zapcore.DebugLevel),
	)

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// FileName is the log file path for env started at t
func FileName(dir, env string, t time.Time) string {
	if env == "" {
		env = "default"
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.log", env, t.Format("2006-01-02_15-04-05")))
}
