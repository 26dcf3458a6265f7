// Package logger is a thin logrus facade shared by every echotask package.
//
// Callers use printf-style helpers. The X variants tag the entry with a module
// field so that log lines from the agent loop, the tool set and the task client
// can be filtered apart.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

const moduleField = "module"

var (
	std     = logrus.New()
	logFile *os.File
)

// Options controls where and how log entries are written.
type Options struct {
	// Level is one of trace, debug, info, warn, error.
	Level string
	// Format is either "text" or "json".
	Format string
	// File is an optional path. When empty, entries go to Output.
	File string
	// Output is used when File is empty. Defaults to os.Stderr.
	Output io.Writer
}

func init() {
	std.SetOutput(os.Stderr)
	std.SetLevel(logrus.InfoLevel)
	std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// Init configures the process-wide logger.
func Init(opts Options) error {
	if err := SetLevel(opts.Level); err != nil {
		return err
	}

	switch strings.ToLower(opts.Format) {
	case "", "text":
		std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: opts.File != ""})
	case "json":
		std.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", opts.Format)
	}

	if opts.File == "" {
		out := opts.Output
		if out == nil {
			out = os.Stderr
		}
		std.SetOutput(out)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	FlushLog()
	logFile = f
	std.SetOutput(f)
	return nil
}

// InitLog points the logger at a file using the default level and format.
func InitLog(path string) error {
	return Init(Options{Level: "info", File: path})
}

// SetLevel changes the minimum level. An empty level keeps the current one.
func SetLevel(level string) error {
	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	std.SetLevel(lvl)
	return nil
}

// FlushLog syncs and closes the log file, if any.
func FlushLog() {
	if logFile == nil {
		return
	}
	_ = logFile.Sync()
	_ = logFile.Close()
	logFile = nil
	std.SetOutput(os.Stderr)
}

// Logger exposes the underlying logrus logger for structured fields.
func Logger() *logrus.Logger {
	return std
}

func Debug(format string, args ...interface{}) { std.Debugf(format, args...) }
func Info(format string, args ...interface{})  { std.Infof(format, args...) }
func Warn(format string, args ...interface{})  { std.Warnf(format, args...) }
func Error(format string, args ...interface{}) { std.Errorf(format, args...) }

func DebugX(module, format string, args ...interface{}) {
	std.WithField(moduleField, module).Debugf(format, args...)
}

func InfoX(module, format string, args ...interface{}) {
	std.WithField(moduleField, module).Infof(format, args...)
}

func WarnX(module, format string, args ...interface{}) {
	std.WithField(moduleField, module).Warnf(format, args...)
}

func ErrorX(module, format string, args ...interface{}) {
	std.WithField(moduleField, module).Errorf(format, args...)
}
