// Package logging wires the charmbracelet logger into the service's Logger
// interface.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"retailcore/internal/core"
)

// New builds a structured logger writing to w. level accepts debug, info,
// warn, or error; format accepts text or json. Unknown values fall back to
// info and text.
func New(w io.Writer, level, format string) *log.Logger {
	opts := log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           parseLevel(level),
	}
	if strings.EqualFold(format, "json") {
		opts.Formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, opts)
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Adapter exposes a *log.Logger through the service Logger interface.
type Adapter struct {
	logger *log.Logger
}

var _ core.Logger = (*Adapter)(nil)

// Adapt wraps logger for use by the service layer.
func Adapt(logger *log.Logger) *Adapter {
	return &Adapter{logger: logger}
}

// Debug logs at debug level.
func (a *Adapter) Debug(msg string, keyvals ...any) { a.logger.Debug(msg, keyvals...) }

// Info logs at info level.
func (a *Adapter) Info(msg string, keyvals ...any) { a.logger.Info(msg, keyvals...) }

// Warn logs at warn level.
func (a *Adapter) Warn(msg string, keyvals ...any) { a.logger.Warn(msg, keyvals...) }

// Error logs at error level.
func (a *Adapter) Error(msg string, keyvals ...any) { a.logger.Error(msg, keyvals...) }
