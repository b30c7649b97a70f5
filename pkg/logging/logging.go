/*
Package logging configures the process-wide charmbracelet logger. Standard
output carries the MCP protocol, so log lines go to standard error or to a
file, never to stdout.
*/
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

var logFile *os.File

/*
Init points the default logger at path, or at standard error when path is
empty, and applies the named level. An unknown level is an error rather than
a silent fallback.
*/
func Init(level, path string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stderr

	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", path, err)
		}

		Close()
		logFile = file
		out = file
	}

	log.SetDefault(New(out, lvl))
	log.Debug("logging initialized", "level", lvl, "file", path)

	return nil
}

// New builds a logger with the timestamped format every command uses.
func New(out io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "memos-mcp",
	})
}

// ParseLevel accepts debug, info, warn, error and fatal; empty means info.
func ParseLevel(level string) (log.Level, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return log.InfoLevel, nil
	}

	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return lvl, nil
}

// Close releases the log file, if one was opened.
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}
