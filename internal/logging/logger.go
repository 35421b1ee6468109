package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// LogFileName is the file NewFile appends to.
const LogFileName = "autoload.log"

// New returns a logger writing to w. Verbose enables debug lines such as
// one per executed artifact.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "autoload",
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
}

// File is a logger backed by a log file, so resolution traces survive the
// process that produced them.
type File struct {
	*log.Logger
	file *os.File
}

// NewFile creates (or reuses) dir/autoload.log and appends to it.
func NewFile(dir string, verbose bool) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(dir, LogFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	logger := New(f, verbose)
	logger.SetFormatter(log.LogfmtFormatter)
	return &File{Logger: logger, file: f}, nil
}

// Close releases the file handle.
func (l *File) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
