package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/stepan-anokhin/audio-processor/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string

	// Output receives every record. Defaults to stderr.
	Output io.Writer

	// File, when set, receives a copy of every record.
	File string
}

// Logger is a logrus logger together with the log file it owns, if any.
type Logger struct {
	*logrus.Logger

	file *os.File
}

// Close releases the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// New constructs a logger using the provided options.
func New(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	formatter, err := newFormatter(opts.Format)
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	l := &Logger{Logger: logrus.New()}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
		out = io.MultiWriter(out, f)
	}

	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(formatter)

	return l, nil
}

// NewFromConfig creates a logger from the [log] section of cfg.
func NewFromConfig(cfg *config.Config) (*Logger, error) {
	if cfg == nil {
		d := config.Default()
		cfg = &d
	}
	return New(Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})
}

// NewNop returns a logger that discards every record.
func NewNop() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Logger{Logger: l}
}

// ParseLevel maps a level name onto logrus. An empty name means info.
func ParseLevel(level string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel, nil
	case "info", "":
		return logrus.InfoLevel, nil
	case "warn", "warning":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("log level: unsupported value %q", level)
	}
}

func newFormatter(format string) (logrus.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text", "":
		return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"}, nil
	case "json":
		return &logrus.JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", format)
	}
}
