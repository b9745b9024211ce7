package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
)

// LogFileName is the file written in the log directory, truncated each run
const LogFileName = "plexport.log"

// LogOptions configures NewLogger
type LogOptions struct {
	Level   string
	Dir     string    // empty disables the log file
	Console io.Writer // defaults to stderr
}

// Log writes every record to the console and, when configured, to a JSON
// log file. Each record carries the run id.
type Log struct {
	console *pterm.Logger
	file    *pterm.Logger
	closer  io.Closer
	runID   string
	path    string
}

// ParseLevel maps a level name to a pterm level
func ParseLevel(name string) (pterm.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return pterm.LogLevelTrace, nil
	case "debug":
		return pterm.LogLevelDebug, nil
	case "", "info":
		return pterm.LogLevelInfo, nil
	case "warn", "warning":
		return pterm.LogLevelWarn, nil
	case "error":
		return pterm.LogLevelError, nil
	default:
		return pterm.LogLevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// NewLogger opens the log file (if any) and builds the console logger
func NewLogger(opts LogOptions) (*Log, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	l := &Log{
		console: pterm.DefaultLogger.WithLevel(level).WithWriter(console),
		runID:   uuid.NewString(),
	}

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		l.path = filepath.Join(opts.Dir, LogFileName)
		f, err := os.Create(l.path)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.closer = f
		l.file = pterm.DefaultLogger.
			WithLevel(level).
			WithWriter(f).
			WithFormatter(pterm.LogFormatterJSON).
			WithTime(true)
	}
	return l, nil
}

// RunID identifies this run in the log file
func (l *Log) RunID() string { return l.runID }

// Path is the log file path, empty when logging to the console only
func (l *Log) Path() string { return l.path }

// Close flushes and closes the log file
func (l *Log) Close() error {
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

func (l *Log) Trace(msg string, args ...any) { l.log(pterm.LogLevelTrace, msg, args) }
func (l *Log) Debug(msg string, args ...any) { l.log(pterm.LogLevelDebug, msg, args) }
func (l *Log) Info(msg string, args ...any)  { l.log(pterm.LogLevelInfo, msg, args) }
func (l *Log) Warn(msg string, args ...any)  { l.log(pterm.LogLevelWarn, msg, args) }
func (l *Log) Error(msg string, args ...any) { l.log(pterm.LogLevelError, msg, args) }

func (l *Log) log(level pterm.LogLevel, msg string, args []any) {
	args = normalizeArgs(args)
	emit(l.console, level, msg, l.console.Args(args...))
	if l.file != nil {
		withRun := append([]any{"run_id", l.runID}, args...)
		emit(l.file, level, msg, l.file.Args(withRun...))
	}
}

func emit(logger *pterm.Logger, level pterm.LogLevel, msg string, args []pterm.LoggerArgument) {
	switch level {
	case pterm.LogLevelTrace:
		logger.Trace(msg, args)
	case pterm.LogLevelDebug:
		logger.Debug(msg, args)
	case pterm.LogLevelWarn:
		logger.Warn(msg, args)
	case pterm.LogLevelError:
		logger.Error(msg, args)
	default:
		logger.Info(msg, args)
	}
}

// normalizeArgs renders errors as strings so the JSON formatter does not
// serialise them as empty objects
func normalizeArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if err, ok := a.(error); ok && err != nil {
			out[i] = err.Error()
			continue
		}
		out[i] = a
	}
	return out
}
