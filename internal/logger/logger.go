package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// Options configures Init. Writer defaults to os.Stderr.
type Options struct {
	Level  string
	Format string
	File   string
	Writer io.Writer
}

// ParseLevel maps debug/info/warn/error to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// Init initializes the process logger and installs it as the slog default.
func Init(opts Options) (*slog.Logger, error) {
	logLevel, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	out := opts.Writer
	if out == nil {
		out = os.Stderr
	}

	// Set up multi-writer (stderr + file)
	writers := []io.Writer{out}
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
	}
	multiWriter := io.MultiWriter(writers...)

	var handler slog.Handler
	if useJSON(opts.Format, out) {
		handler = slog.NewJSONHandler(multiWriter, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewTextHandler(multiWriter, &slog.HandlerOptions{
			Level: logLevel,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				// Shorten time format
				if a.Key == slog.TimeKey && len(groups) == 0 {
					return slog.String("time", a.Value.Time().Format("15:04:05"))
				}
				return a
			},
		})
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log, nil
}

// useJSON resolves "auto" to text on a terminal and JSON otherwise.
func useJSON(format string, out io.Writer) bool {
	switch format {
	case "json":
		return true
	case "text":
		return false
	}
	f, ok := out.(*os.File)
	return !ok || !term.IsTerminal(int(f.Fd()))
}
