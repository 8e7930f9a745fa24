package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// newLogHandler builds the handler for --log-level and --log-format.
// Unknown values warn on w and fall back to info and text.
func newLogHandler(w io.Writer, logLevel, logFormat string) slog.Handler {
	var slogLevel slog.Level

	switch logLevel {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
		fmt.Fprintf(w, "WARNING: unknown log level %q, defaulting to \"info\"\n", logLevel)
	}

	switch logFormat {
	case "text":
		return newTextHandler(w, slogLevel)
	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slogLevel})
	default:
		fmt.Fprintf(w, "WARNING: unknown log format %q, defaulting to \"text\"\n", logFormat)

		return newTextHandler(w, slogLevel)
	}
}

// newTextHandler returns a charm logger; its levels share slog's values.
func newTextHandler(w io.Writer, level slog.Level) slog.Handler {
	return log.NewWithOptions(w, log.Options{
		Level:           log.Level(level),
		ReportTimestamp: true,
	})
}
