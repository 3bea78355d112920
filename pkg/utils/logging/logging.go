package logging

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
)

// Format specifies the log output format
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	defaultLogger.Store(slog.Default())
}

// Default returns the process-wide logger
func Default() *slog.Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger
func SetDefault(logger *slog.Logger) {
	defaultLogger.Store(logger)
}

// redactor hides credentials and raw conversation text from log output
func redactor() func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(
		masq.WithFieldName("Authorization"),
		masq.WithFieldName("Secret"),
		masq.WithFieldName("Token"),
		masq.WithFieldName("Transcript"),
		masq.WithFieldPrefix("secret"),
	)
}

// New builds a logger writing to w with the given format and level
func New(w io.Writer, format Format, level slog.Level) (*slog.Logger, error) {
	var handler slog.Handler
	switch format {
	case FormatConsole:
		handler = clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithSource(true),
			clog.WithReplaceAttr(redactor()),
		)
	case FormatJSON:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: redactor(),
		})
	default:
		return nil, goerr.New("unknown log format", goerr.V("format", format))
	}
	return slog.New(handler), nil
}

type ctxLoggerKey struct{}

// With binds a logger to the context
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

// From returns the logger bound to the context, or the default logger
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxLoggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return Default()
}

// ErrAttr renders an error as a slog attribute
func ErrAttr(err error) slog.Attr {
	return slog.Any("error", err)
}
