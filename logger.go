package gemgo

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/gemgo/model"
)

// Logger wraps slog.Logger with gemgo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithRound adds a round field to the logger.
func (l *Logger) WithRound(round int) *Logger {
	return &Logger{
		Logger: l.Logger.With("round", round),
	}
}

// WithGem adds a gem id field to the logger.
func (l *Logger) WithGem(id model.GemID) *Logger {
	return &Logger{
		Logger: l.Logger.With("gem", uint32(id)),
	}
}

// LogIndexBuild logs the initial index construction.
func (l *Logger) LogIndexBuild(ctx context.Context, gems, facets int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index build failed",
			"gems", gems,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "index build completed",
			"gems", gems,
			"facets", facets,
			"elapsed", elapsed,
		)
	}
}

// LogRound logs one ordering round.
func (l *Logger) LogRound(ctx context.Context, res RoundResult, elapsed time.Duration) {
	l.InfoContext(ctx, "round completed",
		"round", res.Round,
		"target", res.Target,
		"support", res.Support,
		"batch", []string(res.Batch),
		"impacted", len(res.Impacted),
		"completed", len(res.Completed),
		"baseline", res.UsedBaseline,
		"elapsed", elapsed,
	)
}

// LogRun logs the end of an ordering run.
func (l *Logger) LogRun(ctx context.Context, report *Report, err error) {
	if err != nil {
		l.ErrorContext(ctx, "ordering run failed",
			"rounds", report.Rounds,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "ordering run completed",
			"rounds", report.Rounds,
			"stop", report.Stop.String(),
			"known_facets", report.KnownFacets,
			"elapsed", report.Elapsed,
		)
	}
}

// LogLoad logs reading one gem file from a blob store.
func (l *Logger) LogLoad(ctx context.Context, name string, gems int, bytes int64, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "gem load failed",
			"blob", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "gem load completed",
		"blob", name,
		"gems", gems,
		"bytes", bytes,
		"elapsed", elapsed,
	)
}
