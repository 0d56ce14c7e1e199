package diag

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Reporter receives errors reported by the engine.
type Reporter interface {
	Report(err *Error)
}

// ReporterFunc adapts a function to a Reporter.
type ReporterFunc func(err *Error)

// Report calls f(err).
func (f ReporterFunc) Report(err *Error) { f(err) }

// Report stamps err and hands it to r. A nil reporter drops the error.
func Report(r Reporter, err *Error) {
	if err == nil || r == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	r.Report(err)
}

// Recover is a helper for deferred panic recovery.
// Usage: defer diag.Recover(reporter, "tween.New", nil)
func Recover(r Reporter, op string, callback func(v any)) {
	if v := recover(); v != nil {
		Report(r, &Error{
			Op:         op,
			Kind:       KindPanic,
			Err:        &PanicValue{Value: v},
			StackTrace: CaptureStack(),
		})
		if callback != nil {
			callback(v)
		}
	}
}

// LogReporter writes errors to a structured logger. Policy conflicts are
// logged at debug level, everything else at error level.
type LogReporter struct {
	Logger *slog.Logger
	// Verbose attaches stack traces when present.
	Verbose bool
}

// NewLogReporter returns a LogReporter writing to logger, or to a default
// stderr logger when logger is nil.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = NewLogger(slog.LevelInfo)
	}
	return &LogReporter{Logger: logger}
}

// Report logs err.
func (h *LogReporter) Report(err *Error) {
	if err == nil {
		return
	}
	level := slog.LevelError
	if err.Kind == KindPolicy {
		level = slog.LevelDebug
	}
	attrs := []any{"op", err.Op, "kind", err.Kind.String(), "error", err.Err}
	if err.Value != "" {
		attrs = append(attrs, "value", err.Value)
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, "stack", err.StackTrace)
	}
	h.Logger.Log(context.Background(), level, "tween error", attrs...)
}

// Recorder keeps every reported error in memory.
type Recorder struct {
	mu     sync.Mutex
	errors []*Error
}

// Report appends err.
func (r *Recorder) Report(err *Error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
}

// Errors returns a copy of the recorded errors.
func (r *Recorder) Errors() []*Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Error, len(r.errors))
	copy(out, r.errors)
	return out
}

// Count returns how many errors of kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.errors {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops recorded errors.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = nil
}

// NewLogger creates a configured application logger.
// It writes to Stderr and standardizes the "error" key to "err".
func NewLogger(level slog.Level) *slog.Logger {
	return NewLoggerTo(os.Stderr, level)
}

// NewLoggerTo is NewLogger with an explicit destination.
func NewLoggerTo(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a level name onto slog.Level, defaulting to info.
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}
