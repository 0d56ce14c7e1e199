// Package diag provides structured error reporting and logging for the
// tween engine. Faults inside the engine never escape as panics; they are
// converted to an [Error] and handed to a [Reporter].
package diag

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the category of an error.
type Kind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindConstruction indicates a fault while building a context.
	KindConstruction
	// KindInvalid indicates a context that failed its validity check.
	KindInvalid
	// KindUsage indicates an API call that cannot be honoured.
	KindUsage
	// KindPolicy indicates a silently ignored configuration conflict.
	KindPolicy
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k Kind) String() string {
	switch k {
	case KindConstruction:
		return "construction"
	case KindInvalid:
		return "invalid"
	case KindUsage:
		return "usage"
	case KindPolicy:
		return "policy"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Error is a structured engine error.
type Error struct {
	// Op is the operation that failed (e.g., "tween.StopTween").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Err is the underlying error.
	Err error
	// Value names the animated value kind, if applicable.
	Value string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s [%s] value=%s: %v", e.Op, e.Kind, e.Value, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PanicValue wraps a recovered panic value as an error.
type PanicValue struct {
	Value any
}

func (p *PanicValue) Error() string {
	return fmt.Sprintf("panic: %v", p.Value)
}

// CaptureStack returns the current call stack as a string, skipping the
// CaptureStack frame itself.
func CaptureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		sb.WriteString(frame.Function)
		sb.WriteString("\n\t")
		sb.WriteString(frame.File)
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(frame.Line))
		sb.WriteString("\n")
		if !more {
			break
		}
	}
	return sb.String()
}
