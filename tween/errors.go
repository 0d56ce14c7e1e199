package tween

import "errors"

// Reasons a context is not valid. Validate returns exactly one of these.
var (
	ErrMissingStart  = errors.New("start value is not set")
	ErrMissingEnd    = errors.New("end value is not set")
	ErrMissingSetter = errors.New("setter is not set")
	ErrNoTask        = errors.New("tween task was never built")
	ErrTargetGone    = errors.New("target is no longer alive")
)

// Usage and policy errors.
var (
	ErrNilSetter        = errors.New("setter must not be nil")
	ErrNilLerp          = errors.New("interpolation strategy must not be nil")
	ErrNoStrategy       = errors.New("no interpolation strategy registered for value kind")
	ErrCurveActive      = errors.New("custom curve is active, ease change ignored")
	ErrNoCurve          = errors.New("no custom curve to clear")
	ErrPauseUnsupported = errors.New("pausing is not supported, use StopTween instead")
)
