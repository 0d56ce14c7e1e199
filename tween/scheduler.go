package tween

import (
	"context"
	"log/slog"
	"reflect"
	"slices"

	"github.com/matt-g-everett/ledtween/diag"
	"github.com/matt-g-everett/ledtween/interp"
)

// Frame is the host's per-frame timing input.
type Frame struct {
	// Delta is the unscaled time since the previous frame, in seconds.
	Delta float64
	// TimeScale multiplies Delta. Zero or less freezes every tween.
	TimeScale float64
}

// NewFrame returns a frame running at normal speed.
func NewFrame(delta float64) Frame {
	return Frame{Delta: delta, TimeScale: 1}
}

// Scaled returns the time this frame advances tweens by.
func (f Frame) Scaled() float64 {
	if f.TimeScale <= 0 {
		return 0
	}
	return f.Delta * f.TimeScale
}

// Target is the optional object a tween animates. A tween whose target is
// no longer alive stops on its next step.
type Target interface {
	Alive() bool
}

// TargetFunc adapts a function to a Target.
type TargetFunc func() bool

// Alive calls f.
func (f TargetFunc) Alive() bool { return f() }

// Tween is the value-kind-agnostic view of a running context.
type Tween interface {
	TargetObj() Target
	ValueKind() interp.Kind
	IsRunning() bool
	StartTween()
	StopTween()

	advance(f Frame)
}

// Observer is notified of registry changes. All calls happen on the
// goroutine that drives the scheduler.
type Observer interface {
	TweenStarted(t Tween)
	TweenStopped(t Tween, completed bool)
	TweenRepeated(t Tween)
	FrameStepped(running int)
}

// Scheduler steps every running tween once per host frame and keeps the
// registry of running tweens. It is not safe for concurrent use; a single
// host loop owns it.
type Scheduler struct {
	settings Settings
	reporter diag.Reporter
	logger   *slog.Logger
	observer Observer

	running []Tween
	frames  uint64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithSettings sets the read-only settings collaborator.
func WithSettings(s Settings) Option {
	return func(sc *Scheduler) {
		if s != nil {
			sc.settings = s
		}
	}
}

// WithReporter sets where engine errors are sent.
func WithReporter(r diag.Reporter) Option {
	return func(sc *Scheduler) {
		sc.reporter = r
	}
}

// WithLogger sets the logger used for diagnostic output.
func WithLogger(l *slog.Logger) Option {
	return func(sc *Scheduler) {
		if l != nil {
			sc.logger = l
		}
	}
}

// WithObserver registers lifecycle hooks.
func WithObserver(o Observer) Option {
	return func(sc *Scheduler) {
		sc.observer = o
	}
}

// NewScheduler creates an empty scheduler.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		settings: DefaultSettings(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reporter == nil {
		s.reporter = diag.NewLogReporter(s.logger)
	}
	return s
}

// Settings returns the settings collaborator.
func (s *Scheduler) Settings() Settings { return s.settings }

// Reporter returns where engine errors are sent.
func (s *Scheduler) Reporter() diag.Reporter { return s.reporter }

// Step advances every running tween by one frame. Tweens started while
// the frame is being stepped are first advanced on the next frame.
func (s *Scheduler) Step(f Frame) {
	s.frames++
	if len(s.running) > 0 {
		snapshot := slices.Clone(s.running)
		for _, t := range snapshot {
			if t.IsRunning() {
				t.advance(f)
			}
		}
	}
	if s.observer != nil {
		s.observer.FrameStepped(len(s.running))
	}
}

// Tick is Step at normal time scale.
func (s *Scheduler) Tick(delta float64) {
	s.Step(NewFrame(delta))
}

// FrameCount returns the number of frames stepped so far.
func (s *Scheduler) FrameCount() uint64 { return s.frames }

// Len returns the number of running tweens.
func (s *Scheduler) Len() int { return len(s.running) }

// Running returns a snapshot of the registry in start order.
func (s *Scheduler) Running() []Tween {
	return slices.Clone(s.running)
}

// StopAll stops every running tween.
func (s *Scheduler) StopAll() {
	for _, t := range slices.Clone(s.running) {
		t.StopTween()
	}
}

// StopTarget stops every running tween animating target and returns how
// many were stopped.
func (s *Scheduler) StopTarget(target Target) int {
	if target == nil {
		return 0
	}
	n := 0
	for _, t := range slices.Clone(s.running) {
		if sameTarget(t.TargetObj(), target) {
			t.StopTween()
			n++
		}
	}
	return n
}

// sameTarget compares targets without panicking on uncomparable dynamic
// types such as TargetFunc.
func sameTarget(a, b Target) bool {
	if a == nil || b == nil {
		return false
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

func (s *Scheduler) add(t Tween) {
	if slices.Contains(s.running, t) {
		return
	}
	s.running = append(s.running, t)
	if s.observer != nil {
		s.observer.TweenStarted(t)
	}
}

func (s *Scheduler) remove(t Tween, completed bool) {
	i := slices.Index(s.running, t)
	if i < 0 {
		return
	}
	s.running = slices.Delete(s.running, i, i+1)
	if s.observer != nil {
		s.observer.TweenStopped(t, completed)
	}
}

func (s *Scheduler) repeated(t Tween) {
	if s.observer != nil {
		s.observer.TweenRepeated(t)
	}
}

func (s *Scheduler) debug(msg string, args ...any) {
	if s.settings.DiagnosticMode() {
		s.logger.Log(context.Background(), slog.LevelDebug, msg, args...)
	}
}
