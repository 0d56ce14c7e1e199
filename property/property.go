// Package property binds a serializable tween configuration to the
// context that animates it.
package property

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/matt-g-everett/ledtween/diag"
	"github.com/matt-g-everett/ledtween/easing"
	"github.com/matt-g-everett/ledtween/interp"
	"github.com/matt-g-everett/ledtween/tween"
	"gopkg.in/yaml.v2"
)

// BakeSamples is how finely a context's custom curve is sampled when a
// wrapper marshals it as keyframes.
const BakeSamples = 32

// ErrNoContext is reported when an operation needs a context that the
// wrapper has not set up yet.
var ErrNoContext = errors.New("property has no tween context, call SetupProperty first")

// ErrUnbound is reported when a wrapper needs a scheduler it was never
// given, as happens to one decoded from YAML before Bind.
var ErrUnbound = errors.New("property has no scheduler, call Bind first")

// ErrRebind is reported when Bind would move an existing context to
// another scheduler.
var ErrRebind = errors.New("property context already runs on another scheduler")

// Config is the static, serializable part of a property animation.
type Config struct {
	Duration       float64          `yaml:"duration"`
	Delay          float64          `yaml:"delay"`
	Ease           easing.Type      `yaml:"ease"`
	Curve          easing.Keyframes `yaml:"curve,omitempty"`
	RepeatAmount   int              `yaml:"repeatAmount"`
	RepeatType     tween.RepeatType `yaml:"repeatType"`
	AllowOvershoot bool             `yaml:"allowOvershoot"`
}

// Wrapper owns at most one context and pushes its Config into it after
// every edit. A zero or YAML-decoded Wrapper has no scheduler; Bind one
// before SetupProperty.
type Wrapper[T any] struct {
	Config `yaml:",inline"`

	sched *tween.Scheduler
	ctx   *tween.Context[T]
	// curve is an exact custom curve adopted from a context. Keyframes in
	// Config take precedence; it is only baked when marshalling.
	curve easing.Curve
}

// New creates a wrapper with a one second duration and the scheduler's
// default ease and repeat type. A nil scheduler leaves the wrapper
// unbound.
func New[T any](s *tween.Scheduler) *Wrapper[T] {
	settings := tween.DefaultSettings()
	if s != nil {
		settings = s.Settings()
	}
	return &Wrapper[T]{
		Config: Config{
			Duration:   1,
			Ease:       settings.DefaultEaseType(),
			RepeatType: settings.DefaultRepeatType(),
		},
		sched: s,
	}
}

// FromContext adopts c, using its current values as the configuration
// baseline.
func FromContext[T any](c *tween.Context[T]) *Wrapper[T] {
	return &Wrapper[T]{
		Config: Config{
			Duration:       c.Duration(),
			Delay:          c.Delay(),
			Ease:           c.Ease(),
			RepeatAmount:   c.RepeatAmount(),
			RepeatType:     c.RepeatType(),
			AllowOvershoot: c.UseUnclampedLerp(),
		},
		sched: c.Scheduler(),
		ctx:   c,
		curve: c.CustomCurve(),
	}
}

// Bind attaches the scheduler the context is created on. Binding a
// wrapper whose context runs elsewhere is reported and ignored.
func (w *Wrapper[T]) Bind(s *tween.Scheduler) {
	switch {
	case s == nil:
		w.report("property.Bind", diag.KindUsage, ErrUnbound)
	case w.ctx != nil && w.ctx.Scheduler() != s:
		w.report("property.Bind", diag.KindUsage, ErrRebind)
	default:
		w.sched = s
	}
}

// Scheduler returns the bound scheduler, or nil.
func (w *Wrapper[T]) Scheduler() *tween.Scheduler { return w.sched }

// Context returns the owned context, or nil before SetupProperty.
func (w *Wrapper[T]) Context() *tween.Context[T] { return w.ctx }

// IsRunning reports whether the owned context is running.
func (w *Wrapper[T]) IsRunning() bool { return w.ctx != nil && w.ctx.IsRunning() }

// SetupProperty creates the context or rewires the existing one to
// animate setter from start to end. A nil setter is reported and nothing
// changes.
func (w *Wrapper[T]) SetupProperty(start, end T, setter func(T)) {
	if setter == nil {
		w.report("property.SetupProperty", diag.KindUsage, tween.ErrNilSetter)
		return
	}
	if w.ctx == nil {
		if w.sched == nil {
			w.report("property.SetupProperty", diag.KindUsage, ErrUnbound)
			return
		}
		w.ctx = tween.New(w.sched, start, end, w.Duration, setter)
	} else {
		w.ctx.SetStartValue(start).SetEndValue(end).SetSetter(setter)
	}
	w.UpdateProperty()
}

// StartTween starts the owned context.
func (w *Wrapper[T]) StartTween() {
	if w.ctx == nil {
		w.report("property.StartTween", diag.KindUsage, ErrNoContext)
		return
	}
	w.ctx.StartTween()
}

// StartTweenFrom sets the endpoints and starts. The context is set up on
// first use, which needs a setter; afterwards a nil setter keeps the
// current one.
func (w *Wrapper[T]) StartTweenFrom(start, end T, setter func(T)) {
	if w.ctx == nil {
		w.SetupProperty(start, end, setter)
		if w.ctx == nil {
			return
		}
	} else {
		w.ctx.SetStartValue(start).SetEndValue(end)
		if setter != nil {
			w.ctx.SetSetter(setter)
		}
	}
	w.ctx.StartTween()
}

// StopTween stops the owned context, if any.
func (w *Wrapper[T]) StopTween() {
	if w.ctx != nil {
		w.ctx.StopTween()
	}
}

// PauseTween is not supported; it reports an error pointing at StopTween.
func (w *Wrapper[T]) PauseTween() {
	w.report("property.PauseTween", diag.KindUsage, tween.ErrPauseUnsupported)
}

// UpdateProperty pushes the configuration into the owned context. It does
// nothing before SetupProperty.
func (w *Wrapper[T]) UpdateProperty() {
	c := w.ctx
	if c == nil {
		return
	}
	c.SetDuration(w.Duration).
		SetDelay(w.Delay).
		SetRepeatAmount(w.RepeatAmount).
		SetRepeatType(w.RepeatType).
		SetUnclamped(w.AllowOvershoot)
	switch {
	case len(w.Curve) > 0:
		c.SetCustomCurve(w.Curve.Curve())
		return
	case w.curve != nil:
		c.SetCustomCurve(w.curve)
		return
	}
	if c.CustomCurve() != nil {
		c.SetCustomCurve(nil)
	}
	c.SetEase(w.Ease)
}

func (w *Wrapper[T]) SetDuration(seconds float64) *Wrapper[T] {
	w.Duration = seconds
	w.UpdateProperty()
	return w
}

func (w *Wrapper[T]) SetDelay(seconds float64) *Wrapper[T] {
	w.Delay = seconds
	w.UpdateProperty()
	return w
}

// SetEase selects a built-in curve and drops any keyframe curve.
func (w *Wrapper[T]) SetEase(e easing.Type) *Wrapper[T] {
	w.Ease = e
	w.Curve = nil
	w.curve = nil
	w.UpdateProperty()
	return w
}

// SetCurve sets a keyframe curve, which takes precedence over Ease. An
// empty set falls back to Ease.
func (w *Wrapper[T]) SetCurve(k easing.Keyframes) *Wrapper[T] {
	w.Curve = k.Sorted()
	w.curve = nil
	w.UpdateProperty()
	return w
}

func (w *Wrapper[T]) SetRepeat(amount int, r tween.RepeatType) *Wrapper[T] {
	w.RepeatAmount = amount
	w.RepeatType = r
	w.UpdateProperty()
	return w
}

func (w *Wrapper[T]) SetAllowOvershoot(allow bool) *Wrapper[T] {
	w.AllowOvershoot = allow
	w.UpdateProperty()
	return w
}

// Load replaces the configuration with YAML data and pushes it into the
// context. On error the configuration is left unchanged.
func (w *Wrapper[T]) Load(data []byte) error {
	cfg := w.Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return fmt.Errorf("property: %w", err)
	}
	w.Config = cfg
	w.UpdateProperty()
	return nil
}

// Marshal encodes the configuration as YAML. An adopted custom curve is
// written as BakeSamples keyframes.
func (w *Wrapper[T]) Marshal() ([]byte, error) {
	cfg := w.Config
	if len(cfg.Curve) == 0 && w.curve != nil {
		cfg.Curve = easing.Bake(w.curve, BakeSamples)
	}
	return yaml.Marshal(cfg)
}

func (w *Wrapper[T]) report(op string, kind diag.Kind, err error) {
	var r diag.Reporter
	if w.sched != nil {
		r = w.sched.Reporter()
	} else {
		r = diag.NewLogReporter(slog.Default())
	}
	diag.Report(r, &diag.Error{Op: op, Kind: kind, Err: err, Value: interp.TypeName[T]()})
}
