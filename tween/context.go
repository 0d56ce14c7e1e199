package tween

import (
	"fmt"
	"slices"

	"github.com/matt-g-everett/ledtween/diag"
	"github.com/matt-g-everett/ledtween/easing"
	"github.com/matt-g-everett/ledtween/interp"
	"github.com/matt-g-everett/ledtween/util"
)

// Context owns the parameters and stepping state of one tween.
//
// Configuration methods stage their change and return the context so calls
// can be chained. Staged changes are committed once, on the next step or
// StartTween, no matter how many setters ran in between.
//
// A Context belongs to the goroutine driving its Scheduler.
type Context[T any] struct {
	sched     *Scheduler
	kind      interp.Kind
	valueName string
	target    Target

	start, end       T
	hasStart, hasEnd bool
	duration         float64
	delay            float64
	repeatAmount     int
	repeatType       RepeatType
	ease             easing.Type
	curve            easing.Curve
	unclamped        bool
	setter           func(T)
	lerp             interp.Func[T]

	endActions   []func()
	persistent   func()
	listeners    []listener[T]
	nextListener int

	invokeOnStop   bool
	invokeOnRepeat bool

	pipe     *pipeline[T]
	built    bool
	dirty    bool
	rebuilds int

	running   bool
	reversed  bool
	gen       uint64
	phase     phase
	elapsed   float64
	delayLeft float64
	armedAt   uint64
}

type listener[T any] struct {
	id int
	fn func(*Context[T])
}

// pipeline is the committed sampling setup used while stepping.
type pipeline[T any] struct {
	curve     easing.Curve
	unclamped bool
	lerp      interp.Func[T]
}

// New creates a context animating from start to end over duration seconds,
// delivering values to setter. Ease and repeat type come from the
// scheduler's settings.
//
// A nil scheduler is replaced by a fresh one, reachable via Scheduler.
// New never panics. A fault while building is reported as a construction
// error and the partially built context is returned; check ContextIsValid
// before relying on it.
func New[T any](s *Scheduler, start, end T, duration float64, setter func(T)) *Context[T] {
	return construct(s, func(c *Context[T]) {
		c.start, c.hasStart = start, true
		c.end, c.hasEnd = end, true
		c.duration = duration
		c.setter = setter
	})
}

// NewEmpty creates an unconfigured context. It becomes valid once start,
// end and a setter are supplied.
func NewEmpty[T any](s *Scheduler) *Context[T] {
	return construct[T](s, nil)
}

func construct[T any](s *Scheduler, configure func(*Context[T])) (c *Context[T]) {
	if s == nil {
		s = NewScheduler()
	}
	c = &Context[T]{
		sched:        s,
		valueName:    interp.TypeName[T](),
		invokeOnStop: true,
	}
	defer func() {
		if r := recover(); r != nil {
			c.report("tween.New", diag.KindConstruction, &diag.PanicValue{Value: r})
		}
	}()

	c.ease = s.settings.DefaultEaseType()
	c.repeatType = s.settings.DefaultRepeatType()
	if fn, kind, ok := interp.Lookup[T](); ok {
		c.lerp, c.kind = fn, kind
	}
	if configure != nil {
		configure(c)
	}
	c.rebuild()
	if !c.built {
		c.report("tween.New", diag.KindConstruction, fmt.Errorf("%w: %s", ErrNoStrategy, c.valueName))
	}
	return c
}

// SetStartValue sets the value at progress 0.
func (c *Context[T]) SetStartValue(v T) *Context[T] {
	c.start, c.hasStart = v, true
	c.dirty = true
	return c
}

// SetEndValue sets the value at progress 1.
func (c *Context[T]) SetEndValue(v T) *Context[T] {
	c.end, c.hasEnd = v, true
	c.dirty = true
	return c
}

// SetDuration sets the length of one cycle in seconds. A duration of zero
// or less jumps straight to the end value.
func (c *Context[T]) SetDuration(seconds float64) *Context[T] {
	c.duration = seconds
	c.dirty = true
	return c
}

// SetDelay sets the wait before each cycle. Negative values mean no delay.
func (c *Context[T]) SetDelay(seconds float64) *Context[T] {
	c.delay = seconds
	c.dirty = true
	return c
}

// SetRandomDelay picks a delay uniformly from [min, max).
func (c *Context[T]) SetRandomDelay(min, max float64) *Context[T] {
	return c.SetDelay(util.RandomRange(min, max))
}

// SetRepeatAmount sets how many extra cycles run. Zero runs once, a
// negative amount repeats until StopTween.
func (c *Context[T]) SetRepeatAmount(n int) *Context[T] {
	c.repeatAmount = n
	c.dirty = true
	return c
}

// SetRepeatType sets the repeat policy.
func (c *Context[T]) SetRepeatType(r RepeatType) *Context[T] {
	c.repeatType = r
	c.dirty = true
	return c
}

// SetEase selects a built-in curve. It is ignored while a custom curve is
// set.
func (c *Context[T]) SetEase(e easing.Type) *Context[T] {
	if c.curve != nil {
		c.policy("tween.SetEase", ErrCurveActive)
		return c
	}
	c.ease = e
	c.dirty = true
	return c
}

// SetCustomCurve overrides the ease with curve. Passing nil clears the
// custom curve and restores the previously selected ease.
func (c *Context[T]) SetCustomCurve(curve easing.Curve) *Context[T] {
	if curve == nil && c.curve == nil {
		c.policy("tween.SetCustomCurve", ErrNoCurve)
		return c
	}
	c.curve = curve
	c.dirty = true
	return c
}

// SetSetter sets the callback receiving interpolated values. A nil setter
// is rejected.
func (c *Context[T]) SetSetter(fn func(T)) *Context[T] {
	if fn == nil {
		c.report("tween.SetSetter", diag.KindUsage, ErrNilSetter)
		return c
	}
	c.setter = fn
	c.dirty = true
	return c
}

// SetLerp replaces the interpolation strategy, which is how kinds outside
// the interp registry are animated.
func (c *Context[T]) SetLerp(fn interp.Func[T]) *Context[T] {
	if fn == nil {
		c.report("tween.SetLerp", diag.KindUsage, ErrNilLerp)
		return c
	}
	c.lerp = fn
	c.dirty = true
	return c
}

// SetUnclamped lets curves and interpolation overshoot [0, 1].
func (c *Context[T]) SetUnclamped(unclamped bool) *Context[T] {
	c.unclamped = unclamped
	c.dirty = true
	return c
}

// SetTarget attaches the object being animated. Nil makes the target
// optional.
func (c *Context[T]) SetTarget(t Target) *Context[T] {
	c.target = t
	c.dirty = true
	return c
}

// SetEndingAction replaces the end-of-cycle actions.
func (c *Context[T]) SetEndingAction(actions ...func()) *Context[T] {
	c.endActions = c.endActions[:0]
	for _, a := range actions {
		if a != nil {
			c.endActions = append(c.endActions, a)
		}
	}
	return c
}

// AddEndingAction appends an end-of-cycle action.
func (c *Context[T]) AddEndingAction(action func()) *Context[T] {
	if action != nil {
		c.endActions = append(c.endActions, action)
	}
	return c
}

// ClearEndingActions drops the regular end actions and listeners. The
// persistent action is kept.
func (c *Context[T]) ClearEndingActions() *Context[T] {
	c.endActions = nil
	c.listeners = nil
	return c
}

// SetPersistentAction sets an end action that survives ClearEndingActions.
func (c *Context[T]) SetPersistentAction(action func()) *Context[T] {
	c.persistent = action
	return c
}

// OnEnded registers a listener receiving the context when a cycle ends.
// Returns an unsubscribe function.
func (c *Context[T]) OnEnded(fn func(*Context[T])) func() {
	id := c.nextListener
	c.nextListener++
	c.listeners = append(c.listeners, listener[T]{id: id, fn: fn})
	return func() {
		c.listeners = slices.DeleteFunc(c.listeners, func(l listener[T]) bool { return l.id == id })
	}
}

// SetInvokeEventOnStop controls whether StopTween fires the end actions.
// Natural completion goes through StopTween too.
func (c *Context[T]) SetInvokeEventOnStop(invoke bool) *Context[T] {
	c.invokeOnStop = invoke
	return c
}

// SetInvokeEventOnRepeat controls whether end actions fire after every
// repeated cycle.
func (c *Context[T]) SetInvokeEventOnRepeat(invoke bool) *Context[T] {
	c.invokeOnRepeat = invoke
	return c
}

func (c *Context[T]) StartValue() T             { return c.start }
func (c *Context[T]) EndValue() T               { return c.end }
func (c *Context[T]) Duration() float64         { return c.duration }
func (c *Context[T]) Delay() float64            { return c.delay }
func (c *Context[T]) RepeatAmount() int         { return c.repeatAmount }
func (c *Context[T]) RepeatType() RepeatType    { return c.repeatType }
func (c *Context[T]) Ease() easing.Type         { return c.ease }
func (c *Context[T]) CustomCurve() easing.Curve { return c.curve }
func (c *Context[T]) UseUnclampedLerp() bool    { return c.unclamped }
func (c *Context[T]) Elapsed() float64          { return c.elapsed }
func (c *Context[T]) IsRunning() bool           { return c.running }
func (c *Context[T]) InvokeEventOnStop() bool   { return c.invokeOnStop }
func (c *Context[T]) InvokeEventOnRepeat() bool { return c.invokeOnRepeat }
func (c *Context[T]) ValueKind() interp.Kind    { return c.kind }
func (c *Context[T]) Scheduler() *Scheduler     { return c.sched }

// Reversed reports whether the current ping-pong cycle runs from end to
// start.
func (c *Context[T]) Reversed() bool { return c.reversed }

// TargetObj returns the attached target, or nil when it is optional.
func (c *Context[T]) TargetObj() Target { return c.target }

// TargetIsOptional reports whether no target is attached.
func (c *Context[T]) TargetIsOptional() bool { return c.target == nil }

// Validate commits staged changes and returns the first reason the
// context cannot run, or nil.
func (c *Context[T]) Validate() error {
	c.commit()
	switch {
	case !c.hasStart:
		return ErrMissingStart
	case !c.hasEnd:
		return ErrMissingEnd
	case c.setter == nil:
		return ErrMissingSetter
	case !c.built:
		return ErrNoTask
	case c.target != nil && !c.target.Alive():
		return ErrTargetGone
	}
	return nil
}

// ContextIsValid reports whether Validate finds nothing wrong.
func (c *Context[T]) ContextIsValid() bool {
	return c.Validate() == nil
}

// commit rebuilds the pipeline when changes are staged.
func (c *Context[T]) commit() {
	if c.dirty || (c.pipe == nil && c.lerp != nil) {
		c.rebuild()
	}
}

func (c *Context[T]) rebuild() {
	c.dirty = false
	if c.lerp == nil {
		c.pipe = nil
		return
	}
	curve := c.curve
	if curve == nil {
		curve = easing.Func(c.ease)
	}
	c.pipe = &pipeline[T]{curve: curve, unclamped: c.unclamped, lerp: c.lerp}
	c.built = true
	c.rebuilds++
}

func (c *Context[T]) report(op string, kind diag.Kind, err error) {
	diag.Report(c.sched.reporter, &diag.Error{Op: op, Kind: kind, Err: err, Value: c.valueName})
}

// policy reports conflicts that are otherwise ignored, only in diagnostic
// mode.
func (c *Context[T]) policy(op string, err error) {
	if c.sched.settings.DiagnosticMode() {
		c.report(op, diag.KindPolicy, err)
	}
}
