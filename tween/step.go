package tween

import (
	"math"

	"github.com/matt-g-everett/ledtween/diag"
	"github.com/matt-g-everett/ledtween/easing"
	"github.com/matt-g-everett/ledtween/interp"
)

// phase is the position of a context inside its stepping loop.
//
//	StartTween ──► startup ──► delay ──► interpolate ──► finish
//	                  ▲                                    │
//	                  └────────────── repeat ──────────────┘
type phase uint8

const (
	phaseIdle phase = iota
	// phaseStartup marks the frame boundary after StartTween or a repeat;
	// the next step arms the delay.
	phaseStartup
	phaseDelay
	phaseInterpolate
)

// StartTween schedules the context. Starting a running context stops it
// first, so it is never registered twice. An invalid context is reported
// and stays idle.
func (c *Context[T]) StartTween() {
	c.commit()
	if c.running {
		c.StopTween()
	}
	if err := c.Validate(); err != nil {
		c.report("tween.StartTween", diag.KindInvalid, err)
		return
	}

	c.gen++
	c.elapsed = 0
	c.delayLeft = 0
	c.reversed = false
	c.phase = phaseStartup
	c.running = true
	c.armedAt = c.sched.frames
	c.sched.add(c)
	c.sched.debug("tween started", "value", c.valueName, "duration", c.duration,
		"delay", c.delay, "repeat", c.repeatAmount, "repeatType", c.repeatType.String())
}

// StopTween removes the context from the scheduler. When
// InvokeEventOnStop is set, end actions fire: regular actions, then the
// persistent action, then OnEnded listeners. This happens for explicit
// stops and for natural completion alike.
//
// Stopping a context whose task was never built is reported and ignored.
// Stopping an idle context fires nothing.
func (c *Context[T]) StopTween() {
	c.stop(false)
}

func (c *Context[T]) stop(completed bool) {
	if !c.built {
		c.report("tween.StopTween", diag.KindUsage, ErrNoTask)
		return
	}
	c.reversed = false
	if !c.running {
		c.phase = phaseIdle
		return
	}
	c.running = false
	c.phase = phaseIdle
	c.sched.remove(c, completed)
	c.sched.debug("tween stopped", "value", c.valueName, "completed", completed)
	if c.invokeOnStop {
		c.fireEnded()
	}
}

// halt stops without firing anything, used when a running context turns
// invalid.
func (c *Context[T]) halt() {
	c.running = false
	c.reversed = false
	c.phase = phaseIdle
	c.sched.remove(c, false)
}

func (c *Context[T]) fireEnded() {
	for _, action := range append([]func(){}, c.endActions...) {
		action()
	}
	if c.persistent != nil {
		c.persistent()
	}
	for _, l := range append([]listener[T]{}, c.listeners...) {
		l.fn(c)
	}
}

// advance runs the context until its next suspension point.
func (c *Context[T]) advance(f Frame) {
	if !c.running || c.armedAt == c.sched.frames {
		return
	}
	if err := c.Validate(); err != nil {
		c.report("tween.step", diag.KindInvalid, err)
		c.halt()
		return
	}

	for c.running {
		switch c.phase {
		case phaseStartup:
			c.phase = phaseInterpolate
			if c.delay > 0 {
				c.delayLeft = c.delay
				c.phase = phaseDelay
			}
		case phaseDelay:
			if f.TimeScale <= 0 {
				return
			}
			c.delayLeft -= f.Scaled()
			if c.delayLeft > 0 {
				return
			}
			// time left over after the delay counts towards the cycle; a
			// delay ending on the frame boundary leaves nothing to sample
			carry := -c.delayLeft
			c.delayLeft = 0
			c.phase = phaseInterpolate
			if carry > 0 {
				c.interpolate(carry)
			}
			return
		case phaseInterpolate:
			if f.TimeScale <= 0 {
				return
			}
			c.interpolate(f.Scaled())
			return
		default:
			return
		}
	}
}

func (c *Context[T]) interpolate(dt float64) {
	if c.duration > 0 {
		c.elapsed += dt / c.duration
	} else {
		c.elapsed = math.Inf(1)
	}
	if c.elapsed <= 1 {
		c.setter(c.sample(c.elapsed))
		return
	}
	c.finishCycle()
}

// sample maps elapsed onto a value. Reversed ping-pong cycles read the
// curve backwards so the return trip mirrors the outbound one.
func (c *Context[T]) sample(elapsed float64) T {
	p := c.pipe
	if c.reversed {
		elapsed = 1 - elapsed
	}
	progress := easing.Apply(p.curve, elapsed, !p.unclamped)
	return interp.Lerp(p.lerp, c.start, c.end, progress, p.unclamped)
}

func (c *Context[T]) endpoint() T {
	if c.reversed {
		return c.start
	}
	return c.end
}

func (c *Context[T]) finishCycle() {
	gen := c.gen
	c.setter(c.endpoint())
	if !c.running || c.gen != gen {
		return
	}

	if c.repeatAmount == 0 {
		c.stop(true)
		return
	}

	if c.invokeOnRepeat {
		c.fireEnded()
		if !c.running || c.gen != gen {
			return
		}
	}
	if c.repeatAmount > 0 {
		c.repeatAmount--
	}
	if c.repeatType == RepeatPingPong {
		c.reversed = !c.reversed
	}
	c.elapsed = 0
	c.phase = phaseStartup
	c.sched.repeated(c)
	c.sched.debug("tween repeating", "value", c.valueName, "remaining", c.repeatAmount,
		"reversed", c.reversed)
}
