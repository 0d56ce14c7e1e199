package stream

import (
	"log/slog"

	"github.com/matt-g-everett/ledtween/easing"
	"github.com/matt-g-everett/ledtween/tween"
)

// Controller that manages animations. It cross-fades from the current
// animation to the next with a scalar tween whose ending action promotes
// the next animation.
type Controller struct {
	logger        *slog.Logger
	animations    []Animation
	index         int
	animation     Animation
	nextAnimation Animation
	transition    float64
	fade          *tween.Context[float64]
}

// NewController creates an instance of a Controller cycling through
// animations in order. transitionSecs is the cross-fade duration.
func NewController(sched *tween.Scheduler, logger *slog.Logger, transitionSecs float64,
	animations ...Animation) *Controller {

	c := new(Controller)
	if logger == nil {
		logger = slog.Default()
	}
	c.logger = logger
	c.animations = animations
	if len(animations) > 0 {
		c.animation = animations[0]
	}
	c.fade = tween.New(sched, 0.0, 1.0, transitionSecs, func(v float64) { c.transition = v }).
		SetEase(easing.InOutSine).
		SetEndingAction(c.promote)

	return c
}

// Start starts the first animation.
func (c *Controller) Start() {
	if c.animation != nil {
		c.animation.Start()
	}
}

// Stop finishes any fade and stops the current animation.
func (c *Controller) Stop() {
	c.fade.StopTween()
	if c.animation != nil {
		c.animation.Stop()
	}
}

// Current returns the name of the animation being shown, or of the one
// being faded to.
func (c *Controller) Current() string {
	switch {
	case c.nextAnimation != nil:
		return c.nextAnimation.Name()
	case c.animation != nil:
		return c.animation.Name()
	}
	return ""
}

// Transitioning reports whether a cross-fade is running.
func (c *Controller) Transitioning() bool { return c.nextAnimation != nil }

// CycleAnimation starts a cross-fade to the next animation. It is ignored
// while a fade is already running.
func (c *Controller) CycleAnimation() {
	if c.nextAnimation != nil || len(c.animations) < 2 {
		return
	}
	c.index = (c.index + 1) % len(c.animations)
	c.nextAnimation = c.animations[c.index]
	c.transition = 0
	c.logger.Info("cycling animation", "from", c.animation.Name(), "to", c.nextAnimation.Name())
	c.nextAnimation.Start()
	c.fade.StartTween()
}

func (c *Controller) promote() {
	if c.nextAnimation == nil {
		return
	}
	c.animation.Stop()
	c.animation = c.nextAnimation
	c.nextAnimation = nil
	c.transition = 0
}

// CalculateFrame renders the current animation, blended with the next one
// during a fade. It returns nil when there is nothing to show.
func (c *Controller) CalculateFrame() *Frame {
	if c.animation == nil {
		return nil
	}
	f := c.animation.CalculateFrame()
	if c.nextAnimation != nil {
		f = f.InterpolateFrame(c.nextAnimation.CalculateFrame(), c.transition)
	}

	return f
}
