package stream

import (
	"math/rand"

	"github.com/matt-g-everett/ledtween/easing"
	"github.com/matt-g-everett/ledtween/interp"
	"github.com/matt-g-everett/ledtween/tween"
)

type particle struct {
	index  int
	colour interp.Color
	tween  *tween.Context[interp.Color]
}

// A Twinkle is an Animation that twinkles random particles. Each particle
// ping-pongs between the back and fore colours forever and jumps to a new
// pixel whenever it has faded out again.
type Twinkle struct {
	sched        *tween.Scheduler
	numPixels    int
	numParticles int
	foreColour   interp.Color
	backColour   interp.Color
	duration     float64

	active    bool
	particles []*particle
}

// NewTwinkle creates an instance of a Twinkle object. duration is the
// fade-in time of a single twinkle in seconds.
func NewTwinkle(sched *tween.Scheduler, numPixels, numParticles int, foreColour, backColour interp.Color,
	duration float64) *Twinkle {

	t := new(Twinkle)
	t.sched = sched
	t.numPixels = numPixels
	t.numParticles = min(numParticles, numPixels)
	t.foreColour = foreColour
	t.backColour = backColour
	t.duration = duration

	return t
}

func (t *Twinkle) Name() string { return "twinkle" }

// Alive lets the scheduler drop particle tweens once the twinkle stops.
func (t *Twinkle) Alive() bool { return t.active }

// Start scatters the particles and starts their tweens.
func (t *Twinkle) Start() {
	if t.active {
		return
	}
	t.active = true
	t.particles = make([]*particle, t.numParticles)
	for i, index := range rand.Perm(t.numPixels)[:t.numParticles] {
		p := &particle{index: index, colour: t.backColour}
		p.tween = tween.New(t.sched, t.backColour, t.foreColour, t.duration, func(c interp.Color) {
			p.colour = c
		}).
			SetEase(easing.InOutQuad).
			SetRepeatType(tween.RepeatPingPong).
			SetRepeatAmount(-1).
			SetRandomDelay(0, t.duration*2).
			SetTarget(t).
			SetInvokeEventOnRepeat(true).
			SetEndingAction(func() { t.relocate(p) })
		p.tween.StartTween()
		t.particles[i] = p
	}
}

// relocate runs after every cycle; only a particle that has just faded
// back out moves.
func (t *Twinkle) relocate(p *particle) {
	if !p.tween.IsRunning() || !p.tween.Reversed() {
		return
	}
	p.index = rand.Intn(t.numPixels)
	p.tween.SetRandomDelay(0, t.duration*2)
}

// Stop removes every particle tween from the scheduler.
func (t *Twinkle) Stop() {
	t.active = false
	t.sched.StopTarget(t)
}

// CalculateFrame creates a new Frame instance.
func (t *Twinkle) CalculateFrame() *Frame {
	f := NewFrame(t.numPixels)
	f.Fill(t.backColour)
	for _, p := range t.particles {
		f.Set(p.index, p.colour)
	}

	return f
}
