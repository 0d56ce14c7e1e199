package stream

import (
	"math"
	"math/rand"
	"slices"

	"github.com/fogleman/ease"
	"github.com/matt-g-everett/ledtween/easing"
	"github.com/matt-g-everett/ledtween/interp"
	"github.com/matt-g-everett/ledtween/tween"
)

type streakParticle struct {
	position float64
	move     *tween.Context[float64]
}

// gain fades the streak in over the first half of its run and out over
// the second.
func (p *streakParticle) gain() float64 {
	d := math.Min(math.Max(p.move.Elapsed(), 0), 1) * 2
	if d > 1 {
		d = 2 - d
	}
	return ease.InOutQuad(d)
}

// A Streak is an Animation that creates streaks across the tree that fade in then out.
type Streak struct {
	sched        *tween.Scheduler
	numPixels    int
	backColour   interp.Color
	colour       interp.Color
	streakChance int32
	length       float64
	speed        float64

	active    bool
	particles []*streakParticle
}

// NewStreak creates an instance of a Streak object. A streak spawns on
// average once every streakChance frames and travels speed pixels per
// second.
func NewStreak(sched *tween.Scheduler, numPixels int, streakChance int32, colour, backColour interp.Color,
	length, speed float64) *Streak {

	s := new(Streak)
	s.sched = sched
	s.numPixels = numPixels
	s.streakChance = max(streakChance, 1)
	s.colour = colour
	s.backColour = backColour
	s.length = length
	s.speed = speed

	return s
}

func (s *Streak) Name() string { return "streak" }

// Alive lets the scheduler drop streak tweens once the animation stops.
func (s *Streak) Alive() bool { return s.active }

func (s *Streak) Start() { s.active = true }

func (s *Streak) Stop() {
	s.active = false
	s.sched.StopTarget(s)
	s.particles = nil
}

// spawn starts a streak that runs from just before the strip to past its
// end and removes itself when done.
func (s *Streak) spawn() {
	p := new(streakParticle)
	p.position = -s.length
	distance := float64(s.numPixels) + s.length
	p.move = tween.New(s.sched, -s.length, float64(s.numPixels), distance/s.speed, func(v float64) {
		p.position = v
	}).
		SetEase(easing.Linear).
		SetTarget(s).
		SetEndingAction(func() {
			s.particles = slices.DeleteFunc(s.particles, func(o *streakParticle) bool { return o == p })
		})
	p.move.StartTween()
	s.particles = append(s.particles, p)
}

// CalculateFrame creates a new Frame instance.
func (s *Streak) CalculateFrame() *Frame {
	f := NewFrame(s.numPixels)
	f.Fill(s.backColour)

	for _, p := range s.particles {
		bias := p.gain()
		start := int(math.Ceil(p.position))
		end := int(math.Floor(p.position + s.length))
		for i := max(start, 0); i <= end && i < s.numPixels; i++ {
			c := f.At(i)
			f.Set(i, interp.Color{Color: c.BlendHcl(s.colour.Color, bias).Clamped(), A: 1})
		}
	}

	if s.active && s.speed > 0 && rand.Int31n(s.streakChance) == 0 {
		// Create a new particle
		s.spawn()
	}

	return f
}
