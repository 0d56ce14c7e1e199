package stream

import (
	"math"

	"github.com/matt-g-everett/ledtween/easing"
	"github.com/matt-g-everett/ledtween/tween"
)

// A GradientTrail is an Animation that cycles a gradient along an led strip.
type GradientTrail struct {
	sched       *tween.Scheduler
	gradient    GradientTable
	numPixels   int
	trailLength int
	period      float64
	reverse     bool
	chroma      float64
	luminance   float64

	current float64
	tween   *tween.Context[float64]
}

// NewGradientTrail creates an instance of a GradientTrail object. The
// gradient repeats every trailLength pixels and moves one trail length
// every period seconds.
func NewGradientTrail(sched *tween.Scheduler, gradient GradientTable, numPixels, trailLength int,
	period float64, reverse bool) *GradientTrail {

	g := new(GradientTrail)
	g.sched = sched
	g.gradient = gradient
	g.numPixels = numPixels
	g.trailLength = max(trailLength, 1)
	g.period = period
	g.reverse = reverse
	g.chroma = 1.0
	g.luminance = 0.05

	start, end := 0.0, 1.0
	if reverse {
		start, end = end, start
	}
	g.tween = tween.New(sched, start, end, period, func(v float64) { g.current = v }).
		SetEase(easing.Linear).
		SetRepeatType(tween.RepeatReset).
		SetRepeatAmount(-1)

	return g
}

func (g *GradientTrail) Name() string { return "gradienttrail" }

func (g *GradientTrail) Start() { g.tween.StartTween() }

func (g *GradientTrail) Stop() { g.tween.StopTween() }

// CalculateFrame creates a new Frame instance.
func (g *GradientTrail) CalculateFrame() *Frame {
	f := NewFrame(g.numPixels)
	length := float64(g.trailLength)
	for i := 0; i < g.numPixels; i++ {
		t := math.Mod(float64(i)/length+g.current, 1)
		f.Set(i, g.gradient.GetColor(t, g.chroma, g.luminance))
	}

	return f
}
