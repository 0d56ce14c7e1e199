package tween

import (
	"bytes"
	"testing"

	"github.com/matt-g-everett/ledtween/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	started, stopped, completed, repeated int
	frames                                []int
}

func (o *recordingObserver) TweenStarted(Tween) { o.started++ }

func (o *recordingObserver) TweenStopped(_ Tween, completed bool) {
	o.stopped++
	if completed {
		o.completed++
	}
}

func (o *recordingObserver) TweenRepeated(Tween)      { o.repeated++ }
func (o *recordingObserver) FrameStepped(running int) { o.frames = append(o.frames, running) }

type node struct{ alive bool }

func (n *node) Alive() bool { return n.alive }

func TestFrameScaled(t *testing.T) {
	assert.Equal(t, 0.5, NewFrame(0.5).Scaled())
	assert.Equal(t, 1.0, Frame{Delta: 0.5, TimeScale: 2}.Scaled())
	assert.Equal(t, 0.0, Frame{Delta: 0.5, TimeScale: 0}.Scaled())
	assert.Equal(t, 0.0, Frame{Delta: 0.5, TimeScale: -3}.Scaled())
}

func TestRegistryMembershipFollowsRunning(t *testing.T) {
	s, _ := newTestScheduler()
	a := New(s, 0.0, 1.0, 1, func(float64) {})
	b := New(s, 0.0, 1.0, 0.5, func(float64) {})

	a.StartTween()
	b.StartTween()
	running := s.Running()
	require.Len(t, running, 2)
	assert.Same(t, a, running[0].(*Context[float64]))
	assert.Same(t, b, running[1].(*Context[float64]))

	steps(s, 2, 0.5)
	assert.False(t, b.IsRunning())
	assert.Equal(t, []Tween{a}, s.Running())

	steps(s, 1, 0.5)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, uint64(3), s.FrameCount())
}

func TestStartedDuringFrameWaitsForNextFrame(t *testing.T) {
	s, _ := newTestScheduler()
	late := &sink[float64]{}
	b := New(s, 0.0, 10.0, 1, late.set)
	a := New(s, 0.0, 1.0, 0, func(float64) {}).
		SetEndingAction(func() { b.StartTween() })

	a.StartTween()
	steps(s, 1, 0.5)
	assert.True(t, b.IsRunning())
	assert.Empty(t, late.values)

	steps(s, 1, 0.5)
	assert.Equal(t, []float64{5}, late.values)
}

func TestStartedBetweenFramesStepsNextFrame(t *testing.T) {
	s, _ := newTestScheduler()
	steps(s, 3, 0.5)

	out := &sink[float64]{}
	New(s, 0.0, 10.0, 1, out.set).StartTween()
	steps(s, 1, 0.5)
	assert.Equal(t, []float64{5}, out.values)
}

func TestStopDuringFrameSkipsLaterTween(t *testing.T) {
	s, _ := newTestScheduler()
	second := &sink[float64]{}
	b := New(s, 0.0, 10.0, 1, second.set)
	a := New(s, 0.0, 1.0, 1, func(float64) { b.StopTween() })

	a.StartTween()
	b.StartTween()
	steps(s, 1, 0.5)
	assert.Empty(t, second.values)
	assert.Equal(t, 1, s.Len())
}

func TestStopAll(t *testing.T) {
	s, _ := newTestScheduler()
	ended := 0
	for i := 0; i < 4; i++ {
		New(s, 0.0, 1.0, 1, func(float64) {}).
			SetEndingAction(func() { ended++ }).
			StartTween()
	}
	require.Equal(t, 4, s.Len())

	s.StopAll()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 4, ended)
}

func TestStopTarget(t *testing.T) {
	s, _ := newTestScheduler()
	lamp := &node{alive: true}
	other := &node{alive: true}

	a := New(s, 0.0, 1.0, 1, func(float64) {}).SetTarget(lamp)
	b := New(s, 0.0, 1.0, 1, func(float64) {}).SetTarget(lamp)
	c := New(s, 0.0, 1.0, 1, func(float64) {}).SetTarget(other)
	d := New(s, 0.0, 1.0, 1, func(float64) {}).SetTarget(TargetFunc(func() bool { return true }))
	for _, tw := range []Tween{a, b, c, d} {
		tw.StartTween()
	}

	assert.Equal(t, 2, s.StopTarget(lamp))
	assert.Equal(t, 0, s.StopTarget(nil))
	assert.Equal(t, 0, s.StopTarget(TargetFunc(func() bool { return true })))
	assert.Equal(t, []Tween{c, d}, s.Running())
}

func TestObserverHooks(t *testing.T) {
	obs := &recordingObserver{}
	s, _ := newTestScheduler(WithObserver(obs))

	a := New(s, 0.0, 1.0, 0.5, func(float64) {}).SetRepeatAmount(1)
	b := New(s, 0.0, 1.0, 10, func(float64) {})
	a.StartTween()
	b.StartTween()
	assert.Equal(t, 2, obs.started)

	steps(s, 4, 0.5)
	b.StopTween()

	assert.Equal(t, 1, obs.repeated)
	assert.Equal(t, 2, obs.stopped)
	assert.Equal(t, 1, obs.completed)
	assert.Equal(t, []int{2, 2, 2, 1}, obs.frames)
}

func TestDiagnosticModeLogsLifecycle(t *testing.T) {
	var buf bytes.Buffer
	logger := diag.NewLoggerTo(&buf, diag.ParseLevel("debug"))
	s, _ := newTestScheduler(
		WithSettings(testSettings{diagnostic: true}),
		WithLogger(logger),
	)

	New(s, 0.0, 1.0, 0, func(float64) {}).StartTween()
	steps(s, 1, 0.1)

	out := buf.String()
	assert.Contains(t, out, "tween started")
	assert.Contains(t, out, "tween stopped")
	assert.Contains(t, out, "value=float64")
}

func TestQuietOutsideDiagnosticMode(t *testing.T) {
	var buf bytes.Buffer
	logger := diag.NewLoggerTo(&buf, diag.ParseLevel("debug"))
	s, _ := newTestScheduler(WithLogger(logger))

	New(s, 0.0, 1.0, 0, func(float64) {}).StartTween()
	steps(s, 1, 0.1)
	assert.Empty(t, buf.String())
}

func TestDefaultReporterLogs(t *testing.T) {
	var buf bytes.Buffer
	s := NewScheduler(WithLogger(diag.NewLoggerTo(&buf, diag.ParseLevel("info"))))

	New[float64](s, 0, 1, 1, nil).StartTween()
	assert.Contains(t, buf.String(), "tween error")
	assert.Contains(t, buf.String(), "kind=invalid")
}
