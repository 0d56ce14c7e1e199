package stream

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/matt-g-everett/ledtween/diag"
	"github.com/matt-g-everett/ledtween/interp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frameTimes struct{ n int }

func (f *frameTimes) ObserveFrame(time.Time) { f.n++ }

func newTestStreamer(t *testing.T, anims ...Animation) (*Streamer, *fakeBroker, *FakeClock) {
	t.Helper()
	sched, _ := newTestScheduler()
	if len(anims) == 0 {
		anims = []Animation{NewGradientTrail(sched, RainbowGradient, 10, 10, 2, false)}
	}
	cfg := DefaultConfig()
	cfg.Strip.Pixels = 10
	broker := newFakeBroker()
	clock := NewFakeClock()
	ctrl := NewController(sched, diag.NewNop(), 1, anims...)
	s := NewStreamer(cfg, broker, sched, ctrl, WithClock(clock), WithLogger(diag.NewNop()))
	return s, broker, clock
}

func TestTickPublishesFrame(t *testing.T) {
	obs := &frameTimes{}
	s, broker, clock := newTestStreamer(t)
	WithFrameObserver(obs)(s)
	s.controller.Start()

	require.NoError(t, s.Tick())
	clock.Advance(500 * time.Millisecond)
	require.NoError(t, s.Tick())

	require.Len(t, broker.published, 2)
	msg := broker.published[1]
	assert.Equal(t, "home/xmastree/stream", msg.topic)
	assert.Equal(t, byte(2), msg.qos)
	require.Len(t, msg.payload, 2+10*3)
	assert.Equal(t, uint16(10), binary.LittleEndian.Uint16(msg.payload))

	trail := s.controller.animation.(*GradientTrail)
	assert.InDelta(t, 0.25, trail.current, 1e-9, "first tick has no delta")

	st := s.Status()
	assert.Equal(t, uint64(2), st.Frames)
	assert.Equal(t, 1, st.Running)
	assert.Equal(t, "gradienttrail", st.Animation)
	assert.Equal(t, 1.0, st.TimeScale)
	assert.Equal(t, clock.Now(), st.LastFrame)
	assert.Empty(t, st.LastError)
	assert.Equal(t, 2, obs.n)
}

func TestTimeScaleFromControlTopic(t *testing.T) {
	s, broker, clock := newTestStreamer(t)
	require.NoError(t, s.Subscribe())
	s.controller.Start()
	trail := s.controller.animation.(*GradientTrail)

	require.NoError(t, s.Tick())
	broker.deliver("home/xmastree/control", " 0 ")
	assert.Equal(t, 0.0, s.TimeScale())

	clock.Advance(time.Second)
	require.NoError(t, s.Tick())
	assert.Equal(t, 0.0, trail.current, "time scale 0 freezes tweens")

	broker.deliver("home/xmastree/control", "2")
	clock.Advance(250 * time.Millisecond)
	require.NoError(t, s.Tick())
	assert.InDelta(t, 0.25, trail.current, 1e-9)
	assert.Equal(t, 2.0, s.Status().TimeScale)

	broker.deliver("home/xmastree/control", "fast")
	broker.deliver("home/xmastree/control", "NaN")
	assert.Equal(t, 2.0, s.TimeScale())
}

func TestNextCommandQueuesCycle(t *testing.T) {
	a := &solid{name: "a", pixels: 10}
	b := &solid{name: "b", pixels: 10}
	s, broker, _ := newTestStreamer(t, a, b)
	require.NoError(t, s.Subscribe())

	broker.deliver("home/xmastree/control", "next")
	broker.deliver("home/xmastree/control", "NEXT")
	assert.Len(t, s.cycle, 1)
}

func TestPublishErrors(t *testing.T) {
	s, broker, _ := newTestStreamer(t)
	s.controller.Start()

	broker.token.err = errors.New("not connected")
	err := s.Tick()
	require.Error(t, err)
	assert.Contains(t, s.Status().LastError, "not connected")

	broker.token.err = nil
	broker.token.timeout = true
	assert.ErrorIs(t, s.Tick(), ErrTimeout)
	assert.ErrorIs(t, s.Subscribe(), ErrTimeout)
}

func TestSubscribeWithoutControlTopic(t *testing.T) {
	s, broker, _ := newTestStreamer(t)
	s.config.Mqtt.Topics.Control = ""
	require.NoError(t, s.Subscribe())
	assert.Empty(t, broker.handlers)
}

func TestRunStopsOnCancel(t *testing.T) {
	a := &solid{name: "a", colour: interp.RGBA(1, 1, 1, 1), pixels: 10}
	s, _, _ := newTestStreamer(t, a)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, a.started)
	assert.Equal(t, 1, a.stopped)
}

func TestSafeTickRecoversPanics(t *testing.T) {
	s, _, _ := newTestStreamer(t, &panicky{})
	rec := &diag.Recorder{}
	s.sched = newSchedulerWith(rec)

	assert.NotPanics(t, s.safeTick)
	assert.Equal(t, 1, rec.Count(diag.KindPanic))
}

type panicky struct{ solid }

func (p *panicky) CalculateFrame() *Frame { panic("render failed") }
