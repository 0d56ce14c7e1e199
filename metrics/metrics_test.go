package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/matt-g-everett/ledtween/diag"
	"github.com/matt-g-everett/ledtween/interp"
	"github.com/matt-g-everett/ledtween/tween"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserverCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	s := tween.NewScheduler(tween.WithObserver(m), tween.WithLogger(diag.NewNop()))

	a := tween.New(s, 0.0, 1.0, 0.5, func(float64) {}).SetRepeatAmount(1)
	b := tween.New(s, interp.RGBA(0, 0, 0, 1), interp.RGBA(1, 1, 1, 1), 10, func(interp.Color) {})
	a.StartTween()
	b.StartTween()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Running))

	for i := 0; i < 4; i++ {
		s.Tick(0.5)
	}
	b.StopTween()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Started.WithLabelValues("scalar")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Started.WithLabelValues("color")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Repeated.WithLabelValues("scalar")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Stopped.WithLabelValues("scalar", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Stopped.WithLabelValues("color", "false")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.Frames))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Running))
}

func TestRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.FrameStepped(3)
	m.ObserveFrame(time.Now().Add(-time.Millisecond))

	expected := `
# HELP ledtween_tweens_running Tweens currently registered with the scheduler.
# TYPE ledtween_tweens_running gauge
ledtween_tweens_running 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "ledtween_tweens_running"))
	assert.Equal(t, 1, testutil.CollectAndCount(m.FrameTime))
}

func TestNilRegisterer(t *testing.T) {
	assert.NotPanics(t, func() { New(nil).FrameStepped(1) })
}
