// Package metrics exports tween scheduler activity to Prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/matt-g-everett/ledtween/tween"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ledtween"

// Tweens is a tween.Observer recording lifecycle counters.
type Tweens struct {
	Started   *prometheus.CounterVec
	Stopped   *prometheus.CounterVec
	Repeated  *prometheus.CounterVec
	Frames    prometheus.Counter
	Running   prometheus.Gauge
	FrameTime prometheus.Histogram
}

var _ tween.Observer = (*Tweens)(nil)

// New creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func New(reg prometheus.Registerer) *Tweens {
	m := &Tweens{
		Started: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tweens_started_total",
				Help:      "Tweens started, by value kind.",
			},
			[]string{"kind"},
		),
		Stopped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tweens_stopped_total",
				Help:      "Tweens removed from the scheduler, by value kind and whether they ran to completion.",
			},
			[]string{"kind", "completed"},
		),
		Repeated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tween_repeats_total",
				Help:      "Repeat cycles started, by value kind.",
			},
			[]string{"kind"},
		),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames stepped by the scheduler.",
		}),
		Running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tweens_running",
			Help:      "Tweens currently registered with the scheduler.",
		}),
		FrameTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Time spent stepping and rendering one frame.",
			Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Started, m.Stopped, m.Repeated, m.Frames, m.Running, m.FrameTime)
	}
	return m
}

func (m *Tweens) TweenStarted(t tween.Tween) {
	m.Started.WithLabelValues(t.ValueKind().String()).Inc()
	m.Running.Inc()
}

func (m *Tweens) TweenStopped(t tween.Tween, completed bool) {
	m.Stopped.WithLabelValues(t.ValueKind().String(), strconv.FormatBool(completed)).Inc()
	m.Running.Dec()
}

func (m *Tweens) TweenRepeated(t tween.Tween) {
	m.Repeated.WithLabelValues(t.ValueKind().String()).Inc()
}

// FrameStepped resyncs the running gauge with the registry.
func (m *Tweens) FrameStepped(running int) {
	m.Frames.Inc()
	m.Running.Set(float64(running))
}

// ObserveFrame records how long a frame took since start.
func (m *Tweens) ObserveFrame(start time.Time) {
	m.FrameTime.Observe(time.Since(start).Seconds())
}
