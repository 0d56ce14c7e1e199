package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/ledtween/diag"
	"github.com/matt-g-everett/ledtween/tween"
)

const publishTimeout = time.Second

// ErrTimeout is returned when the broker does not acknowledge in time.
var ErrTimeout = errors.New("mqtt operation timed out")

// Broker is the part of mqtt.Client the streamer uses.
type Broker interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
}

// FrameObserver is told when each frame started, after it was published.
type FrameObserver interface {
	ObserveFrame(start time.Time)
}

// Status is a snapshot of the streamer, safe to read from any goroutine.
type Status struct {
	Frames    uint64    `json:"frames"`
	Running   int       `json:"runningTweens"`
	TimeScale float64   `json:"timeScale"`
	Animation string    `json:"animation"`
	Fading    bool      `json:"fading"`
	LastFrame time.Time `json:"lastFrame"`
	LastError string    `json:"lastError,omitempty"`
}

// StreamerOption configures a Streamer.
type StreamerOption func(*Streamer)

// WithClock replaces the system clock.
func WithClock(c Clock) StreamerOption {
	return func(s *Streamer) { s.clock = c }
}

// WithFrameObserver records frame timings.
func WithFrameObserver(o FrameObserver) StreamerOption {
	return func(s *Streamer) { s.observer = o }
}

// WithLogger sets the streamer logger.
func WithLogger(l *slog.Logger) StreamerOption {
	return func(s *Streamer) { s.logger = l }
}

// Streamer that streams RGB data frames to an led strip over MQTT. It owns
// the scheduler tick; everything except Status, TimeScale, SetTimeScale
// and the control handler runs on the goroutine calling Run or Tick.
type Streamer struct {
	config     Config
	broker     Broker
	sched      *tween.Scheduler
	controller *Controller
	clock      Clock
	logger     *slog.Logger
	observer   FrameObserver

	last      time.Time
	frames    uint64
	timeScale atomic.Uint64
	status    atomic.Pointer[Status]
	cycle     chan struct{}
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(config Config, broker Broker, sched *tween.Scheduler, controller *Controller,
	opts ...StreamerOption) *Streamer {

	s := new(Streamer)
	s.config = config
	s.broker = broker
	s.sched = sched
	s.controller = controller
	s.clock = SystemClock()
	s.logger = slog.Default()
	s.cycle = make(chan struct{}, 1)
	for _, opt := range opts {
		opt(s)
	}
	s.SetTimeScale(1)
	s.status.Store(&Status{TimeScale: 1, Animation: controller.Current()})

	return s
}

// TimeScale returns the global time scale applied to every tween.
func (s *Streamer) TimeScale() float64 {
	return math.Float64frombits(s.timeScale.Load())
}

// SetTimeScale changes the global time scale. Zero freezes all tweens.
func (s *Streamer) SetTimeScale(scale float64) {
	s.timeScale.Store(math.Float64bits(scale))
}

// Status returns the latest snapshot.
func (s *Streamer) Status() Status {
	return *s.status.Load()
}

// Tick steps the scheduler by the time since the previous tick, renders
// the controller and publishes the frame.
func (s *Streamer) Tick() error {
	started := time.Now()
	now := s.clock.Now()
	delta := 0.0
	if !s.last.IsZero() {
		delta = now.Sub(s.last).Seconds()
	}
	s.last = now

	scale := s.TimeScale()
	s.sched.Step(tween.Frame{Delta: delta, TimeScale: scale})

	var err error
	if f := s.controller.CalculateFrame(); f != nil {
		err = s.SendFrame(f)
	}
	s.frames++

	status := &Status{
		Frames:    s.frames,
		Running:   s.sched.Len(),
		TimeScale: scale,
		Animation: s.controller.Current(),
		Fading:    s.controller.Transitioning(),
		LastFrame: now,
	}
	if err != nil {
		status.LastError = err.Error()
	}
	s.status.Store(status)
	if s.observer != nil {
		s.observer.ObserveFrame(started)
	}

	return err
}

// SendFrame sends a frame as binary over MQTT to an ledrx device.
func (s *Streamer) SendFrame(f *Frame) error {
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	token := s.broker.Publish(s.config.Mqtt.Topics.Stream, s.config.Mqtt.QoS, false, b)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: %w", s.config.Mqtt.Topics.Stream, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", s.config.Mqtt.Topics.Stream, err)
	}
	return nil
}

// Subscribe listens on the control topic. Call it from the client's
// connect handler so the subscription survives reconnects.
func (s *Streamer) Subscribe() error {
	topic := s.config.Mqtt.Topics.Control
	if topic == "" {
		return nil
	}
	token := s.broker.Subscribe(topic, s.config.Mqtt.QoS, s.handleControl)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("subscribe %s: %w", topic, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	s.logger.Info("subscribed", "topic", topic)
	return nil
}

// handleControl runs on the MQTT client's goroutine. A number sets the
// time scale, "next" requests the next animation.
func (s *Streamer) handleControl(_ mqtt.Client, msg mqtt.Message) {
	payload := strings.TrimSpace(string(msg.Payload()))
	if strings.EqualFold(payload, "next") {
		select {
		case s.cycle <- struct{}{}:
		default:
		}
		return
	}
	scale, err := strconv.ParseFloat(payload, 64)
	if err != nil || math.IsNaN(scale) || math.IsInf(scale, 0) {
		s.logger.Warn("ignoring control message", "topic", msg.Topic(), "payload", payload)
		return
	}
	s.SetTimeScale(scale)
	s.logger.Info("time scale changed", "timeScale", scale)
}

// Run causes the Streamer to send Frames continuously until ctx is done,
// cycling animations every AnimationTime.
func (s *Streamer) Run(ctx context.Context) error {
	publishTimer := time.NewTicker(s.config.FramePeriod())
	defer publishTimer.Stop()
	cycleTimer := time.NewTicker(s.config.Strip.AnimationTime)
	defer cycleTimer.Stop()

	s.controller.Start()
	defer s.controller.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-publishTimer.C:
			s.safeTick()
		case <-cycleTimer.C:
			s.controller.CycleAnimation()
		case <-s.cycle:
			s.controller.CycleAnimation()
		}
	}
}

func (s *Streamer) safeTick() {
	defer diag.Recover(s.sched.Reporter(), "stream.Tick", nil)
	if err := s.Tick(); err != nil {
		s.logger.Warn("frame not sent", "error", err)
	}
}
