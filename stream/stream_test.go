package stream

import (
	"sync"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/ledtween/diag"
	"github.com/matt-g-everett/ledtween/interp"
	"github.com/matt-g-everett/ledtween/tween"
)

// FakeClock provides controllable time for deterministic frame deltas.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeToken struct {
	mqtt.Token
	err     error
	timeout bool
}

func (t *fakeToken) Wait() bool                     { return !t.timeout }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return !t.timeout }
func (t *fakeToken) Error() error                   { return t.err }

type published struct {
	topic   string
	qos     byte
	payload []byte
}

type fakeBroker struct {
	token     *fakeToken
	published []published
	handlers  map[string]mqtt.MessageHandler
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{token: &fakeToken{}, handlers: map[string]mqtt.MessageHandler{}}
}

func (b *fakeBroker) Publish(topic string, qos byte, _ bool, payload interface{}) mqtt.Token {
	b.published = append(b.published, published{topic: topic, qos: qos, payload: payload.([]byte)})
	return b.token
}

func (b *fakeBroker) Subscribe(topic string, _ byte, callback mqtt.MessageHandler) mqtt.Token {
	b.handlers[topic] = callback
	return b.token
}

func (b *fakeBroker) deliver(topic, payload string) {
	b.handlers[topic](nil, &fakeMessage{topic: topic, payload: []byte(payload)})
}

type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m *fakeMessage) Topic() string   { return m.topic }
func (m *fakeMessage) Payload() []byte { return m.payload }

func newTestScheduler() (*tween.Scheduler, *diag.Recorder) {
	rec := &diag.Recorder{}
	return tween.NewScheduler(tween.WithReporter(rec), tween.WithLogger(diag.NewNop())), rec
}

// solid is an Animation showing one colour.
type solid struct {
	name            string
	colour          interp.Color
	pixels          int
	started, stopped int
}

func (s *solid) Name() string { return s.name }
func (s *solid) Start()       { s.started++ }
func (s *solid) Stop()        { s.stopped++ }

func (s *solid) CalculateFrame() *Frame {
	f := NewFrame(s.pixels)
	f.Fill(s.colour)
	return f
}

func ticks(s *tween.Scheduler, n int, delta float64) {
	for i := 0; i < n; i++ {
		s.Tick(delta)
	}
}

func newSchedulerWith(r diag.Reporter) *tween.Scheduler {
	return tween.NewScheduler(tween.WithReporter(r), tween.WithLogger(diag.NewNop()))
}
