package stream

// An Animation renders frames from the values its tweens produce. Start
// schedules the tweens and Stop removes them; CalculateFrame only reads
// the current values.
type Animation interface {
	Name() string
	Start()
	Stop()
	CalculateFrame() *Frame
}
