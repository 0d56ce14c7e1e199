package tween

import (
	"fmt"
	"strings"

	"github.com/matt-g-everett/ledtween/easing"
)

// RepeatType selects what happens when a repeating tween finishes a cycle.
type RepeatType int

const (
	// RepeatReset restarts every cycle from the start value.
	RepeatReset RepeatType = iota
	// RepeatPingPong runs every other cycle backwards, from end to start.
	RepeatPingPong
)

func (r RepeatType) String() string {
	switch r {
	case RepeatReset:
		return "Reset"
	case RepeatPingPong:
		return "PingPong"
	default:
		return fmt.Sprintf("RepeatType(%d)", int(r))
	}
}

// ParseRepeatType resolves a repeat type name, ignoring case.
func ParseRepeatType(name string) (RepeatType, error) {
	switch strings.ToLower(name) {
	case "reset":
		return RepeatReset, nil
	case "pingpong", "ping-pong":
		return RepeatPingPong, nil
	}
	return RepeatReset, fmt.Errorf("tween: unknown repeat type %q", name)
}

// MarshalYAML writes the repeat type by name.
func (r RepeatType) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

// UnmarshalYAML reads the repeat type by name.
func (r *RepeatType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParseRepeatType(name)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Settings is the read-only configuration the engine consumes.
type Settings interface {
	DefaultEaseType() easing.Type
	DefaultRepeatType() RepeatType
	// DiagnosticMode enables verbose logging and policy-conflict reports.
	DiagnosticMode() bool
}

type defaultSettings struct{}

func (defaultSettings) DefaultEaseType() easing.Type  { return easing.Linear }
func (defaultSettings) DefaultRepeatType() RepeatType { return RepeatReset }
func (defaultSettings) DiagnosticMode() bool          { return false }

// DefaultSettings returns linear easing, reset repeats and diagnostics off.
func DefaultSettings() Settings { return defaultSettings{} }
