// Package settings holds the engine-wide defaults read by every tween.
package settings

import (
	"fmt"

	"github.com/matt-g-everett/ledtween/easing"
	"github.com/matt-g-everett/ledtween/tween"
	"gopkg.in/yaml.v2"
)

// Settings is the YAML-backed tween.Settings implementation. The engine
// only reads it.
type Settings struct {
	DefaultEase   easing.Type      `yaml:"defaultEase"`
	DefaultRepeat tween.RepeatType `yaml:"defaultRepeatType"`
	Diagnostic    bool             `yaml:"diagnosticMode"`
}

var _ tween.Settings = Settings{}

// Default returns linear easing, reset repeats and diagnostics off.
func Default() Settings {
	return Settings{
		DefaultEase:   easing.Linear,
		DefaultRepeat: tween.RepeatReset,
	}
}

// Parse reads settings from YAML. Missing keys keep their defaults.
func Parse(data []byte) (Settings, error) {
	s := Default()
	if err := yaml.UnmarshalStrict(data, &s); err != nil {
		return Default(), fmt.Errorf("settings: %w", err)
	}
	return s, nil
}

func (s Settings) DefaultEaseType() easing.Type        { return s.DefaultEase }
func (s Settings) DefaultRepeatType() tween.RepeatType { return s.DefaultRepeat }
func (s Settings) DiagnosticMode() bool                { return s.Diagnostic }
