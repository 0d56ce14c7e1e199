package stream

import (
	"fmt"
	"os"
	"time"

	"github.com/matt-g-everett/ledtween/settings"
	"gopkg.in/yaml.v2"
)

// Config is the host application configuration.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientId"`
		QoS      byte   `yaml:"qos"`
		Topics   struct {
			Stream  string `yaml:"stream"`
			Control string `yaml:"control"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Strip struct {
		Pixels         int           `yaml:"pixels"`
		FrameRate      float64       `yaml:"frameRate"`
		AnimationTime  time.Duration `yaml:"animationTime"`
		TransitionTime time.Duration `yaml:"transitionTime"`
	} `yaml:"strip"`
	Api struct {
		Addr      string `yaml:"addr"`
		StaticDir string `yaml:"staticDir"`
	} `yaml:"api"`
	Tween    settings.Settings `yaml:"tween"`
	LogLevel string            `yaml:"logLevel"`
}

// DefaultConfig returns the configuration used for keys a file leaves out.
func DefaultConfig() Config {
	var c Config
	c.Mqtt.ClientID = "ledtween"
	c.Mqtt.QoS = 2
	c.Mqtt.Topics.Stream = "home/xmastree/stream"
	c.Mqtt.Topics.Control = "home/xmastree/control"
	c.Strip.Pixels = 500
	c.Strip.FrameRate = 30
	c.Strip.AnimationTime = 5 * time.Minute
	c.Strip.TransitionTime = 5 * time.Second
	c.Api.Addr = ":3000"
	c.Api.StaticDir = "client/dist"
	c.Tween = settings.Default()
	c.LogLevel = "info"
	return c
}

// ParseConfig decodes YAML on top of DefaultConfig and validates it.
func ParseConfig(data []byte) (Config, error) {
	c := DefaultConfig()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// LoadConfig reads and parses the YAML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// Validate checks the values the streamer cannot run without.
func (c Config) Validate() error {
	switch {
	case c.Strip.Pixels <= 0 || c.Strip.Pixels > 0xffff:
		return fmt.Errorf("config: strip.pixels must be in [1, 65535], got %d", c.Strip.Pixels)
	case c.Strip.FrameRate <= 0:
		return fmt.Errorf("config: strip.frameRate must be positive, got %g", c.Strip.FrameRate)
	case c.Strip.AnimationTime <= 0:
		return fmt.Errorf("config: strip.animationTime must be positive")
	case c.Mqtt.QoS > 2:
		return fmt.Errorf("config: mqtt.qos must be 0, 1 or 2, got %d", c.Mqtt.QoS)
	case c.Mqtt.Topics.Stream == "":
		return fmt.Errorf("config: mqtt.topics.stream is required")
	}
	return nil
}

// FramePeriod returns the time between frames.
func (c Config) FramePeriod() time.Duration {
	return time.Duration(float64(time.Second) / c.Strip.FrameRate)
}
