package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/san-kum/scramble/internal/scramble"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFPS    = 60
	DefaultTheme  = "orange"
	DefaultPreset = "hosting"

	// ReducedMotionEnv is honoured when neither flag nor file asks for it.
	ReducedMotionEnv = "REDUCE_MOTION"
)

type Config struct {
	FPS           int          `yaml:"fps"`
	Theme         string       `yaml:"theme"`
	Seed          uint64       `yaml:"seed"`
	ReducedMotion bool         `yaml:"reduced_motion"`
	Lines         []StepConfig `yaml:"steps"`
}

type StepConfig struct {
	ID       string   `yaml:"id,omitempty"`
	Text     string   `yaml:"text"`
	Chars    string   `yaml:"chars"`
	Duration float64  `yaml:"duration"`
	Speed    *float64 `yaml:"speed,omitempty"`
}

func DefaultConfig() *Config {
	cfg := &Config{
		FPS:   DefaultFPS,
		Theme: DefaultTheme,
	}
	if p := GetPreset(DefaultPreset); p != nil {
		cfg.Lines = p.Lines
	}
	return cfg
}

// Load reads path over the defaults. A file that lists steps replaces the
// default steps entirely.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Lines = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if len(cfg.Lines) == 0 {
		cfg.Lines = DefaultConfig().Lines
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Steps converts the configured lines, applying the default speed.
func (c *Config) Steps() []scramble.Step {
	steps := make([]scramble.Step, len(c.Lines))
	for i, l := range c.Lines {
		speed := scramble.DefaultSpeed
		if l.Speed != nil {
			speed = *l.Speed
		}
		steps[i] = scramble.Step{
			ID:       l.ID,
			Text:     l.Text,
			Chars:    l.Chars,
			Duration: time.Duration(l.Duration * float64(time.Second)),
			Speed:    speed,
		}
	}
	return steps
}

// Validate reports every problem in the file at once.
func (c *Config) Validate() error {
	var errs []error
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	if len(c.Lines) == 0 {
		errs = append(errs, scramble.ErrNoSteps)
	}
	for i, s := range c.Steps() {
		if err := s.Validate(); err != nil {
			errs = append(errs, &scramble.StepError{Index: i, ID: s.ID, Err: err})
		}
	}
	return errors.Join(errs...)
}

// FrameInterval is the tick period for the configured frame rate.
func (c *Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / DefaultFPS
	}
	return time.Second / time.Duration(c.FPS)
}

// ReducedMotionFromEnv reports whether the environment asks for reduced
// motion.
func ReducedMotionFromEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(ReducedMotionEnv))) {
	case "1", "true", "yes", "reduce":
		return true
	}
	return false
}

// ReducedMotionQuery combines the file setting with the environment. The
// environment is read on every call so a running player picks up changes.
func (c *Config) ReducedMotionQuery() func() bool {
	fixed := c.ReducedMotion
	return func() bool {
		return fixed || ReducedMotionFromEnv()
	}
}
