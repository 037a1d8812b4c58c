// Package config holds the tunable knobs of the event core, loadable
// from a yaml file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/odvcencio/fluffyui/runtime"
)

// Config tunes the event loop and input pipeline.
type Config struct {
	// FrameRate is the target frames per second.
	FrameRate int `yaml:"frame_rate"`
	// EventSlice is the fraction of each frame spent dispatching
	// events (0 < EventSlice <= 1).
	EventSlice float64 `yaml:"event_slice"`
	// QueueCapacity bounds the total queued event count.
	QueueCapacity int `yaml:"queue_capacity"`
	// ResizeDebounce is the coalescing window for resize bursts.
	ResizeDebounce time.Duration `yaml:"resize_debounce"`
	// MouseDebounce is the coalescing window for mouse motion.
	MouseDebounce time.Duration `yaml:"mouse_debounce"`
	// EscapeTimeout disambiguates a lone Escape press from the start
	// of an escape sequence.
	EscapeTimeout time.Duration `yaml:"escape_timeout"`
}

// Default returns the stock tuning.
func Default() Config {
	return Config{
		FrameRate:      runtime.DefaultFrameRate,
		EventSlice:     runtime.DefaultEventSlice,
		QueueCapacity:  runtime.DefaultQueueCapacity,
		ResizeDebounce: runtime.DefaultResizeDebounce,
		MouseDebounce:  runtime.DefaultMotionDebounce,
		EscapeTimeout:  5 * time.Millisecond,
	}
}

// Load reads a yaml config file, filling unset fields with defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects unusable tunings.
func (c Config) Validate() error {
	if c.FrameRate <= 0 || c.FrameRate > 240 {
		return fmt.Errorf("frame_rate %d out of range (1-240)", c.FrameRate)
	}
	if c.EventSlice <= 0 || c.EventSlice > 1 {
		return fmt.Errorf("event_slice %v out of range (0-1]", c.EventSlice)
	}
	if c.QueueCapacity <= 0 {
		return fmt.Errorf("queue_capacity must be positive, got %d", c.QueueCapacity)
	}
	if c.ResizeDebounce < 0 || c.MouseDebounce < 0 {
		return fmt.Errorf("debounce windows must be non-negative")
	}
	if c.EscapeTimeout <= 0 {
		return fmt.Errorf("escape_timeout must be positive, got %v", c.EscapeTimeout)
	}
	return nil
}

// Options converts the config into runtime options.
func (c Config) Options() []runtime.Option {
	return []runtime.Option{
		runtime.WithFrameRate(c.FrameRate),
		runtime.WithEventSlice(c.EventSlice),
		runtime.WithQueueCapacity(c.QueueCapacity),
		runtime.WithDebounce(c.ResizeDebounce, c.MouseDebounce),
		runtime.WithEscapeTimeout(c.EscapeTimeout),
	}
}
