package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config represents the render configuration
type Config struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	Bounces         int     `yaml:"bounces"`
	Chunk           int     `yaml:"chunk"`
	SamplesPerBlock int     `yaml:"samples_per_block"`
	RayEpsilon      float32 `yaml:"ray_epsilon"`
	ParallelEpsilon float32 `yaml:"parallel_epsilon"`
	Workers         int     `yaml:"workers"` // 0 means one per cpu
	Seed            int64   `yaml:"seed"`
	Exposure        float32 `yaml:"exposure"`
	ToneMap         string  `yaml:"tone_map"` // clamp, reinhard
	Frames          int     `yaml:"frames"`
	Scheduler       string  `yaml:"scheduler"` // naive, perfect
	LogLevel        string  `yaml:"log_level"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		Width:           512,
		Height:          512,
		Bounces:         3,
		Chunk:           10,
		SamplesPerBlock: 1,
		RayEpsilon:      0.01,
		ParallelEpsilon: 1e-7,
		Workers:         0,
		Seed:            1,
		Exposure:        1.0,
		ToneMap:         "clamp",
		Frames:          64,
		Scheduler:       "perfect",
		LogLevel:        "notice",
	}
}

// Load reads a yaml configuration file on top of the defaults. Unknown keys
// are rejected.
func Load(filePath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("config: could not read %s: %w", filePath, err)
	}

	if err = yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("config: error parsing %s: %w", filePath, err)
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a file.
func (cfg *Config) Save(filePath string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: error serializing config: %w", err)
	}

	if err = os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("config: error writing %s: %w", filePath, err)
	}
	return nil
}

// Validate checks that all settings are within range.
func (cfg *Config) Validate() error {
	switch {
	case cfg.Width <= 0 || cfg.Height <= 0:
		return fmt.Errorf("%w: frame dimensions must be positive; got %dx%d", ErrInvalidConfig, cfg.Width, cfg.Height)
	case cfg.Bounces < 0:
		return fmt.Errorf("%w: bounces must not be negative; got %d", ErrInvalidConfig, cfg.Bounces)
	case cfg.Chunk <= 0:
		return fmt.Errorf("%w: chunk must be positive; got %d", ErrInvalidConfig, cfg.Chunk)
	case cfg.SamplesPerBlock <= 0:
		return fmt.Errorf("%w: samples_per_block must be positive; got %d", ErrInvalidConfig, cfg.SamplesPerBlock)
	case !(cfg.RayEpsilon > 0):
		return fmt.Errorf("%w: ray_epsilon must be positive; got %g", ErrInvalidConfig, cfg.RayEpsilon)
	case !(cfg.ParallelEpsilon > 0):
		return fmt.Errorf("%w: parallel_epsilon must be positive; got %g", ErrInvalidConfig, cfg.ParallelEpsilon)
	case cfg.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative; got %d", ErrInvalidConfig, cfg.Workers)
	case !(cfg.Exposure > 0):
		return fmt.Errorf("%w: exposure must be positive; got %g", ErrInvalidConfig, cfg.Exposure)
	case cfg.Frames <= 0:
		return fmt.Errorf("%w: frames must be positive; got %d", ErrInvalidConfig, cfg.Frames)
	}

	switch cfg.ToneMap {
	case "clamp", "reinhard":
	default:
		return fmt.Errorf("%w: unsupported tone_map %q", ErrInvalidConfig, cfg.ToneMap)
	}

	switch cfg.Scheduler {
	case "naive", "perfect":
	default:
		return fmt.Errorf("%w: unsupported scheduler %q", ErrInvalidConfig, cfg.Scheduler)
	}

	return nil
}
