package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/bhsim/internal/dynamo"
)

const (
	DefaultGenerator = "galaxy"
	DefaultParticles = 10000
	DefaultSteps     = 1000
	DefaultSeed      = 1
)

type Config struct {
	Generator      string      `yaml:"generator"`
	Particles      int         `yaml:"particles"`
	Seed           int64       `yaml:"seed"`
	Steps          int         `yaml:"steps"`
	Dt             float64     `yaml:"dt"`
	G              float64     `yaml:"g"`
	Theta          float64     `yaml:"theta"`
	Damping        float64     `yaml:"damping"`
	Bounds         dynamo.Rect `yaml:"bounds"`
	MaxDepth       int         `yaml:"max_depth"`
	ClosedBoundary bool        `yaml:"closed_boundary"`
	Workers        int         `yaml:"workers"`
	Trace          int         `yaml:"trace"`
	ValidateState  bool        `yaml:"validate_state"`
}

func DefaultConfig() *Config {
	p := dynamo.DefaultParams()
	return &Config{
		Generator:     DefaultGenerator,
		Particles:     DefaultParticles,
		Seed:          DefaultSeed,
		Steps:         DefaultSteps,
		Dt:            p.Dt,
		G:             p.G,
		Theta:         p.Theta,
		Damping:       p.Damping,
		Bounds:        p.Bounds,
		MaxDepth:      p.MaxDepth,
		Workers:       p.Workers,
		Trace:         p.TraceIndex,
		ValidateState: p.ValidateState,
	}
}

// Load reads path over base, so keys missing from the file keep base's
// values. A nil base means DefaultConfig.
func Load(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if base != nil {
		*cfg = *base
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

func (c Config) Params() dynamo.Params {
	return dynamo.Params{
		Dt:             c.Dt,
		G:              c.G,
		Theta:          c.Theta,
		Damping:        c.Damping,
		Bounds:         c.Bounds,
		MaxDepth:       c.MaxDepth,
		ClosedBoundary: c.ClosedBoundary,
		Workers:        c.Workers,
		TraceIndex:     c.Trace,
		ValidateState:  c.ValidateState,
	}
}

func (c Config) Validate() error {
	if c.Particles < 0 {
		return fmt.Errorf("%w: particles must be non-negative, got %d", dynamo.ErrParameterBounds, c.Particles)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", dynamo.ErrParameterBounds, c.Steps)
	}
	return c.Params().Validate()
}
