package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fizz/internal/base"
	"github.com/san-kum/fizz/internal/sph"
)

const (
	DefaultSteps       = 500
	DefaultSampleEvery = 10
	// DefaultSpacing is the initial particle spacing as a fraction of h.
	DefaultSpacing = 0.6
)

// Config describes one simulation run: the solver parameters, how the
// particles start out, and how long to run.
type Config struct {
	Name        string         `yaml:"name"`
	Params      sph.Parameters `yaml:"params"`
	Scenario    Scenario       `yaml:"scenario"`
	Steps       int            `yaml:"steps"`
	SampleEvery int            `yaml:"sample_every"`
}

func DefaultConfig() *Config {
	params := sph.DefaultParameters()
	fill := base.Splat(0.3)
	fill[1] = 0.6
	return &Config{
		Name:   "dam_break",
		Params: params,
		Scenario: Scenario{
			Kind:    KindDamBreak,
			Fill:    fill,
			Spacing: DefaultSpacing * params.H,
		},
		Steps:       DefaultSteps,
		SampleEvery: DefaultSampleEvery,
	}
}

// Load reads a YAML config over DefaultConfig. Files ending in .ini, .gcfg
// or .cfg are read with LoadINI instead.
func Load(path string) (*Config, error) {
	if isINI(path) {
		return LoadINI(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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

// NewSimulation lays out the scenario's particles and builds a simulation
// from them. Params.NumParticles is set from the generated particles.
func (c *Config) NewSimulation(opts ...sph.Option) (*sph.Simulation, error) {
	parts, err := c.Scenario.Particles(c.Params)
	if err != nil {
		return nil, err
	}
	params := c.Params
	params.NumParticles = parts.Len()
	return sph.NewSimulation(params, parts, opts...)
}
