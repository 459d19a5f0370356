package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/san-kum/fizz/internal/base"
)

// iniFile is the INI form of a Config. Vectors are multi-valued variables,
// one line per component:
//
//	[params]
//	gravity = 0
//	gravity = -9.8
//
// Anything left out keeps its DefaultConfig value.
type iniFile struct {
	Run struct {
		Name        string
		Steps       int
		SampleEvery int `gcfg:"sample-every"`
	}
	Params struct {
		DeltaTime       float64 `gcfg:"delta-time"`
		H               float64
		RestDensity     float64 `gcfg:"rest-density"`
		K               float64
		Mu              float64
		VelocityDamping float64 `gcfg:"velocity-damping"`
		Workers         int
		Gravity         []float64
		DomainMin       []float64 `gcfg:"domain-min"`
		DomainMax       []float64 `gcfg:"domain-max"`
	}
	Scenario struct {
		Kind     string
		Min      []float64
		Max      []float64
		Fill     []float64
		Velocity []float64
		Spacing  float64
		Mass     float64
		Jitter   float64
		Seed     int64
	}
}

func isINI(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".gcfg", ".cfg":
		return true
	}
	return false
}

// LoadINI reads a config in INI syntax over DefaultConfig.
func LoadINI(path string) (*Config, error) {
	cfg := DefaultConfig()

	var f iniFile
	f.Run.Name = cfg.Name
	f.Run.Steps = cfg.Steps
	f.Run.SampleEvery = cfg.SampleEvery
	p := &cfg.Params
	f.Params.DeltaTime, f.Params.H, f.Params.RestDensity = p.DeltaTime, p.H, p.RestDensity
	f.Params.K, f.Params.Mu, f.Params.VelocityDamping = p.K, p.Mu, p.VelocityDamping
	f.Params.Workers = p.Workers
	sc := &cfg.Scenario
	f.Scenario.Kind, f.Scenario.Spacing, f.Scenario.Mass = sc.Kind, sc.Spacing, sc.Mass
	f.Scenario.Jitter, f.Scenario.Seed = sc.Jitter, sc.Seed

	if err := gcfg.ReadFileInto(&f, path); err != nil {
		return nil, err
	}

	cfg.Name = f.Run.Name
	cfg.Steps = f.Run.Steps
	cfg.SampleEvery = f.Run.SampleEvery
	p.DeltaTime, p.H, p.RestDensity = f.Params.DeltaTime, f.Params.H, f.Params.RestDensity
	p.K, p.Mu, p.VelocityDamping = f.Params.K, f.Params.Mu, f.Params.VelocityDamping
	p.Workers = f.Params.Workers
	sc.Kind, sc.Spacing, sc.Mass = f.Scenario.Kind, f.Scenario.Spacing, f.Scenario.Mass
	sc.Jitter, sc.Seed = f.Scenario.Jitter, f.Scenario.Seed

	vectors := []struct {
		name string
		src  []float64
		dst  *base.Vec
	}{
		{"params.gravity", f.Params.Gravity, &p.Gravity},
		{"params.domain-min", f.Params.DomainMin, &p.Domain.Min},
		{"params.domain-max", f.Params.DomainMax, &p.Domain.Max},
		{"scenario.min", f.Scenario.Min, &sc.Min},
		{"scenario.max", f.Scenario.Max, &sc.Max},
		{"scenario.fill", f.Scenario.Fill, &sc.Fill},
		{"scenario.velocity", f.Scenario.Velocity, &sc.Velocity},
	}
	for _, v := range vectors {
		if len(v.src) == 0 {
			continue
		}
		if len(v.src) != base.Dim {
			return nil, fmt.Errorf("config: %s has %d components, want %d", v.name, len(v.src), base.Dim)
		}
		copy(v.dst[:], v.src)
	}
	return cfg, nil
}
