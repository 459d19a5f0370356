package config

import (
	"sort"

	"github.com/san-kum/fizz/internal/base"
	"github.com/san-kum/fizz/internal/sph"
)

// Presets maps a scenario kind to its named configurations.
var Presets = map[string]map[string]*Config{
	KindDamBreak: {
		"classic": damBreak(base.Splat(0.3), 0),
		"tall":    damBreak(tallColumn(), 0),
		"noisy":   damBreak(base.Splat(0.3), 0.2),
	},
	KindBlock: {
		"centre": block(base.Splat(0.35), base.Splat(0.65)),
		"floor":  block(base.Splat(0), floorSlab()),
	},
	KindDrop: {
		"splash": drop(base.Axis(1, -2)),
		"throw":  drop(base.Axis(0, 1.5)),
	},
}

func unitParams() sph.Parameters {
	p := sph.DefaultParameters()
	p.Domain = base.NewRange(base.Splat(0), base.Splat(1))
	return p
}

func tallColumn() base.Vec {
	v := base.Splat(0.25)
	v[1] = 0.8
	return v
}

func floorSlab() base.Vec {
	v := base.Splat(1)
	v[1] = 0.2
	return v
}

func damBreak(fill base.Vec, jitter float64) *Config {
	p := unitParams()
	return &Config{
		Name:   KindDamBreak,
		Params: p,
		Scenario: Scenario{
			Kind: KindDamBreak, Fill: fill, Spacing: DefaultSpacing * p.H, Jitter: jitter, Seed: 1,
		},
		Steps: 1000, SampleEvery: DefaultSampleEvery,
	}
}

func block(lo, hi base.Vec) *Config {
	p := unitParams()
	return &Config{
		Name:   KindBlock,
		Params: p,
		Scenario: Scenario{
			Kind: KindBlock, Min: lo, Max: hi, Spacing: DefaultSpacing * p.H,
		},
		Steps: 500, SampleEvery: DefaultSampleEvery,
	}
}

func drop(vel base.Vec) *Config {
	p := unitParams()
	return &Config{
		Name:   KindDrop,
		Params: p,
		Scenario: Scenario{
			Kind: KindDrop, Min: base.Splat(0.35), Max: base.Splat(0.65), Velocity: vel, Spacing: DefaultSpacing * p.H,
		},
		Steps: 800, SampleEvery: DefaultSampleEvery,
	}
}

// GetPreset returns a copy of the named preset, or nil if there is none.
func GetPreset(kind, preset string) *Config {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

// ListPresets returns the preset names for kind in sorted order.
func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Kinds returns the scenario kinds that have presets, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(Presets))
	for k := range Presets {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
