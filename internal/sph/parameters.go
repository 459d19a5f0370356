package sph

import (
	"fmt"

	"github.com/san-kum/fizz/internal/base"
)

// Parameters are the user-tunable constants of a simulation. They must not
// change while a step is running.
type Parameters struct {
	NumParticles int `yaml:"num_particles" json:"num_particles"`

	// DeltaTime is the timestep.
	DeltaTime float64 `yaml:"delta_time" json:"delta_time"`
	// H is the smoothing kernel radius.
	H float64 `yaml:"h" json:"h"`
	// RestDensity is the density of the fluid without any forces.
	RestDensity float64 `yaml:"rest_density" json:"rest_density"`
	// K is the gas constant of the equation of state.
	K float64 `yaml:"k" json:"k"`
	// Mu is the viscosity constant.
	Mu      float64  `yaml:"mu" json:"mu"`
	Gravity base.Vec `yaml:"gravity" json:"gravity"`

	// VelocityDamping scales the reflected velocity at the boundary.
	VelocityDamping float64              `yaml:"velocity_damping" json:"velocity_damping"`
	Domain          base.Range[base.Vec] `yaml:"domain" json:"domain"`

	// Workers > 1 splits the per-particle stages across goroutines.
	Workers int `yaml:"workers,omitempty" json:"workers,omitempty"`
}

func DefaultParameters() Parameters {
	return Parameters{
		DeltaTime:       0.01,
		H:               0.04,
		RestDensity:     1000,
		K:               4,
		Mu:              8,
		Gravity:         base.Axis(1, -1),
		VelocityDamping: 0.8,
		Domain:          base.NewRange(base.Splat(0), base.Splat(3)),
	}
}

func (p Parameters) Validate() error {
	if !(p.H > 0) {
		return fmt.Errorf("%w: h must be positive, got %g", ErrInvalidParameters, p.H)
	}
	if !(p.DeltaTime > 0) {
		return fmt.Errorf("%w: delta_time must be positive, got %g", ErrInvalidParameters, p.DeltaTime)
	}
	if p.NumParticles < 0 {
		return fmt.Errorf("%w: num_particles must not be negative, got %d", ErrInvalidParameters, p.NumParticles)
	}
	if p.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidParameters, p.Workers)
	}
	if p.Domain.Empty() || !p.Domain.Min.IsFinite() || !p.Domain.Max.IsFinite() {
		return fmt.Errorf("%w: domain %v is degenerate", ErrInvalidParameters, p.Domain)
	}
	return nil
}

// Tunable lists the scalar parameters that may be edited between steps,
// keyed by their YAML names, in display order.
func (p *Parameters) Tunable() []NamedValue {
	return []NamedValue{
		{"delta_time", &p.DeltaTime},
		{"h", &p.H},
		{"rest_density", &p.RestDensity},
		{"k", &p.K},
		{"mu", &p.Mu},
		{"velocity_damping", &p.VelocityDamping},
	}
}

// NamedValue is a named pointer into a parameter set.
type NamedValue struct {
	Name  string
	Value *float64
}

// Lookup finds a tunable parameter by name.
func (p *Parameters) Lookup(name string) (*float64, bool) {
	for _, nv := range p.Tunable() {
		if nv.Name == name {
			return nv.Value, true
		}
	}
	return nil, false
}
