package sph

import (
	"fmt"

	"github.com/san-kum/fizz/internal/base"
)

// Particles holds the particle state as parallel slices. All six slices
// always have the same length.
type Particles struct {
	Mass     []float64
	Density  []float64
	Pressure []float64

	Position []base.Vec
	Velocity []base.Vec
	Force    []base.Vec
}

// NewParticles allocates n zeroed particles.
func NewParticles(n int) *Particles {
	return &Particles{
		Mass:     make([]float64, n),
		Density:  make([]float64, n),
		Pressure: make([]float64, n),
		Position: make([]base.Vec, n),
		Velocity: make([]base.Vec, n),
		Force:    make([]base.Vec, n),
	}
}

func (p *Particles) Len() int { return len(p.Mass) }

// Add appends one particle at rest state (zero density, pressure and force).
func (p *Particles) Add(mass float64, position, velocity base.Vec) {
	p.Mass = append(p.Mass, mass)
	p.Density = append(p.Density, 0)
	p.Pressure = append(p.Pressure, 0)
	p.Position = append(p.Position, position)
	p.Velocity = append(p.Velocity, velocity)
	p.Force = append(p.Force, base.Vec{})
}

// Validate checks that every slice has the same length.
func (p *Particles) Validate() error {
	n := len(p.Mass)
	lens := map[string]int{
		"density":  len(p.Density),
		"pressure": len(p.Pressure),
		"position": len(p.Position),
		"velocity": len(p.Velocity),
		"force":    len(p.Force),
	}
	for name, l := range lens {
		if l != n {
			return fmt.Errorf("%w: %s has %d entries, mass has %d", ErrParticleCount, name, l, n)
		}
	}
	return nil
}

func (p *Particles) Clone() *Particles {
	return &Particles{
		Mass:     append([]float64(nil), p.Mass...),
		Density:  append([]float64(nil), p.Density...),
		Pressure: append([]float64(nil), p.Pressure...),
		Position: append([]base.Vec(nil), p.Position...),
		Velocity: append([]base.Vec(nil), p.Velocity...),
		Force:    append([]base.Vec(nil), p.Force...),
	}
}
