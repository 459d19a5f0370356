package metrics

import (
	"fmt"
	"math"

	"github.com/san-kum/fizz/internal/base"
	"github.com/san-kum/fizz/internal/field"
	"github.com/san-kum/fizz/internal/sph"
)

// MaxDivergence samples the particle velocities onto the neighbor grid and
// records the largest cell divergence seen. Once sampling fails the metric
// stops observing, reads NaN and reports the cause through Err.
type MaxDivergence struct {
	name    string
	peak    float64
	sampler *field.Sampler
	err     error
}

func NewMaxDivergence() *MaxDivergence {
	return &MaxDivergence{name: "max_divergence"}
}

func (m *MaxDivergence) Name() string { return m.name }

func (m *MaxDivergence) Observe(s *sph.Simulation) {
	m.observe(s.Grid(), s.Params.H, s.Particles)
}

func (m *MaxDivergence) observe(g base.Grid, h float64, p *sph.Particles) {
	if m.err != nil {
		return
	}
	if m.sampler == nil || m.sampler.Grid != g || m.sampler.H != h {
		sampler, err := field.NewSampler(g, h)
		if err != nil {
			m.err = fmt.Errorf("%s: sampler: %w", m.name, err)
			return
		}
		m.sampler = sampler
	}
	m.sampler.Sample(p)
	div, err := field.Divergence(m.sampler.Velocity, g)
	if err != nil {
		m.err = fmt.Errorf("%s: divergence: %w", m.name, err)
		return
	}
	if v := field.MaxAbs(div); v > m.peak {
		m.peak = v
	}
}

func (m *MaxDivergence) Value() float64 {
	if m.err != nil {
		return math.NaN()
	}
	return m.peak
}

func (m *MaxDivergence) Err() error { return m.err }

func (m *MaxDivergence) Reset() {
	m.peak = 0
	m.err = nil
}
