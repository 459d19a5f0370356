package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/fizz/internal/sph"
)

// MeanDensity averages the mean particle density over all observations.
type MeanDensity struct {
	name    string
	sum     float64
	samples int
}

func NewMeanDensity() *MeanDensity {
	return &MeanDensity{name: "mean_density"}
}

func (m *MeanDensity) Name() string { return m.name }

func (m *MeanDensity) Observe(s *sph.Simulation) {
	if s.Particles.Len() == 0 {
		return
	}
	m.sum += stat.Mean(s.Particles.Density, nil)
	m.samples++
}

func (m *MeanDensity) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanDensity) Reset() {
	m.sum = 0
	m.samples = 0
}

// DensitySpread is the standard deviation of particle density at the last
// observation. An incompressible fluid keeps it small.
type DensitySpread struct {
	name    string
	current float64
}

func NewDensitySpread() *DensitySpread {
	return &DensitySpread{name: "density_stddev"}
}

func (d *DensitySpread) Name() string { return d.name }

func (d *DensitySpread) Observe(s *sph.Simulation) {
	if s.Particles.Len() < 2 {
		d.current = 0
		return
	}
	d.current = stat.StdDev(s.Particles.Density, nil)
}

func (d *DensitySpread) Value() float64 { return d.current }

func (d *DensitySpread) Reset() { d.current = 0 }
