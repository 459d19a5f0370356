package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/fizz/internal/sph"
)

// Columns names the fields of Row.Values, in order.
var Columns = []string{"step", "time", "kinetic_energy", "mean_density", "max_density", "density_stddev", "max_speed"}

// Row is one diagnostics sample of a running simulation.
type Row struct {
	Step          int
	Time          float64
	KineticEnergy float64
	MeanDensity   float64
	MaxDensity    float64
	DensityStdDev float64
	MaxSpeed      float64
}

func (r Row) Values() []float64 {
	return []float64{float64(r.Step), r.Time, r.KineticEnergy, r.MeanDensity, r.MaxDensity, r.DensityStdDev, r.MaxSpeed}
}

// RowFromValues is the inverse of Row.Values.
func RowFromValues(v []float64) Row {
	var r Row
	if len(v) < len(Columns) {
		return r
	}
	return Row{
		Step:          int(v[0]),
		Time:          v[1],
		KineticEnergy: v[2],
		MeanDensity:   v[3],
		MaxDensity:    v[4],
		DensityStdDev: v[5],
		MaxSpeed:      v[6],
	}
}

// Sample takes a diagnostics row from the current simulation state.
func Sample(s *sph.Simulation) Row {
	p := s.Particles
	r := Row{
		Step:          s.Steps(),
		Time:          s.Time,
		KineticEnergy: TotalKineticEnergy(p),
		MaxSpeed:      PeakSpeed(p),
	}
	if p.Len() > 0 {
		r.MeanDensity = stat.Mean(p.Density, nil)
		r.MaxDensity = floats.Max(p.Density)
	}
	if p.Len() > 1 {
		r.DensityStdDev = stat.StdDev(p.Density, nil)
	}
	return r
}

// TotalKineticEnergy is the sum of m|v|^2/2 over all particles.
func TotalKineticEnergy(p *sph.Particles) float64 {
	e := make([]float64, p.Len())
	for i, v := range p.Velocity {
		e[i] = 0.5 * p.Mass[i] * v.NormSquared()
	}
	return floats.Sum(e)
}

// PeakSpeed is the largest particle speed, 0 with no particles.
func PeakSpeed(p *sph.Particles) float64 {
	if p.Len() == 0 {
		return 0
	}
	sq := make([]float64, p.Len())
	for i, v := range p.Velocity {
		sq[i] = v.NormSquared()
	}
	return math.Sqrt(floats.Max(sq))
}

// Column extracts one named column from rows.
func Column(rows []Row, name string) ([]float64, bool) {
	col := -1
	for i, c := range Columns {
		if c == name {
			col = i
		}
	}
	if col < 0 {
		return nil, false
	}
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Values()[col]
	}
	return out, true
}
