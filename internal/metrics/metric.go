package metrics

import "github.com/san-kum/fizz/internal/sph"

// Metric accumulates one scalar over the course of a run.
type Metric interface {
	Name() string
	Observe(s *sph.Simulation)
	Value() float64
	Reset()
}

// Failer is implemented by metrics that can stop observing on an error.
type Failer interface {
	Err() error
}

// Standard returns a fresh set of the metrics recorded by every run.
func Standard() []Metric {
	return []Metric{
		NewKineticEnergy(),
		NewMeanDensity(),
		NewMaxSpeed(),
		NewDensitySpread(),
		NewMaxDivergence(),
	}
}
