package sim

import (
	"github.com/san-kum/fizz/internal/metrics"
	"github.com/san-kum/fizz/internal/sph"
)

// Observer is notified after every completed step.
type Observer interface {
	OnStep(s *sph.Simulation)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s *sph.Simulation)

func (f ObserverFunc) OnStep(s *sph.Simulation) { f(s) }

type Config struct {
	Steps int
	// SampleEvery records a diagnostics row every n steps. The initial and
	// final states are always recorded.
	SampleEvery int
	// ValidateState stops the run at the first non-finite particle.
	ValidateState bool
}

type Result struct {
	Rows       []metrics.Row
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Final is the last recorded diagnostics row.
func (r *Result) Final() metrics.Row {
	if len(r.Rows) == 0 {
		return metrics.Row{}
	}
	return r.Rows[len(r.Rows)-1]
}
