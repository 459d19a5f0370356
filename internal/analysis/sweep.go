package analysis

import (
	"context"
	"fmt"

	"github.com/san-kum/fizz/internal/config"
	"github.com/san-kum/fizz/internal/metrics"
	"github.com/san-kum/fizz/internal/sim"
)

// SweepPoint is the final value of a diagnostic for one parameter value.
type SweepPoint struct {
	Param float64
	Value float64
}

// Sweep reruns cfg with param stepped evenly over [from, to] and records
// the named diagnostics column at the end of every run.
func Sweep(ctx context.Context, cfg *config.Config, param string, from, to float64, n int, column string) ([]SweepPoint, error) {
	if n < 2 {
		n = 2
	}
	step := (to - from) / float64(n-1)

	points := make([]SweepPoint, 0, n)
	for i := 0; i < n; i++ {
		c := *cfg
		ptr, ok := c.Params.Lookup(param)
		if !ok {
			return nil, fmt.Errorf("analysis: unknown parameter %q", param)
		}
		*ptr = from + float64(i)*step

		s, err := c.NewSimulation()
		if err != nil {
			return nil, fmt.Errorf("analysis: %s=%g: %w", param, *ptr, err)
		}
		res, err := sim.New(nil).Run(ctx, s, sim.Config{Steps: c.Steps, SampleEvery: max(1, c.Steps)})
		if err != nil {
			return nil, err
		}
		col, ok := metrics.Column([]metrics.Row{res.Final()}, column)
		if !ok {
			return nil, fmt.Errorf("analysis: unknown column %q", column)
		}
		points = append(points, SweepPoint{Param: *ptr, Value: col[0]})
	}
	return points, nil
}
