package sim

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/san-kum/fizz/internal/metrics"
	"github.com/san-kum/fizz/internal/sph"
)

// Runner drives a simulation for a fixed number of steps, feeding metrics
// and observers along the way.
type Runner struct {
	metrics   []metrics.Metric
	observers []Observer
	logger    *log.Logger
}

func New(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{logger: logger}
}

func (r *Runner) AddMetric(m metrics.Metric) { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)     { r.observers = append(r.observers, o) }

// Run advances s cfg.Steps times. Cancellation is checked between steps; a
// step in progress always completes. On cancellation the partial result is
// returned with ctx.Err().
func (r *Runner) Run(ctx context.Context, s *sph.Simulation, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Rows:    make([]metrics.Row, 0, cfg.Steps/cfg.SampleEvery+2),
		Metrics: make(map[string]float64),
	}
	for _, m := range r.metrics {
		m.Reset()
	}

	result.Rows = append(result.Rows, metrics.Sample(s))
	r.logger.Info("run started", "particles", s.Particles.Len(), "steps", cfg.Steps)

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			r.collect(result)
			return result, ctx.Err()
		default:
		}

		s.AdvanceTimestep()
		result.StepsTaken++

		if cfg.ValidateState {
			if p, ok := firstInvalid(s.Particles); !ok {
				err := &SimulationError{Step: s.Steps(), Time: s.Time, Particle: p, Wrapped: ErrInvalidState}
				result.Errors = append(result.Errors, err)
				r.logger.Warn("run stopped", "err", err)
				break
			}
		}

		for _, m := range r.metrics {
			m.Observe(s)
		}
		for _, obs := range r.observers {
			obs.OnStep(s)
		}
		if (i+1)%cfg.SampleEvery == 0 || i+1 == cfg.Steps {
			result.Rows = append(result.Rows, metrics.Sample(s))
		}
	}

	r.collect(result)
	r.logger.Info("run finished", "steps", result.StepsTaken, "time", s.Time)
	return result, nil
}

// RunWithCallback steps until cfg.Steps is reached or fn returns false.
func (r *Runner) RunWithCallback(ctx context.Context, s *sph.Simulation, cfg Config, fn func(*sph.Simulation) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !fn(s) {
			return nil
		}
		s.AdvanceTimestep()
		if cfg.ValidateState {
			if p, ok := firstInvalid(s.Particles); !ok {
				return &SimulationError{Step: s.Steps(), Time: s.Time, Particle: p, Wrapped: ErrInvalidState}
			}
		}
	}
	return nil
}

func (r *Runner) collect(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
		if f, ok := m.(metrics.Failer); ok && f.Err() != nil {
			r.logger.Warn("metric failed", "metric", m.Name(), "err", f.Err())
		}
	}
}

func validateConfig(cfg Config) error {
	if cfg.Steps < 0 {
		return fmt.Errorf("%w: steps must not be negative, got %d", ErrInvalidConfig, cfg.Steps)
	}
	if cfg.SampleEvery <= 0 {
		return fmt.Errorf("%w: sample interval must be positive, got %d", ErrInvalidConfig, cfg.SampleEvery)
	}
	return nil
}

// firstInvalid reports the first particle with a non-finite position or
// velocity; ok is true when there is none.
func firstInvalid(p *sph.Particles) (int, bool) {
	for i := range p.Position {
		if !p.Position[i].IsFinite() || !p.Velocity[i].IsFinite() {
			return i, false
		}
	}
	return -1, true
}
