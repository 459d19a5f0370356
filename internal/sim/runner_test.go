package sim

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/san-kum/fizz/internal/base"
	"github.com/san-kum/fizz/internal/metrics"
	"github.com/san-kum/fizz/internal/sph"
)

func dropSim(t *testing.T, seed int64) *sph.Simulation {
	t.Helper()
	p := sph.DefaultParameters()
	p.H = 0.1
	p.Mu = 0
	p.Domain = base.NewRange(base.Splat(0), base.Splat(1))

	parts := sph.NewParticles(0)
	x := base.Splat(0.5)
	x[0] += float64(seed) * 0.01
	parts.Add(1, x, base.Vec{})
	p.NumParticles = 1

	s, err := sph.NewSimulation(p, parts)
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	return s
}

func TestRunnerRun(t *testing.T) {
	s := dropSim(t, 0)
	r := New(nil)
	r.AddMetric(metrics.NewMaxSpeed())

	var seen int
	r.AddObserver(ObserverFunc(func(*sph.Simulation) { seen++ }))

	result, err := r.Run(context.Background(), s, Config{Steps: 10, SampleEvery: 4})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 10 || s.Steps() != 10 || seen != 10 {
		t.Errorf("expected 10 steps, got taken=%d sim=%d observed=%d", result.StepsTaken, s.Steps(), seen)
	}
	// initial, 4, 8, and the final step
	if len(result.Rows) != 4 {
		t.Errorf("expected 4 rows, got %d", len(result.Rows))
	}
	if result.Final().Step != 10 {
		t.Errorf("expected final row at step 10, got %d", result.Final().Step)
	}
	if math.Abs(result.Final().Time-0.1) > 1e-12 {
		t.Errorf("expected final time 0.1, got %f", result.Final().Time)
	}

	if v, ok := result.Metrics["max_speed"]; !ok || v <= 0 {
		t.Errorf("expected a positive max speed under gravity, got %f", v)
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	r := New(nil)
	s := dropSim(t, 0)

	for _, cfg := range []Config{{Steps: -1, SampleEvery: 1}, {Steps: 1, SampleEvery: 0}} {
		if _, err := r.Run(context.Background(), s, cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("config %+v: expected ErrInvalidConfig, got %v", cfg, err)
		}
	}
}

func TestRunnerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := dropSim(t, 0)
	r := New(nil)
	r.AddObserver(ObserverFunc(func(s *sph.Simulation) {
		if s.Steps() == 3 {
			cancel()
		}
	}))

	result, err := r.Run(ctx, s, Config{Steps: 100, SampleEvery: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 3 {
		t.Errorf("expected 3 steps before cancellation, got %d", result.StepsTaken)
	}
}

func TestRunnerValidateState(t *testing.T) {
	s := dropSim(t, 0)
	s.Particles.Velocity[0] = base.Splat(math.NaN())

	result, err := New(nil).Run(context.Background(), s, Config{Steps: 5, SampleEvery: 1, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken != 1 || len(result.Errors) != 1 {
		t.Fatalf("expected one step and one error, got %d steps, %v", result.StepsTaken, result.Errors)
	}
	var simErr *SimulationError
	if !errors.As(result.Errors[0], &simErr) || !errors.Is(simErr, ErrInvalidState) {
		t.Errorf("expected SimulationError wrapping ErrInvalidState, got %v", result.Errors[0])
	}
	if simErr.Particle != 0 || simErr.Step != 1 {
		t.Errorf("unexpected error context %+v", simErr)
	}
}

// brokenMetric fails on its first observation.
type brokenMetric struct{ err error }

func (b *brokenMetric) Name() string            { return "broken" }
func (b *brokenMetric) Observe(*sph.Simulation) { b.err = errors.New("sampling failed") }
func (b *brokenMetric) Value() float64          { return math.NaN() }
func (b *brokenMetric) Reset()                  { b.err = nil }
func (b *brokenMetric) Err() error              { return b.err }

func TestRunnerLogsFailedMetrics(t *testing.T) {
	var buf bytes.Buffer
	r := New(log.New(&buf))
	r.AddMetric(&brokenMetric{})
	r.AddMetric(metrics.NewMaxSpeed())

	result, err := r.Run(context.Background(), dropSim(t, 0), Config{Steps: 3, SampleEvery: 1})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !math.IsNaN(result.Metrics["broken"]) {
		t.Errorf("expected NaN for the failed metric, got %f", result.Metrics["broken"])
	}
	out := buf.String()
	if !strings.Contains(out, "metric failed") || !strings.Contains(out, "sampling failed") {
		t.Errorf("expected the failure in the log, got %q", out)
	}
	if strings.Contains(out, "max_speed") {
		t.Errorf("healthy metrics must not be reported, got %q", out)
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	s := dropSim(t, 0)
	calls := 0
	err := New(nil).RunWithCallback(context.Background(), s, Config{Steps: 50, SampleEvery: 1}, func(*sph.Simulation) bool {
		calls++
		return calls < 5
	})
	if err != nil {
		t.Fatalf("callback run failed: %v", err)
	}
	if s.Steps() != 4 {
		t.Errorf("expected 4 steps, got %d", s.Steps())
	}
}

func TestEnsemble(t *testing.T) {
	build := func(seed int64) (*sph.Simulation, error) { return dropSim(t, seed), nil }
	results, err := NewEnsemble(build, 3, 0).Run(context.Background(), Config{Steps: 5, SampleEvery: 5})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.StepsTaken != 5 {
			t.Errorf("member %d: expected 5 steps, got %d", i, r.StepsTaken)
		}
	}

	failing := func(int64) (*sph.Simulation, error) { return nil, sph.ErrInvalidParameters }
	if _, err := NewEnsemble(failing, 2, 0).Run(context.Background(), Config{Steps: 1, SampleEvery: 1}); !errors.Is(err, sph.ErrInvalidParameters) {
		t.Errorf("expected builder error, got %v", err)
	}
}
