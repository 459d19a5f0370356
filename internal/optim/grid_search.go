// Package optim searches solver parameters for the run that minimises a
// diagnostic.
package optim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"

	"github.com/charmbracelet/log"

	"github.com/san-kum/fizz/internal/config"
	"github.com/san-kum/fizz/internal/metrics"
	"github.com/san-kum/fizz/internal/sim"
)

var ErrNoCandidate = errors.New("optim: no parameter combination produced a finite result")

// Trial is one evaluated parameter combination. Err is set when the
// simulation could not be built or run.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// GridSearch evaluates every combination of candidate values, one list per
// parameter.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	logger     *log.Logger
}

func NewGridSearch(params []string, ranges [][]float64, logger *log.Logger) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d value lists", len(params), len(ranges))
	}
	defaults := config.DefaultConfig().Params
	for i, name := range params {
		if _, ok := defaults.Lookup(name); !ok {
			return nil, fmt.Errorf("optim: unknown parameter %q", name)
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("optim: no values for %q", name)
		}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &GridSearch{paramNames: params, ranges: ranges, logger: logger}, nil
}

// Search runs cfg once per combination and returns the combination with the
// smallest final value of column, plus every trial in enumeration order.
// Failed runs are recorded and skipped.
func (g *GridSearch) Search(ctx context.Context, cfg *config.Config, column string) (map[string]float64, float64, []Trial, error) {
	if !validColumn(column) {
		return nil, 0, nil, fmt.Errorf("optim: unknown column %q", column)
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	var trials []Trial

	err := g.searchRecursive(ctx, 0, map[string]float64{}, func(params map[string]float64) error {
		t := g.evaluate(ctx, cfg, params, column)
		if errors.Is(t.Err, context.Canceled) || errors.Is(t.Err, context.DeadlineExceeded) {
			return t.Err
		}
		trials = append(trials, t)
		if t.Err != nil {
			g.logger.Debug("trial failed", "params", params, "err", t.Err)
			return nil
		}
		g.logger.Debug("trial", "params", params, column, t.Value)
		if t.Value < best {
			best = t.Value
			bestParams = maps.Clone(params)
		}
		return nil
	})
	if err != nil {
		return bestParams, best, trials, err
	}
	if bestParams == nil {
		return nil, 0, trials, ErrNoCandidate
	}
	return bestParams, best, trials, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return visit(current)
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := maps.Clone(current)
		next[name] = val
		if err := g.searchRecursive(ctx, depth+1, next, visit); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) evaluate(ctx context.Context, cfg *config.Config, params map[string]float64, column string) Trial {
	t := Trial{Params: params}

	c := *cfg
	for name, v := range params {
		ptr, _ := c.Params.Lookup(name)
		*ptr = v
	}
	s, err := c.NewSimulation()
	if err != nil {
		t.Err = err
		return t
	}

	res, err := sim.New(g.logger).Run(ctx, s, sim.Config{Steps: c.Steps, SampleEvery: max(1, c.Steps), ValidateState: true})
	if err != nil {
		t.Err = err
		return t
	}
	if len(res.Errors) > 0 {
		t.Err = res.Errors[0]
		return t
	}
	col, _ := metrics.Column([]metrics.Row{res.Final()}, column)
	t.Value = col[0]
	if math.IsNaN(t.Value) || math.IsInf(t.Value, 0) {
		t.Err = fmt.Errorf("optim: %s is not finite", column)
	}
	return t
}

func validColumn(name string) bool {
	_, ok := metrics.Column([]metrics.Row{{}}, name)
	return ok
}
