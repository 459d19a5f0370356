// Package automation runs scripted batches of simulations: a YAML script
// lists runs to store one after another, and Monte Carlo trials test how
// stable a configuration is under random parameter perturbations.
package automation

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fizz/internal/config"
	"github.com/san-kum/fizz/internal/metrics"
	"github.com/san-kum/fizz/internal/sim"
	"github.com/san-kum/fizz/internal/storage"
)

// Script is a named sequence of runs.
type Script struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Steps       []ScriptStep `yaml:"steps"`
}

// ScriptStep is one run. It starts from Preset ("kind/name") or Config (a
// config file path), or DefaultConfig when both are empty, then applies
// Params and the step counts.
type ScriptStep struct {
	Preset      string             `yaml:"preset"`
	Config      string             `yaml:"config"`
	Params      map[string]float64 `yaml:"params"`
	Steps       int                `yaml:"steps"`
	SampleEvery int                `yaml:"sample_every"`
	Seed        int64              `yaml:"seed"`
	SaveAs      string             `yaml:"save_as"`
}

// StepResult names the stored run of one script step.
type StepResult struct {
	Name  string
	RunID string
	Final metrics.Row
}

// LoadScript loads a script from a YAML file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, err
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("automation: script %q has no steps", script.Name)
	}
	return &script, nil
}

// Resolve builds the run configuration of a step.
func (s ScriptStep) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	switch {
	case s.Preset != "" && s.Config != "":
		return nil, fmt.Errorf("automation: step sets both preset and config")
	case s.Preset != "":
		kind, name, _ := strings.Cut(s.Preset, "/")
		if cfg = config.GetPreset(kind, name); cfg == nil {
			return nil, fmt.Errorf("automation: unknown preset %q", s.Preset)
		}
	case s.Config != "":
		c, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = c
	}

	for name, v := range s.Params {
		ptr, ok := cfg.Params.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("automation: unknown parameter %q", name)
		}
		*ptr = v
	}
	if s.Steps > 0 {
		cfg.Steps = s.Steps
	}
	if s.SampleEvery > 0 {
		cfg.SampleEvery = s.SampleEvery
	}
	if s.Seed != 0 {
		cfg.Scenario.Seed = s.Seed
	}
	if s.SaveAs != "" {
		cfg.Name = s.SaveAs
	}
	return cfg, nil
}

// RunScript executes every step in order and stores each run. It stops at
// the first failing step and returns the steps completed so far.
func RunScript(ctx context.Context, script *Script, st *storage.Store, logger *log.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	results := make([]StepResult, 0, len(script.Steps))

	for i, step := range script.Steps {
		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		logger.Info("script step", "step", i+1, "of", len(script.Steps), "name", cfg.Name)

		s, err := cfg.NewSimulation()
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		r := sim.New(logger)
		for _, m := range metrics.Standard() {
			r.AddMetric(m)
		}
		res, err := r.Run(ctx, s, sim.Config{Steps: cfg.Steps, SampleEvery: cfg.SampleEvery, ValidateState: true})
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		runID, err := st.Save(cfg, s, res)
		if err != nil {
			return results, fmt.Errorf("step %d save: %w", i+1, err)
		}
		results = append(results, StepResult{Name: cfg.Name, RunID: runID, Final: res.Final()})
	}

	return results, nil
}

// MonteCarloConfig perturbs every named parameter of Base by a uniform
// relative factor in [1-Perturbation, 1+Perturbation] per trial.
type MonteCarloConfig struct {
	Base         *config.Config
	Params       []string
	Perturbation float64
	NumTrials    int
	Seed         int64
	// SpeedLimit marks a trial unstable when its final max speed exceeds it.
	// Zero means only non-finite states are unstable.
	SpeedLimit float64
}

// MonteCarloResult is the outcome of one trial.
type MonteCarloResult struct {
	TrialID int
	Params  map[string]float64
	Final   metrics.Row
	Stable  bool
	Err     error
}

// RunMonteCarlo runs the trials in order. The perturbations depend only on
// Seed.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	params := cfg.Base.Params
	for _, name := range cfg.Params {
		if _, ok := params.Lookup(name); !ok {
			return nil, fmt.Errorf("automation: unknown parameter %q", name)
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	for trial := 0; trial < cfg.NumTrials; trial++ {
		c := *cfg.Base
		picked := make(map[string]float64, len(cfg.Params))
		for _, name := range cfg.Params {
			ptr, _ := c.Params.Lookup(name)
			*ptr *= 1 + (rng.Float64()-0.5)*2*cfg.Perturbation
			picked[name] = *ptr
		}

		out := MonteCarloResult{TrialID: trial, Params: picked}
		s, err := c.NewSimulation()
		if err != nil {
			out.Err = err
			results = append(results, out)
			continue
		}
		res, err := sim.New(nil).Run(ctx, s, sim.Config{Steps: c.Steps, SampleEvery: max(1, c.Steps), ValidateState: true})
		if err != nil {
			return results, err
		}

		out.Final = res.Final()
		out.Stable = len(res.Errors) == 0 && finite(out.Final.MaxSpeed) &&
			(cfg.SpeedLimit == 0 || out.Final.MaxSpeed <= cfg.SpeedLimit)
		results = append(results, out)
	}

	return results, nil
}

// MonteCarloStats counts stable and unstable trials. Trials that failed to
// build count as unstable.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
