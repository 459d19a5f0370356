package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/fizz/internal/config"
	"github.com/san-kum/fizz/internal/storage"
)

const script = `name: tuning
description: two stored runs
steps:
  - preset: block/floor
    steps: 4
    sample_every: 2
    params:
      k: 2
    save_as: soft
  - preset: block/centre
    steps: 3
    save_as: centre
`

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRunScript(t *testing.T) {
	sc, err := LoadScript(writeScript(t, script))
	require.NoError(t, err)
	require.Len(t, sc.Steps, 2)

	st := storage.New(t.TempDir())
	results, err := RunScript(context.Background(), sc, st, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "soft", results[0].Name)
	require.Equal(t, 4, results[0].Final.Step)

	runs, err := st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)

	meta, err := st.Load(results[0].RunID)
	require.NoError(t, err)
	require.Equal(t, 2.0, meta.Params.K)
}

func TestResolve(t *testing.T) {
	cfg, err := ScriptStep{Preset: "drop/splash", Params: map[string]float64{"mu": 3}, Seed: 5}.Resolve()
	require.NoError(t, err)
	require.Equal(t, config.KindDrop, cfg.Scenario.Kind)
	require.Equal(t, 3.0, cfg.Params.Mu)
	require.EqualValues(t, 5, cfg.Scenario.Seed)

	cfg, err = ScriptStep{}.Resolve()
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfig(), cfg)

	_, err = ScriptStep{Preset: "drop/none"}.Resolve()
	require.Error(t, err)
	_, err = ScriptStep{Preset: "block/floor", Config: "x.yaml"}.Resolve()
	require.Error(t, err)
	_, err = ScriptStep{Params: map[string]float64{"viscosity": 1}}.Resolve()
	require.ErrorContains(t, err, "unknown parameter")
}

func TestLoadScriptNeedsSteps(t *testing.T) {
	_, err := LoadScript(writeScript(t, "name: empty\n"))
	require.Error(t, err)
}

func TestRunScriptStopsAtFailingStep(t *testing.T) {
	sc := &Script{Steps: []ScriptStep{
		{Preset: "block/floor", Steps: 2},
		{Preset: "block/floor", Params: map[string]float64{"delta_time": -1}},
	}}
	results, err := RunScript(context.Background(), sc, storage.New(t.TempDir()), nil)
	require.ErrorContains(t, err, "step 2")
	require.Len(t, results, 1)
}

func TestMonteCarloIsSeeded(t *testing.T) {
	base := config.GetPreset(config.KindBlock, "floor")
	base.Steps = 3
	mc := &MonteCarloConfig{Base: base, Params: []string{"k", "mu"}, Perturbation: 0.2, NumTrials: 3, Seed: 11}

	a, err := RunMonteCarlo(context.Background(), mc)
	require.NoError(t, err)
	b, err := RunMonteCarlo(context.Background(), mc)
	require.NoError(t, err)
	require.Equal(t, a, b)

	for _, r := range a {
		require.InDelta(t, base.Params.K, r.Params["k"], 0.2*base.Params.K)
		require.NoError(t, r.Err)
	}
	stable, unstable := MonteCarloStats(a)
	require.Equal(t, 3, stable+unstable)
	require.Equal(t, 4.0, base.Params.K, "base config must not change")
}

func TestMonteCarloFlagsFailedBuilds(t *testing.T) {
	base := config.GetPreset(config.KindBlock, "floor")
	base.Params.DeltaTime = 0
	base.Steps = 1
	res, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{Base: base, Params: []string{"k"}, NumTrials: 2})
	require.NoError(t, err)
	require.Len(t, res, 2)
	_, unstable := MonteCarloStats(res)
	require.Equal(t, 2, unstable)
	require.Error(t, res[0].Err)
}
