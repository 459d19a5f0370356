package config

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/san-kum/fizz/internal/base"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scenario.Kind != KindDamBreak {
		t.Errorf("expected scenario dam_break, got %s", cfg.Scenario.Kind)
	}
	if err := cfg.Params.Validate(); err != nil {
		t.Errorf("default parameters invalid: %v", err)
	}
	if cfg.Steps <= 0 || cfg.SampleEvery <= 0 {
		t.Error("steps and sample interval should be positive")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fizz.yaml")
	cfg := GetPreset(KindDrop, "splash")
	cfg.Scenario.Jitter = 0.1
	cfg.Params.Workers = 3

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, loaded) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("name: partial\nsteps: 7\nparams:\n  h: 0.05\n"), 0644); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Steps != 7 || loaded.Name != "partial" || loaded.Params.H != 0.05 {
		t.Errorf("expected overridden fields, got %+v", loaded)
	}
	def := DefaultConfig()
	if loaded.Params.RestDensity != def.Params.RestDensity || loaded.SampleEvery != def.SampleEvery {
		t.Errorf("expected defaults for missing fields, got %+v", loaded)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset(KindDamBreak, "classic")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	cfg.Steps = -1
	if Presets[KindDamBreak]["classic"].Steps == -1 {
		t.Error("GetPreset should return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset(KindDamBreak, "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "classic") != nil {
		t.Error("expected nil for nonexistent kind")
	}
}

func TestListPresets(t *testing.T) {
	for _, kind := range Kinds() {
		names := ListPresets(kind)
		if len(names) == 0 {
			t.Errorf("expected presets for %s", kind)
		}
		if !sort.StringsAreSorted(names) {
			t.Errorf("presets for %s not sorted: %v", kind, names)
		}
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent kind")
	}
}

func TestEveryPresetBuilds(t *testing.T) {
	for _, kind := range Kinds() {
		for _, name := range ListPresets(kind) {
			cfg := GetPreset(kind, name)
			s, err := cfg.NewSimulation()
			if err != nil {
				t.Errorf("%s/%s: %v", kind, name, err)
				continue
			}
			if s.Particles.Len() == 0 {
				t.Errorf("%s/%s: no particles", kind, name)
			}
			if s.Params.NumParticles != s.Particles.Len() {
				t.Errorf("%s/%s: particle count not propagated", kind, name)
			}
		}
	}
}

func TestScenarioLayouts(t *testing.T) {
	params := unitParams()
	tests := []struct {
		name     string
		scenario Scenario
		count    int
	}{
		{"block", Scenario{Kind: KindBlock, Min: base.Splat(0), Max: base.Splat(0.4), Spacing: 0.1}, 4},
		{"dam_break", Scenario{Kind: KindDamBreak, Fill: base.Splat(0.5), Spacing: 0.1}, 5},
		{"narrow box still gets a particle per axis", Scenario{Kind: KindBlock, Min: base.Splat(0), Max: base.Splat(0.05), Spacing: 0.1}, 1},
	}

	for _, tt := range tests {
		parts, err := tt.scenario.Particles(params)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		want := base.ISplat(tt.count).Product()
		if parts.Len() != want {
			t.Errorf("%s: expected %d particles, got %d", tt.name, want, parts.Len())
		}
		for _, x := range parts.Position {
			if !params.Domain.Contains(x) {
				t.Errorf("%s: particle %v outside domain", tt.name, x)
			}
		}
	}
}

func TestDropIsRound(t *testing.T) {
	params := unitParams()
	s := Scenario{Kind: KindDrop, Min: base.Splat(0), Max: base.Splat(1), Spacing: 0.1, Velocity: base.Axis(0, 2)}
	parts, err := s.Particles(params)
	if err != nil {
		t.Fatal(err)
	}
	if parts.Len() == 0 || parts.Len() >= base.ISplat(10).Product() {
		t.Errorf("expected a ball strictly inside the lattice, got %d particles", parts.Len())
	}
	for i, x := range parts.Position {
		if x.Sub(base.Splat(0.5)).Norm() > 0.5 {
			t.Errorf("particle %v outside the ball", x)
		}
		if parts.Velocity[i] != base.Axis(0, 2) {
			t.Errorf("expected launch velocity, got %v", parts.Velocity[i])
		}
	}
}

func TestScenarioJitterIsSeeded(t *testing.T) {
	params := unitParams()
	s := Scenario{Kind: KindBlock, Min: base.Splat(0.2), Max: base.Splat(0.6), Spacing: 0.1, Jitter: 0.3, Seed: 42}
	a, err := s.Particles(params)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := s.Particles(params)
	if !reflect.DeepEqual(a.Position, b.Position) {
		t.Error("same seed should give the same layout")
	}

	s.Seed = 43
	c, _ := s.Particles(params)
	if reflect.DeepEqual(a.Position, c.Position) {
		t.Error("different seeds should give different layouts")
	}
}

func TestScenarioErrors(t *testing.T) {
	params := unitParams()
	bad := []Scenario{
		{Kind: KindBlock, Min: base.Splat(0), Max: base.Splat(1), Spacing: 0},
		{Kind: "volcano", Spacing: 0.1},
		{Kind: KindBlock, Min: base.Splat(1), Max: base.Splat(0), Spacing: 0.1},
		{Kind: KindDamBreak, Spacing: 0.1},
	}
	for _, s := range bad {
		if _, err := s.Particles(params); err == nil {
			t.Errorf("expected error for %+v", s)
		}
	}
}
