package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/fizz/internal/base"
	"github.com/san-kum/fizz/internal/sph"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(0, 0)
	c.Set(3, 7)
	c.Set(-1, 0)
	c.Set(4, 0)

	require.True(t, c.IsSet(0, 0))
	require.True(t, c.IsSet(3, 7))
	require.False(t, c.IsSet(1, 0))
	require.Equal(t, rune(0x2801), c.Grid[0][0])
	require.Equal(t, rune(0x2880), c.Grid[1][1])

	c.Unset(0, 0)
	require.False(t, c.IsSet(0, 0))
	require.Equal(t, rune(brailleBlank), c.Grid[0][0])

	c.Clear()
	require.Equal(t, strings.Repeat(string(rune(brailleBlank)), 2)+"\n", strings.SplitAfter(c.String(), "\n")[0])
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 3)
	require.True(t, c.IsSet(0, 0))
	require.True(t, c.IsSet(7, 3))

	count := 0
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			if c.IsSet(x, y) {
				count++
			}
		}
	}
	require.Equal(t, 8, count)
}

func TestCameraFitsDomain(t *testing.T) {
	dom := base.NewRange(base.Splat(0), base.Splat(1))
	cam := NewCamera(dom, 100, 100)

	x, y := cam.WorldToScreen(base.Splat(0.5))
	require.Equal(t, 50, x)
	require.Equal(t, 50, y)

	// y points up in world space, down on screen
	lx, ly := cam.WorldToScreen(base.Splat(0))
	hx, hy := cam.WorldToScreen(base.Splat(1))
	require.Less(t, lx, hx)
	require.Greater(t, ly, hy)
	require.Equal(t, 5, lx)
	require.Equal(t, 95, ly)
}

func TestCameraZoomKeepsPivot(t *testing.T) {
	cam := NewCamera(base.NewRange(base.Splat(0), base.Splat(2)), 80, 80)
	before := base.Splat(1)
	bx, by := cam.WorldToScreen(before)

	cam.Zoom(2, float64(bx), float64(by))
	ax, ay := cam.WorldToScreen(before)
	require.Equal(t, bx, ax)
	require.Equal(t, by, ay)

	cam.Pan(3, -2)
	px, py := cam.WorldToScreen(before)
	require.Equal(t, bx+3, px)
	require.Equal(t, by-2, py)
}

func TestParameterFields(t *testing.T) {
	p := sph.DefaultParameters()
	fields := ParameterFields(&p)

	require.Len(t, fields, len(p.Tunable())+3*base.Dim)
	require.Equal(t, "delta_time", fields[0].Name)

	byName := map[string]*float64{}
	for _, f := range fields {
		byName[f.Name] = f.Value
	}
	*byName["k"] = 7
	*byName["gravity[1]"] = -9.8
	*byName["domain.max[0]"] = 5
	require.Equal(t, 7.0, p.K)
	require.Equal(t, -9.8, p.Gravity[1])
	require.Equal(t, 5.0, p.Domain.Max[0])
	require.Contains(t, byName, "domain.min[0]")
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	p := sph.DefaultParameters()
	p.H = 0.1
	p.Domain = base.NewRange(base.Splat(0), base.Splat(1))
	parts := sph.NewParticles(0)
	parts.Add(1, base.Splat(0.5), base.Vec{})
	p.NumParticles = 1
	s, err := sph.NewSimulation(p, parts)
	require.NoError(t, err)
	return NewModel(s, "test")
}

func press(m *Model, key string) {
	var msg tea.KeyMsg
	switch key {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m.Update(msg)
}

func TestModelStepsOnTick(t *testing.T) {
	m := newTestModel(t)
	m.Update(TickMsg{})
	m.Update(TickMsg{})
	require.Equal(t, 2, m.Simulation().Steps())

	press(m, " ")
	m.Update(TickMsg{})
	require.Equal(t, 2, m.Simulation().Steps())

	press(m, "n")
	require.Equal(t, 3, m.Simulation().Steps())

	view := m.View()
	require.Contains(t, view, "TEST")
	require.Contains(t, view, "PAUSED")
	require.Contains(t, view, "delta_time")
}

func TestModelAdjustsParameters(t *testing.T) {
	m := newTestModel(t)
	// delta_time is selected first
	press(m, "k")
	require.InDelta(t, 0.0105, m.Simulation().Params.DeltaTime, 1e-12)

	for range 3 {
		m.Update(TickMsg{})
	}

	// h rebuilds the simulation and keeps its clock
	press(m, "tab")
	before := m.Simulation()
	press(m, "k")
	require.NotSame(t, before, m.Simulation())
	require.InDelta(t, 0.105, m.Simulation().Params.H, 1e-12)
	require.Equal(t, before.Steps(), m.Simulation().Steps())
	require.Equal(t, 3, m.Simulation().Steps())
	require.Equal(t, before.Time, m.Simulation().Time)
	require.Empty(t, m.status)
}

func TestModelRevertsInvalidEdit(t *testing.T) {
	m := newTestModel(t)
	for m.fields[m.selected].Name != "domain.max[0]" {
		press(m, "tab")
	}
	// shrinking the domain below the particle must be rejected
	for range 20 {
		press(m, "j")
	}
	// the last accepted domain still holds the particle inside the band
	require.InDelta(t, math.Pow(0.95, 13), m.Simulation().Params.Domain.Max[0], 1e-9)
	require.Equal(t, m.Simulation().Params, *m.params)
	require.NotEmpty(t, m.status)
}

func TestModelReset(t *testing.T) {
	m := newTestModel(t)
	for range 5 {
		m.Update(TickMsg{})
	}
	press(m, "k")
	press(m, "r")
	require.Equal(t, 0, m.Simulation().Steps())
	require.Equal(t, base.Splat(0.5), m.Simulation().Particles.Position[0])
	require.Equal(t, 0.01, m.Simulation().Params.DeltaTime)
}

func TestMenuOpensPreset(t *testing.T) {
	menu := NewMenu()
	require.NotEmpty(t, menu.entries)
	require.Contains(t, menu.View(), "dam_break")

	menu.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, menu.live)
	require.Positive(t, menu.live.Simulation().Particles.Len())

	menu.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Nil(t, menu.live)
}

func TestSparkline(t *testing.T) {
	require.Equal(t, "───", Sparkline(nil, 3))
	require.Equal(t, "▁█", Sparkline([]float64{0, 1}, 10))
}
