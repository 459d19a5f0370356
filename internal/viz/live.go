package viz

import (
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fizz/internal/base"
	"github.com/san-kum/fizz/internal/metrics"
	"github.com/san-kum/fizz/internal/sph"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600
	panStep         = 8
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model steps a simulation and draws it. The simulation is only touched
// from Update, so parameter edits always land between steps.
type Model struct {
	sim  *sph.Simulation
	name string
	opts []sph.Option

	// params is the inspector's working copy; fields point into it.
	params    *sph.Parameters
	fields    []Field
	reference []float64
	selected  int
	initial   sph.Parameters
	initialPs *sph.Particles

	canvas   *Canvas
	camera   *Camera
	theme    Theme
	running  bool
	showGrid bool
	showHelp bool
	status   string

	energyHistory  []float64
	densityHistory []float64
}

// NewModel wraps s for display. The initial particles are copied so R can
// restore them.
func NewModel(s *sph.Simulation, name string, opts ...sph.Option) *Model {
	m := &Model{
		sim:       s,
		name:      name,
		opts:      opts,
		initial:   s.Params,
		initialPs: s.Particles.Clone(),
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		theme:     ThemeOcean,
		running:   true,
	}
	m.params = new(sph.Parameters)
	*m.params = s.Params
	m.fields = paramInspector{m.params}.Fields()
	m.reference = make([]float64, len(m.fields))
	for i, f := range m.fields {
		m.reference[i] = *f.Value
	}
	sw, sh := m.canvas.SubSize()
	m.camera = NewCamera(s.Params.Domain, sw, sh)
	return m
}

// Simulation is the simulation currently on screen. It changes when an
// edit to h or the domain rebuilds it.
func (m *Model) Simulation() *sph.Simulation { return m.sim }

func (m *Model) Init() tea.Cmd { return tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleKey(key string) tea.Cmd {
	sw, sh := m.canvas.SubSize()
	switch key {
	case "q", "ctrl+c":
		return tea.Quit
	case " ":
		m.running = !m.running
	case "n":
		if !m.running {
			m.step()
		}
	case "r":
		m.reset()
	case "tab":
		m.selected = (m.selected + 1) % len(m.fields)
	case "up", "k":
		m.adjustParam(1.05)
	case "down", "j":
		m.adjustParam(0.95)
	case "a":
		m.camera.Pan(panStep, 0)
	case "d":
		m.camera.Pan(-panStep, 0)
	case "w":
		m.camera.Pan(0, panStep)
	case "s":
		m.camera.Pan(0, -panStep)
	case "+", "=":
		m.camera.Zoom(1.1, float64(sw)/2, float64(sh)/2)
	case "-", "_":
		m.camera.Zoom(1/1.1, float64(sw)/2, float64(sh)/2)
	case "x":
		m.camera.Rotate(0.1, 0)
	case "y":
		m.camera.Rotate(0, 0.1)
	case "g":
		m.showGrid = !m.showGrid
	case "t":
		m.theme = NextTheme(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	}
	return nil
}

func (m *Model) step() {
	m.sim.AdvanceTimestep()
	row := metrics.Sample(m.sim)
	m.energyHistory = appendCapped(m.energyHistory, row.KineticEnergy)
	m.densityHistory = appendCapped(m.densityHistory, row.MeanDensity)
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

// adjustParam scales the selected field by factor and applies the result.
// A field at zero is nudged off it so it can grow.
func (m *Model) adjustParam(factor float64) {
	f := m.fields[m.selected]
	v := *f.Value * factor
	if v == 0 {
		v = 1e-3 * (factor - 1) / 0.05
	}
	*f.Value = v
	m.applyParams()
}

// applyParams moves the working parameters into the simulation. Changing h
// or the domain rebuilds the neighbor grid; if that fails the edit is
// rolled back and the error is shown.
func (m *Model) applyParams() {
	p := *m.params
	cur := m.sim.Params
	if err := p.Validate(); err != nil {
		*m.params = cur
		m.status = err.Error()
		return
	}
	if p.H == cur.H && p.Domain == cur.Domain {
		m.sim.Params = p
		m.status = ""
		return
	}

	opts := append(slices.Clip(m.opts), sph.WithClock(m.sim.Time, m.sim.Steps()))
	s, err := sph.NewSimulation(p, m.sim.Particles, opts...)
	if err != nil {
		*m.params = cur
		m.status = err.Error()
		return
	}
	m.sim = s
	m.status = ""
	if p.Domain != cur.Domain {
		sw, sh := m.canvas.SubSize()
		m.camera.Fit(p.Domain, sw, sh)
	}
}

// reset restores the initial particles and parameters.
func (m *Model) reset() {
	s, err := sph.NewSimulation(m.initial, m.initialPs.Clone(), m.opts...)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.sim = s
	*m.params = m.initial
	m.energyHistory = m.energyHistory[:0]
	m.densityHistory = m.densityHistory[:0]
	m.status = ""
	sw, sh := m.canvas.SubSize()
	m.camera.Fit(m.initial.Domain, sw, sh)
}

func (m *Model) View() string {
	st := newStyles(m.theme)
	m.draw()
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.name)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	row := metrics.Sample(m.sim)
	stat := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	stat("Time", fmt.Sprintf("%.3fs", m.sim.Time))
	stat("Steps", fmt.Sprintf("%d", m.sim.Steps()))
	stat("Particles", fmt.Sprintf("%d", m.sim.Particles.Len()))
	stat("Grid", fmt.Sprintf("%v", m.sim.Grid().Cells))
	stat("Density", fmt.Sprintf("%.1f (max %.1f)", row.MeanDensity, row.MaxDensity))
	stat("Max speed", fmt.Sprintf("%.3f", row.MaxSpeed))
	s.WriteString(st.label.Render("History") + Sparkline(m.densityHistory, 24) + "\n")

	s.WriteString("\nPARAMETERS\n")
	for i, f := range m.fields {
		line := fmt.Sprintf("%-18s %s %.4g", f.Name, bar(*f.Value, m.reference[i], 8), *f.Value)
		if i == m.selected {
			s.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.label.UnsetWidth().Render(line) + "\n")
		}
	}
	if m.status != "" {
		s.WriteString("\n" + st.warn.Render(m.status) + "\n")
	}
	s.WriteString(st.help.Render("SP:Pause R:Reset Q:Quit ?:Help\nTab:Select ↑↓:Tune WASD:Pan +-:Zoom"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  N        - Step once while paused   ║
║  R        - Reset simulation         ║
║  Q        - Quit                     ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  W/A/S/D  - Pan                      ║
║  +/-      - Zoom                     ║
║  X/Y      - Rotate (3d)              ║
║  G        - Toggle grid lines        ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// draw renders the domain outline, optional grid lines, and particles.
func (m *Model) draw() {
	m.canvas.Clear()
	if m.showGrid {
		m.drawGrid(m.sim.Grid())
	}
	m.drawBox(m.sim.Params.Domain)
	for _, x := range m.sim.Particles.Position {
		m.canvas.Set(m.camera.WorldToScreen(x))
	}
}

// drawBox draws every edge of the box: pairs of corners that differ along
// exactly one axis.
func (m *Model) drawBox(r base.Range[base.Vec]) {
	corners := base.NewRangeIterator(base.NewRange(base.IVec{}, base.ISplat(2))).Collect()
	corner := func(bits base.IVec) base.Vec {
		var x base.Vec
		for a := range x {
			x[a] = r.Min[a]
			if bits[a] == 1 {
				x[a] = r.Max[a]
			}
		}
		return x
	}
	for _, c := range corners {
		for a := 0; a < base.Dim; a++ {
			if c[a] == 1 {
				continue
			}
			m.line(corner(c), corner(c.Add(base.IAxis(a, 1))))
		}
	}
}

// drawGrid draws the grid lines of the lowest layer along the first two
// axes.
func (m *Model) drawGrid(g base.Grid) {
	for a := 0; a < 2; a++ {
		b := 1 - a
		for i := 0; i <= g.Cells[a]; i++ {
			start := base.IAxis(a, i)
			end := start.Add(base.IAxis(b, g.Cells[b]))
			m.line(g.NodeX(start), g.NodeX(end))
		}
	}
}

// line draws a world-space segment, skipping segments that project far
// outside the canvas.
func (m *Model) line(x0, x1 base.Vec) {
	sw, sh := m.canvas.SubSize()
	ax, ay := m.camera.WorldToScreen(x0)
	bx, by := m.camera.WorldToScreen(x1)
	far := func(v, size int) bool { return v < -4*size || v > 5*size }
	if far(ax, sw) || far(bx, sw) || far(ay, sh) || far(by, sh) {
		return
	}
	m.canvas.DrawLine(ax, ay, bx, by)
}
