package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fizz/internal/config"
	"github.com/san-kum/fizz/internal/sph"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

var kindInfo = map[string]string{
	config.KindDamBreak: "water column collapsing under gravity",
	config.KindBlock:    "box of fluid at rest",
	config.KindDrop:     "ball of fluid with a launch velocity",
}

type menuEntry struct{ kind, preset string }

// Menu lists every preset and opens the chosen one in a live Model.
type Menu struct {
	entries []menuEntry
	cursor  int
	opts    []sph.Option
	live    *Model
	err     error
}

func NewMenu(opts ...sph.Option) *Menu {
	m := &Menu{opts: opts}
	for _, kind := range config.Kinds() {
		for _, name := range config.ListPresets(kind) {
			m.entries = append(m.entries, menuEntry{kind, name})
		}
	}
	return m
}

func (m *Menu) Init() tea.Cmd { return nil }

func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.live != nil {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			m.live = nil
			return m, nil
		}
		_, cmd := m.live.Update(msg)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "enter":
		return m, m.open()
	}
	return m, nil
}

func (m *Menu) open() tea.Cmd {
	e := m.entries[m.cursor]
	cfg := config.GetPreset(e.kind, e.preset)
	s, err := cfg.NewSimulation(m.opts...)
	if err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	m.live = NewModel(s, e.kind+"/"+e.preset, m.opts...)
	return m.live.Init()
}

func (m *Menu) View() string {
	if m.live != nil {
		return m.live.View()
	}

	var b strings.Builder
	b.WriteString(cyan.Bold(true).Render("fizz") + dim.Render(" · sph fluid viewer") + "\n\n")
	kind := ""
	for i, e := range m.entries {
		if e.kind != kind {
			kind = e.kind
			b.WriteString("\n" + yellow.Render(kind) + dim.Render("  "+kindInfo[kind]) + "\n")
		}
		line := fmt.Sprintf("  %s", e.preset)
		if i == m.cursor {
			b.WriteString(white.Bold(true).Render("> "+e.preset) + "\n")
		} else {
			b.WriteString(dim.Render(line) + "\n")
		}
	}
	if m.err != nil {
		b.WriteString("\n" + red.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n" + dim.Render("↑↓ select · enter run · esc back · q quit"))
	return b.String()
}
