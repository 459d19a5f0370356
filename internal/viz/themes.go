package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the viewer.
type Theme struct {
	Name    string
	Fluid   lipgloss.Color
	Accent  lipgloss.Color
	Graph   lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeOcean = Theme{
		Name:    "ocean",
		Fluid:   lipgloss.Color("#3399ff"),
		Accent:  lipgloss.Color("#ffd700"),
		Graph:   lipgloss.Color("#00a8cc"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Warning: lipgloss.Color("#ff4444"),
	}

	ThemeRetro = Theme{
		Name:    "retro",
		Fluid:   lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Graph:   lipgloss.Color("#00cc00"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Warning: lipgloss.Color("#ffff00"),
	}

	ThemeInk = Theme{
		Name:    "ink",
		Fluid:   lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Graph:   lipgloss.Color("#cccccc"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	Themes = []Theme{ThemeOcean, ThemeRetro, ThemeInk}
)

func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeOcean
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
