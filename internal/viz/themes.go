package viz

import (
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines color scheme for the TUI. Particles are colored along
// Slow→Fast by speed.
type Theme struct {
	Name       string
	Background lipgloss.Color
	Slow       lipgloss.Color
	Fast       lipgloss.Color
	Overlay    lipgloss.Color
	Accent     lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// Available themes
var (
	ThemeClassic = Theme{
		Name:       "classic",
		Background: lipgloss.Color("#14141e"),
		Slow:       lipgloss.Color("#ff6464"),
		Fast:       lipgloss.Color("#ffffff"),
		Overlay:    lipgloss.Color("#ff6464"),
		Accent:     lipgloss.Color("#00ccff"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666688"),
		Warning:    lipgloss.Color("#ffaa00"),
		Error:      lipgloss.Color("#ff4444"),
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Background: lipgloss.Color("#001a33"),
		Slow:       lipgloss.Color("#0077be"),
		Fast:       lipgloss.Color("#e0f0ff"),
		Overlay:    lipgloss.Color("#ffd700"),
		Accent:     lipgloss.Color("#00a8cc"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Warning:    lipgloss.Color("#ffcc00"),
		Error:      lipgloss.Color("#ff4444"),
	}

	ThemeRetroGreen = Theme{
		Name:       "retro",
		Background: lipgloss.Color("#001100"),
		Slow:       lipgloss.Color("#005500"),
		Fast:       lipgloss.Color("#88ff88"),
		Overlay:    lipgloss.Color("#ffff00"),
		Accent:     lipgloss.Color("#00ff00"),
		Text:       lipgloss.Color("#00ff00"),
		Muted:      lipgloss.Color("#005500"),
		Warning:    lipgloss.Color("#ffff00"),
		Error:      lipgloss.Color("#ff0000"),
	}

	// All available themes
	Themes = []Theme{
		ThemeClassic,
		ThemeOcean,
		ThemeRetroGreen,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// SpeedColor interpolates Slow→Fast; heat is clamped to [0, 1].
func (t Theme) SpeedColor(heat float64) lipgloss.Color {
	if math.IsNaN(heat) {
		heat = 1
	}
	heat = max(0, min(1, heat))
	return blend(t.Slow, t.Fast, heat)
}
