package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ccff"))

	StatusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	StatusPaused  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	StatusFailed  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// GradientText colors each rune of text along start→end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	var sb strings.Builder
	for i, c := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		sb.WriteString(lipgloss.NewStyle().Foreground(blend(start, end, t)).Render(string(c)))
	}
	return sb.String()
}

// ProgressBar renders fraction in [0, 1] as a bar width cells wide.
func ProgressBar(fraction float64, width int) string {
	filled := max(0, min(width, int(fraction*float64(width))))
	return barStyle.Render(strings.Repeat("█", filled) + strings.Repeat("░", width-filled))
}

// Sparkline draws the last width values as block characters, each colored
// by its height on the theme's speed palette.
func Sparkline(values []float64, width int, th Theme) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var sb strings.Builder
	for _, v := range values {
		norm := (v - lo) / span
		c := sparkChars[int(norm*float64(len(sparkChars)-1))]
		sb.WriteString(lipgloss.NewStyle().Foreground(th.SpeedColor(norm)).Render(string(c)))
	}
	return sb.String()
}

// blend mixes two hex colors in RGB. Colors that are not hex fall back to white.
func blend(a, b lipgloss.Color, t float64) lipgloss.Color {
	ca, err := colorful.Hex(string(a))
	if err != nil {
		ca = colorful.Color{R: 1, G: 1, B: 1}
	}
	cb, err := colorful.Hex(string(b))
	if err != nil {
		cb = colorful.Color{R: 1, G: 1, B: 1}
	}
	return lipgloss.Color(ca.BlendRgb(cb, t).Clamped().Hex())
}
