package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/bhsim/internal/dynamo"
	"github.com/san-kum/bhsim/internal/metrics"
	"github.com/san-kum/bhsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600

	// DefaultSpeedScale is the |vx|+|vy| rendered in the theme's Fast color.
	DefaultSpeedScale = 50000
)

type TickMsg time.Time

// Factory builds a fresh simulator; the live view calls it again on reset.
type Factory func() (*sim.Simulator, error)

type Options struct {
	Name         string
	Theme        string
	StepsPerTick int
	SpeedScale   float64
	FrameRate    int
}

// Model drives a simulator on a timer and draws every particle plus the
// traversal boxes of one selected particle.
type Model struct {
	factory Factory
	sim     *sim.Simulator
	opts    Options

	canvas *Canvas
	view   Viewport
	theme  int

	running bool
	overlay bool
	trace   int
	frame   *dynamo.Frame
	err     error

	energyHistory []float64
	visitHistory  []float64
}

func NewModel(factory Factory, opts Options) (Model, error) {
	s, err := factory()
	if err != nil {
		return Model{}, err
	}
	if opts.StepsPerTick < 1 {
		opts.StepsPerTick = 1
	}
	if opts.SpeedScale <= 0 {
		opts.SpeedScale = DefaultSpeedScale
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = 30
	}

	canvas := NewCanvas(width, height)
	m := Model{
		factory:       factory,
		sim:           s,
		opts:          opts,
		canvas:        canvas,
		view:          NewViewport(s.Params().Bounds, canvas),
		running:       true,
		overlay:       true,
		trace:         max(0, s.Params().TraceIndex),
		energyHistory: make([]float64, 0, historyCapacity),
		visitHistory:  make([]float64, 0, historyCapacity),
	}
	for i, name := range ThemeNames() {
		if name == opts.Theme {
			m.theme = i
		}
	}
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FrameRate), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "b":
			m.overlay = !m.overlay
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "left", "h":
			m.selectTrace(-1)
		case "right", "l":
			m.selectTrace(1)
		case "n":
			if !m.running {
				m.step(1)
			}
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.step(m.opts.StepsPerTick)
		}
		return m, m.tick()
	}
	return m, nil
}

// selectTrace moves the traced particle, wrapping at either end.
func (m *Model) selectTrace(dir int) {
	n := len(m.sim.Particles())
	if n == 0 {
		return
	}
	m.trace = ((m.trace+dir)%n + n) % n
}

// step advances n simulation steps; only the last one is traced.
func (m *Model) step(n int) {
	for i := 0; i < n; i++ {
		if m.overlay && i == n-1 {
			m.sim.SetTrace(m.trace)
		} else {
			m.sim.SetTrace(-1)
		}

		frame, err := m.sim.Step()
		if err != nil {
			m.err = err
			m.running = false
			return
		}
		m.frame = frame
	}

	m.energyHistory = appendCapped(m.energyHistory, metrics.Kinetic(m.frame.Particles))
	if np := len(m.frame.Particles); np > 0 {
		m.visitHistory = appendCapped(m.visitHistory, float64(m.frame.Stats.Visits)/float64(np))
	}
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

// reset rebuilds the simulator from the factory.
func (m *Model) reset() {
	s, err := m.factory()
	if err != nil {
		m.err = err
		return
	}
	m.sim = s
	m.view = NewViewport(s.Params().Bounds, m.canvas)
	m.frame = nil
	m.err = nil
	m.energyHistory = m.energyHistory[:0]
	m.visitHistory = m.visitHistory[:0]
	if m.trace >= len(s.Particles()) {
		m.trace = 0
	}
}

// draw renders particles and, when enabled, the trace overlay.
func (m *Model) draw() {
	m.canvas.Clear()

	ps := m.sim.Particles()
	if m.frame != nil {
		ps = m.frame.Particles
	}

	if m.overlay && m.frame != nil {
		for _, r := range m.frame.Trace {
			m.canvas.DrawRect(m.view.ProjectRect(r))
		}
	}

	for i := range ps {
		x, y, ok := m.view.Project(ps[i].Pos)
		if !ok {
			continue
		}
		m.canvas.Plot(x, y, ps[i].Speed()/m.opts.SpeedScale)
	}

	if m.overlay && m.trace < len(ps) {
		if x, y, ok := m.view.Project(ps[m.trace].Pos); ok {
			m.canvas.DrawRect(x-2, y-2, x+2, y+2)
		}
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	th := Themes[m.theme]

	canvasView := canvasStyle.Render(m.canvas.Render(th))

	var s strings.Builder
	name := strings.ToUpper(m.opts.Name)
	if name == "" {
		name = "BARNES-HUT"
	}
	s.WriteString(HeaderStyle.Render(GradientText(name, th.Slow, th.Fast)) + "\n\n")

	switch {
	case m.err != nil:
		s.WriteString(StatusFailed.Render("FAILED") + "\n")
		s.WriteString(valueStyle.Render(m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("● RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	p := m.sim.Params()
	row("Step", fmt.Sprintf("%d", m.sim.Steps()))
	row("Time", fmt.Sprintf("%.5f", m.sim.Time()))
	row("Particles", fmt.Sprintf("%d", len(m.sim.Particles())))
	row("Theta", fmt.Sprintf("%.2f", p.Theta))
	if m.frame != nil {
		st := m.frame.Stats
		row("Nodes", fmt.Sprintf("%d", st.Nodes))
		row("Depth", fmt.Sprintf("%d", st.Depth))
		row("Buckets", fmt.Sprintf("%d", st.Buckets))
		row("Dropped", fmt.Sprintf("%d", st.Dropped))
	}
	overlay := "off"
	if m.overlay {
		overlay = fmt.Sprintf("#%d", m.trace)
		if m.frame != nil {
			overlay += fmt.Sprintf(" (%d boxes)", len(m.frame.Trace))
		}
	}
	row("Trace", overlay)
	row("Theme", th.Name)

	s.WriteString("\n" + labelStyle.Render("Visits/p") + Sparkline(m.visitHistory, 26, th) + "\n")
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit N:Step\n←→:Trace B:Boxes T:Theme"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// Run starts the live view on the alternate screen and blocks until quit.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
