package viz

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/bhsim/internal/dynamo"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// Printer is an observer that redraws a plain braille view of the particles
// to w, at most frameRate times a second.
type Printer struct {
	out       io.Writer
	name      string
	frameRate int
	lastFrame time.Time
	canvas    *Canvas
	view      Viewport
}

func NewPrinter(w io.Writer, name string, world dynamo.Rect, frameRate int) *Printer {
	if frameRate <= 0 {
		frameRate = 10
	}
	canvas := NewCanvas(70, 20)
	return &Printer{
		out:       w,
		name:      name,
		frameRate: frameRate,
		canvas:    canvas,
		view:      NewViewport(world, canvas),
	}
}

func (p *Printer) OnStep(f *dynamo.Frame) {
	if time.Since(p.lastFrame) < time.Second/time.Duration(p.frameRate) {
		return
	}
	p.lastFrame = time.Now()

	p.canvas.Clear()
	for i := range f.Particles {
		if x, y, ok := p.view.Project(f.Particles[i].Pos); ok {
			p.canvas.Set(x, y)
		}
	}
	for _, r := range f.Trace {
		p.canvas.DrawRect(p.view.ProjectRect(r))
	}

	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  step=%d t=%.5f\n", p.name, f.Step, f.Time))
	b.WriteString("  " + strings.Repeat("-", p.canvas.Width) + "\n")
	for _, row := range p.canvas.Grid {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}
	b.WriteString("  " + strings.Repeat("-", p.canvas.Width) + "\n")
	b.WriteString(fmt.Sprintf("  nodes=%d depth=%d buckets=%d dropped=%d visits=%d\n",
		f.Stats.Nodes, f.Stats.Depth, f.Stats.Buckets, f.Stats.Dropped, f.Stats.Visits))

	fmt.Fprint(p.out, b.String())
}

func (p *Printer) Start() { fmt.Fprint(p.out, hideCursor) }
func (p *Printer) Stop()  { fmt.Fprint(p.out, showCursor) }
