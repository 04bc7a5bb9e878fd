package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/bhsim/internal/dynamo"
	"github.com/san-kum/bhsim/internal/viz"
)

// SVGOptions controls a frame snapshot.
type SVGOptions struct {
	Theme viz.Theme
	// SpeedScale is the |vx|+|vy| drawn in the theme's Fast color.
	SpeedScale float64
	// Scale multiplies world units into SVG pixels.
	Scale  float64
	Radius float64
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Theme:      viz.ThemeClassic,
		SpeedScale: viz.DefaultSpeedScale,
		Scale:      1,
		Radius:     1,
	}
}

// FrameToSVG draws every particle inside world, colored by speed, and outlines
// the traced nodes on top.
func FrameToSVG(f *dynamo.Frame, world dynamo.Rect, opts SVGOptions) string {
	if f == nil {
		return ""
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.SpeedScale <= 0 {
		opts.SpeedScale = viz.DefaultSpeedScale
	}

	width := world.W * opts.Scale
	height := world.H * opts.Scale
	th := opts.Theme

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g>
`, width, height, width, height, th.Background)

	for _, p := range f.Particles {
		if !world.Contains(p.Pos) {
			continue
		}
		heat := (math.Abs(p.Vel[0]) + math.Abs(p.Vel[1])) / opts.SpeedScale
		cx := (p.Pos[0] - world.X) * opts.Scale
		cy := (p.Pos[1] - world.Y) * opts.Scale
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, opts.Radius, th.SpeedColor(heat))
	}
	sb.WriteString("</g>\n")

	if len(f.Trace) > 0 {
		fmt.Fprintf(&sb, `<g fill="none" stroke="%s" stroke-width="1">
`, th.Overlay)
		for _, r := range f.Trace {
			fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>
`, (r.X-world.X)*opts.Scale, (r.Y-world.Y)*opts.Scale, r.W*opts.Scale, r.H*opts.Scale)
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// WriteFrame writes FrameToSVG to w.
func WriteFrame(w io.Writer, f *dynamo.Frame, world dynamo.Rect, opts SVGOptions) error {
	_, err := io.WriteString(w, FrameToSVG(f, world, opts))
	return err
}
