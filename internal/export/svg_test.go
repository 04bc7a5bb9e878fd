package export

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/bhsim/internal/dynamo"
	"github.com/san-kum/bhsim/internal/viz"
)

func TestFrameToSVG(t *testing.T) {
	world := dynamo.Rect{X: 0, Y: 0, W: 100, H: 50}
	f := &dynamo.Frame{
		Particles: []dynamo.Particle{
			{Pos: mgl64.Vec2{10, 10}, Mass: 1},
			{Pos: mgl64.Vec2{20, 30}, Vel: mgl64.Vec2{1e6, 0}, Mass: 1},
			{Pos: mgl64.Vec2{150, 10}, Mass: 1},
		},
		Trace: []dynamo.Rect{{X: 50, Y: 0, W: 50, H: 25}},
	}

	svg := FrameToSVG(f, world, DefaultSVGOptions())

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document:\n%s", svg)
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 circles for in-bounds particles, got %d", n)
	}
	if !strings.Contains(svg, `fill="#ff6464"`) {
		t.Error("resting particle should use the slow color")
	}
	if !strings.Contains(svg, `fill="#ffffff"`) {
		t.Error("fast particle should use the fast color")
	}
	if !strings.Contains(svg, `<rect x="50.0" y="0.0" width="50.0" height="25.0"/>`) {
		t.Errorf("missing trace rectangle:\n%s", svg)
	}
}

func TestFrameToSVG_Scale(t *testing.T) {
	world := dynamo.Rect{X: -10, Y: -10, W: 20, H: 20}
	f := &dynamo.Frame{Particles: []dynamo.Particle{{Pos: mgl64.Vec2{0, 0}, Mass: 1}}}

	opts := DefaultSVGOptions()
	opts.Scale = 2
	opts.Theme = viz.ThemeOcean
	svg := FrameToSVG(f, world, opts)

	if !strings.Contains(svg, `width="40" height="40"`) {
		t.Errorf("expected scaled document size:\n%s", svg)
	}
	if !strings.Contains(svg, `cx="20.0" cy="20.0"`) {
		t.Errorf("expected particle at the scaled center:\n%s", svg)
	}
	if strings.Contains(svg, "stroke") {
		t.Error("no trace group expected without trace boxes")
	}
}

func TestFrameToSVG_Nil(t *testing.T) {
	if FrameToSVG(nil, dynamo.Rect{W: 1, H: 1}, DefaultSVGOptions()) != "" {
		t.Error("nil frame should render nothing")
	}
}
