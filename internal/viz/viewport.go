package viz

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/bhsim/internal/dynamo"
)

// Viewport maps a world rectangle onto a canvas' sub-pixel grid.
type Viewport struct {
	World  dynamo.Rect
	PixelW int
	PixelH int
}

func NewViewport(world dynamo.Rect, c *Canvas) Viewport {
	return Viewport{World: world, PixelW: c.Width * 2, PixelH: c.Height * 4}
}

// Project returns the sub-pixel for p and whether p is inside the world.
func (v Viewport) Project(p mgl64.Vec2) (int, int, bool) {
	if !v.World.Contains(p) {
		return 0, 0, false
	}
	x := int((p[0] - v.World.X) / v.World.W * float64(v.PixelW))
	y := int((p[1] - v.World.Y) / v.World.H * float64(v.PixelH))
	return min(x, v.PixelW-1), min(y, v.PixelH-1), true
}

// ProjectRect returns the sub-pixel corners of r, clamped to the canvas.
func (v Viewport) ProjectRect(r dynamo.Rect) (x0, y0, x1, y1 int) {
	sx := float64(v.PixelW) / v.World.W
	sy := float64(v.PixelH) / v.World.H
	clampX := func(f float64) int { return max(0, min(v.PixelW-1, int(f))) }
	clampY := func(f float64) int { return max(0, min(v.PixelH-1, int(f))) }
	x0 = clampX((r.X - v.World.X) * sx)
	y0 = clampY((r.Y - v.World.Y) * sy)
	x1 = clampX((r.X + r.W - v.World.X) * sx)
	y1 = clampY((r.Y + r.H - v.World.Y) * sy)
	return x0, y0, x1, y1
}
