package analysis

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/bhsim/internal/dynamo"
)

// ProfileBin is one annulus of a radial profile.
type ProfileBin struct {
	R     float64 // annulus midpoint
	Count int
	Mass  float64
	// Vt is the mass-weighted mean tangential speed, positive counter-clockwise.
	Vt float64
}

// RadialProfile bins particles by distance from center into bins equal
// annuli out to rmax. Particles beyond rmax are ignored.
func RadialProfile(ps []dynamo.Particle, center mgl64.Vec2, bins int, rmax float64) []ProfileBin {
	if bins <= 0 || rmax <= 0 {
		return nil
	}

	width := rmax / float64(bins)
	out := make([]ProfileBin, bins)
	for b := range out {
		out[b].R = (float64(b) + 0.5) * width
	}

	for i := range ps {
		d := ps[i].Pos.Sub(center)
		r := d.Len()
		if r == 0 || r >= rmax {
			continue
		}
		b := int(r / width)
		vt := (d[0]*ps[i].Vel[1] - d[1]*ps[i].Vel[0]) / r

		out[b].Count++
		out[b].Mass += ps[i].Mass
		out[b].Vt += ps[i].Mass * vt
	}

	for b := range out {
		if out[b].Mass > 0 {
			out[b].Vt /= out[b].Mass
		}
	}
	return out
}

// ScatterToASCII plots points on a width x height character grid, drawing
// axes where zero is in view.
func ScatterToASCII(xs, ys []float64, width, height int) string {
	n := min(len(xs), len(ys))
	if n == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := 1; i < n; i++ {
		minX, maxX = math.Min(minX, xs[i]), math.Max(maxX, xs[i])
		minY, maxY = math.Min(minY, ys[i]), math.Max(maxY, ys[i])
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	minY -= rangeY * 0.05
	rangeX *= 1.1
	rangeY *= 1.1

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && minX+rangeX >= 0 {
		col := int(-minX / rangeX * float64(width-1))
		for row := range canvas {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && minY+rangeY >= 0 {
		row := height - 1 - int(-minY/rangeY*float64(height-1))
		for col := range canvas[row] {
			canvas[row][col] = '─'
		}
	}

	for i := 0; i < n; i++ {
		col := int((xs[i] - minX) / rangeX * float64(width-1))
		row := height - 1 - int((ys[i]-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
