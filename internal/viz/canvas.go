package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = rune(0x2800)

// Canvas is a braille dot grid with per-cell heat and overlay flags.
// Heat is the hottest value plotted into a cell, -1 when none.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Heat          [][]float64
	Overlay       [][]bool
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:   w,
		Height:  h,
		Grid:    make([][]rune, h),
		Heat:    make([][]float64, h),
		Overlay: make([][]bool, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Heat[i] = make([]float64, w)
		c.Overlay[i] = make([]bool, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return row, col, true
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Plot sets a pixel and raises its cell's heat to at least heat.
func (c *Canvas) Plot(x, y int, heat float64) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.Heat[row][col] = max(c.Heat[row][col], heat)
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	row, col, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Heat[i][j] = -1
			c.Overlay[i][j] = false
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		if row, col, ok := c.cell(x0, y0); ok {
			c.Grid[row][col] |= rune(pixelMap[y0%4][x0%2])
			c.Overlay[row][col] = true
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawRect outlines the box with corners (x0, y0) and (x1, y1) as overlay.
func (c *Canvas) DrawRect(x0, y0, x1, y1 int) {
	c.DrawLine(x0, y0, x1, y0)
	c.DrawLine(x1, y0, x1, y1)
	c.DrawLine(x1, y1, x0, y1)
	c.DrawLine(x0, y1, x0, y0)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render colors particle cells by heat and overlay cells with the theme's
// overlay color. Runs of equally colored cells share one style.
func (c *Canvas) Render(th Theme) string {
	var b strings.Builder
	for i, row := range c.Grid {
		var run strings.Builder
		var cur lipgloss.Color
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if cur == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(cur).Render(run.String()))
			}
			run.Reset()
		}

		for j, r := range row {
			var color lipgloss.Color
			switch {
			case c.Heat[i][j] >= 0:
				color = th.SpeedColor(c.Heat[i][j])
			case c.Overlay[i][j]:
				color = th.Overlay
			}
			if color != cur {
				flush()
				cur = color
			}
			run.WriteRune(r)
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
