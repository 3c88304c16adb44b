package viz

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/telesim/internal/array"
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

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// Set turns on the sub-pixel (x, y). The canvas is (Width*2) x (Height*4)
// sub-pixels; out of range points are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
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
		c.Set(x0, y0)
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

// Plot draws the points (xs[i], ys[i]) scaled by a common factor into the
// canvas, centered on the origin. Screen y grows downwards.
func (c *Canvas) Plot(xs, ys []float64) {
	extent := 0.0
	for i := range xs {
		extent = math.Max(extent, math.Max(math.Abs(xs[i]), math.Abs(ys[i])))
	}
	w, h := c.Width*2, c.Height*4
	half := float64(min(w, h)-1) / 2
	scale := 0.0
	if extent > 0 {
		scale = half / extent
	}
	cx, cy := float64(w-1)/2, float64(h-1)/2
	for i := range xs {
		c.Set(int(math.Round(cx+xs[i]*scale)), int(math.Round(cy-ys[i]*scale)))
	}
}

// FocalPlane draws the angular offsets of dets.
func FocalPlane(dets array.Detectors, w, h int) *Canvas {
	xs := make([]float64, len(dets))
	ys := make([]float64, len(dets))
	for i, d := range dets {
		xs[i], ys[i] = d.OffsetX, d.OffsetY
	}
	c := NewCanvas(w, h)
	c.Plot(xs, ys)
	return c
}

// Track draws the path through (xs[i], ys[i]) stretched to fill the canvas
// on each axis. A constant axis sits in the middle.
func Track(xs, ys []float64, w, h int) *Canvas {
	c := NewCanvas(w, h)
	if len(xs) == 0 || len(xs) != len(ys) {
		return c
	}
	px := fit(xs, w*2, false)
	py := fit(ys, h*4, true)
	c.Set(px[0], py[0])
	for i := 1; i < len(px); i++ {
		c.DrawLine(px[i-1], py[i-1], px[i], py[i])
	}
	return c
}

// fit maps vs onto 0..n-1, reversed when flip is set.
func fit(vs []float64, n int, flip bool) []int {
	lo, hi := floats.Min(vs), floats.Max(vs)
	out := make([]int, len(vs))
	for i, v := range vs {
		f := 0.5
		if hi > lo {
			f = (v - lo) / (hi - lo)
		}
		if flip {
			f = 1 - f
		}
		out[i] = int(math.Round(f * float64(n-1)))
	}
	return out
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
