package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/telesim/internal/array"
)

func isSet(c *Canvas, x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func countDots(c *Canvas) int {
	n := 0
	for y := 0; y < c.Height*4; y++ {
		for x := 0; x < c.Width*2; x++ {
			if isSet(c, x, y) {
				n++
			}
		}
	}
	return n
}

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	if c.String() != "\u2800\u2800\n" {
		t.Errorf("new canvas %q", c.String())
	}
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("cell 0 = %U, want U+2801", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("cell 1 = %U, want U+2880", c.Grid[0][1])
	}
	if n := countDots(c); n != 2 {
		t.Errorf("got %d dots, want 2", n)
	}
}

func TestDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0)
	for x := 0; x < 8; x++ {
		if !isSet(c, x, 0) {
			t.Errorf("pixel %d not set", x)
		}
	}
}

func TestPlotScalesSymmetrically(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Plot([]float64{0, 1, -1}, []float64{0, 0, 0})

	for _, p := range [][2]int{{10, 10}, {19, 10}, {0, 10}} {
		if !isSet(c, p[0], p[1]) {
			t.Errorf("expected pixel %v set", p)
		}
	}
}

func TestTrackJoinsSamples(t *testing.T) {
	// 2x1 cells is a 4x4 dot grid; y is flipped so (0,0) is bottom left
	c := Track([]float64{0, 1}, []float64{0, 1}, 2, 1)
	for _, p := range [][2]int{{0, 3}, {1, 2}, {2, 1}, {3, 0}} {
		if !isSet(c, p[0], p[1]) {
			t.Errorf("expected pixel %v set", p)
		}
	}
	if n := countDots(c); n != 4 {
		t.Errorf("got %d dots, want 4", n)
	}
}

func TestTrackConstantAxis(t *testing.T) {
	c := Track([]float64{-2, 0, 2}, []float64{5, 5, 5}, 5, 2)
	// y has no span and sits on the middle row of 8
	for x := 0; x < 10; x++ {
		if !isSet(c, x, 4) {
			t.Errorf("pixel (%d, 4) not set", x)
		}
	}
	if n := countDots(c); n != 10 {
		t.Errorf("got %d dots, want 10", n)
	}

	if n := countDots(Track(nil, nil, 3, 3)); n != 0 {
		t.Errorf("empty track drew %d dots", n)
	}
}

func TestFocalPlane(t *testing.T) {
	dets, err := array.BuildDetectors(array.Bands{array.NewBand("f150", 7, 150, 30)}, 1, array.GeometryHex, 0)
	if err != nil {
		t.Fatal(err)
	}
	c := FocalPlane(dets, 20, 10)

	if dots := countDots(c); dots != 7 {
		t.Errorf("got %d dots, want 7", dots)
	}
	if n := strings.Count(c.String(), "\n"); n != 10 {
		t.Errorf("got %d rows, want 10", n)
	}
}
