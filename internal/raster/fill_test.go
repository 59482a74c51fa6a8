package raster

import (
	"bytes"
	"errors"
	"image"
	"math"
	"testing"
)

// pentagram is a self-intersecting five-pointed star around (25,25).
var pentagram = []Point{{25, 5}, {37, 41}, {6, 19}, {44, 19}, {13, 41}}

func TestFillTriangle(t *testing.T) {
	c := mustCanvas(t, 20, 20)
	if err := c.FillPolygon([]Point{{0, 0}, {10, 0}, {5, 10}}, Yellow); err != nil {
		t.Fatal(err)
	}
	if got, _ := c.Pixel(5, 5); got != Yellow {
		t.Errorf("interior (5,5) = %v, want %v", got, Yellow)
	}
	if got, _ := c.Pixel(0, 19); got != Black {
		t.Errorf("corner (0,19) = %v, want untouched", got)
	}
}

func TestOutlineThenFillSquare(t *testing.T) {
	square := []Point{{2, 2}, {8, 2}, {8, 8}, {2, 8}}

	c := mustCanvas(t, 12, 12)
	if err := c.DrawPolygon(square, Red); err != nil {
		t.Fatal(err)
	}
	if err := c.FillPolygon(square, Yellow); err != nil {
		t.Fatal(err)
	}

	if got, _ := c.Pixel(5, 5); got != Yellow {
		t.Errorf("(5,5) = %v, want filled", got)
	}
	if got, _ := c.Pixel(0, 0); got != Black {
		t.Errorf("(0,0) = %v, want untouched", got)
	}
	// the right and bottom edges are not interior and keep the outline
	if got, _ := c.Pixel(8, 5); got != Red {
		t.Errorf("(8,5) = %v, want outline", got)
	}
	if got, _ := c.Pixel(5, 8); got != Red {
		t.Errorf("(5,8) = %v, want outline", got)
	}
}

func TestFillConvexRegion(t *testing.T) {
	square := []Point{{2, 2}, {8, 2}, {8, 8}, {2, 8}}
	c := mustCanvas(t, 12, 12)
	if err := c.FillPolygon(square, White); err != nil {
		t.Fatal(err)
	}

	for y := range 12 {
		for x := range 12 {
			got, _ := c.Pixel(x, y)
			filled := got == White
			want := x >= 2 && x < 8 && y >= 2 && y < 8
			if filled != want {
				t.Errorf("(%d,%d) filled = %t, want %t", x, y, filled, want)
			}
		}
	}
}

func TestFillEvenOddHole(t *testing.T) {
	c := mustCanvas(t, 50, 50)
	if err := c.FillPolygon(pentagram, White); err != nil {
		t.Fatal(err)
	}

	// the central pentagon is crossed twice
	if got, _ := c.Pixel(25, 25); got != Black {
		t.Errorf("center (25,25) = %v, want hole", got)
	}
	if got, _ := c.Pixel(25, 10); got != White {
		t.Errorf("top point (25,10) = %v, want filled", got)
	}
}

func TestFillIdempotent(t *testing.T) {
	once := mustCanvas(t, 50, 50)
	twice := mustCanvas(t, 50, 50)

	if err := once.FillPolygon(pentagram, Green); err != nil {
		t.Fatal(err)
	}
	for range 2 {
		if err := twice.FillPolygon(pentagram, Green); err != nil {
			t.Fatal(err)
		}
	}
	if !bytes.Equal(once.Bytes(), twice.Bytes()) {
		t.Error("filling twice differs from filling once")
	}
}

func TestFillInsufficient(t *testing.T) {
	c := mustCanvas(t, 10, 10)
	before := bytes.Clone(c.Bytes())

	err := c.FillPolygon([]Point{{0, 0}, {9, 9}}, White)
	if !errors.Is(err, ErrInsufficientVertices) {
		t.Errorf("err = %v, want ErrInsufficientVertices", err)
	}
	if !bytes.Equal(c.Bytes(), before) {
		t.Error("canvas was modified")
	}
}

func TestFillClampsToCanvas(t *testing.T) {
	c := mustCanvas(t, 10, 10)
	big := []Point{{-5, -5}, {30, -5}, {30, 30}, {-5, 30}}
	if err := c.FillPolygon(big, White); err != nil {
		t.Fatal(err)
	}
	if n := len(litPixels(c, White)); n != 100 {
		t.Errorf("filled %d pixels, want all 100", n)
	}

	c = mustCanvas(t, 10, 10)
	outside := []Point{{20, 20}, {30, 20}, {25, 30}}
	if err := c.FillPolygon(outside, White); err != nil {
		t.Fatal(err)
	}
	if n := len(litPixels(c, White)); n != 0 {
		t.Errorf("polygon off the canvas filled %d pixels", n)
	}
}

func TestScanBoxExtremeVertices(t *testing.T) {
	bounds := image.Rect(0, 0, 10, 10)
	tests := []struct {
		name     string
		vertices []Point
		want     image.Rectangle
	}{
		{"max int corner", []Point{{0, 0}, {math.MaxInt, 0}, {0, math.MaxInt}}, bounds},
		{"min int corner", []Point{{math.MinInt, math.MinInt}, {5, 0}, {0, 5}}, image.Rect(0, 0, 6, 6)},
		{"beyond max", []Point{{math.MaxInt, math.MaxInt}, {math.MaxInt - 1, math.MaxInt}, {math.MaxInt, math.MaxInt - 1}}, image.Rectangle{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scanBox(tt.vertices, bounds); got != tt.want {
				t.Errorf("scanBox = %v, want %v", got, tt.want)
			}
		})
	}

	c := mustCanvas(t, 10, 10)
	if err := c.FillPolygon(tests[0].vertices, White); err != nil {
		t.Fatal(err)
	}
	if n := len(litPixels(c, White)); n != 100 {
		t.Errorf("filled %d pixels, want all 100", n)
	}
}

func TestFillHorizontalOnly(t *testing.T) {
	c := mustCanvas(t, 10, 10)
	flat := []Point{{1, 4}, {5, 4}, {8, 4}}
	if err := c.FillPolygon(flat, White); err != nil {
		t.Fatal(err)
	}
	if n := len(litPixels(c, White)); n != 0 {
		t.Errorf("degenerate polygon filled %d pixels", n)
	}
}

func TestFillParallelMatchesSequential(t *testing.T) {
	shapes := [][]Point{
		pentagram,
		{{165, 380}, {185, 360}, {180, 330}, {207, 345}, {233, 330}, {230, 360}, {250, 380}, {220, 385}, {205, 410}, {193, 383}},
		{{0, 0}, {10, 0}, {5, 10}},
	}
	for _, mode := range []InterceptMode{InterceptFloat, InterceptTruncate} {
		for i, shape := range shapes {
			seq := mustCanvas(t, 300, 450)
			par := mustCanvas(t, 300, 450)

			f := Filler{Intercept: mode}
			if err := f.Fill(seq, shape, White); err != nil {
				t.Fatal(err)
			}
			f.Workers = 4
			if err := f.Fill(par, shape, White); err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(seq.Bytes(), par.Bytes()) {
				t.Errorf("%v shape %d: parallel fill differs", mode, i)
			}
		}
	}
}

func TestContainsInterceptModes(t *testing.T) {
	// the edges (0,0)-(5,10) and (5,10)-(10,0) meet row 5 at x=2.5 and x=7.5
	tri := []Point{{0, 0}, {5, 10}, {10, 0}}

	tests := []struct {
		x      int
		mode   InterceptMode
		inside bool
	}{
		{2, InterceptFloat, false},
		{2, InterceptTruncate, true},
		{7, InterceptFloat, true},
		{7, InterceptTruncate, false},
		{5, InterceptFloat, true},
		{5, InterceptTruncate, true},
	}
	for _, tt := range tests {
		if got := Contains(tri, tt.x, 5, tt.mode); got != tt.inside {
			t.Errorf("Contains(x=%d, %v) = %t, want %t", tt.x, tt.mode, got, tt.inside)
		}
	}
}

func TestParseInterceptMode(t *testing.T) {
	for _, mode := range []InterceptMode{InterceptFloat, InterceptTruncate} {
		got, err := ParseInterceptMode(mode.String())
		if err != nil || got != mode {
			t.Errorf("ParseInterceptMode(%q) = %v, %v", mode.String(), got, err)
		}
	}
	if m, err := ParseInterceptMode(""); err != nil || m != InterceptFloat {
		t.Errorf("empty mode = %v, %v; want float", m, err)
	}
	if _, err := ParseInterceptMode("round"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
