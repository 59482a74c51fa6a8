package raster

import (
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"
)

// InterceptMode selects how the x-intercept of an edge is computed by the
// even-odd test.
type InterceptMode int

const (
	// InterceptFloat computes the intercept in float64.
	InterceptFloat InterceptMode = iota
	// InterceptTruncate uses integer division truncating toward zero.
	// Boundary pixels then match images from older integer-only renderers.
	InterceptTruncate
)

func (m InterceptMode) String() string {
	switch m {
	case InterceptFloat:
		return "float"
	case InterceptTruncate:
		return "truncate"
	default:
		return fmt.Sprintf("InterceptMode(%d)", int(m))
	}
}

// ParseInterceptMode converts "float" or "truncate" to an InterceptMode.
// The empty string selects InterceptFloat.
func ParseInterceptMode(s string) (InterceptMode, error) {
	switch s {
	case "", "float":
		return InterceptFloat, nil
	case "truncate":
		return InterceptTruncate, nil
	}
	return 0, fmt.Errorf("raster: unknown intercept mode %q", s)
}

// Filler fills polygon interiors using the even-odd rule.
// The zero value is ready to use: float intercepts, single goroutine.
type Filler struct {
	// Intercept selects the intercept arithmetic.
	Intercept InterceptMode

	// Workers is the number of goroutines scanning rows.
	// Values below 2 scan sequentially. The output does not depend on it.
	Workers int
}

// FillPolygon fills the interior of the polygon with col using a zero Filler.
func (c *Canvas) FillPolygon(vertices []Point, col Color) error {
	var f Filler
	return f.Fill(c, vertices, col)
}

// Fill tests every pixel of the polygon's bounding box, clamped to the
// canvas, and writes col to the pixels inside. Pixels outside the polygon
// keep their current value. At least three vertices are required.
func (f *Filler) Fill(c *Canvas, vertices []Point, col Color) error {
	n := len(vertices)
	if n < 3 {
		return fmt.Errorf("%w: fill needs at least 3, got %d", ErrInsufficientVertices, n)
	}

	box := scanBox(vertices, c.Bounds())
	if box.Empty() {
		return nil
	}

	fillRow := func(y int) {
		for x := box.Min.X; x < box.Max.X; x++ {
			if Contains(vertices, x, y, f.Intercept) {
				c.SetPixel(x, y, col)
			}
		}
	}

	if f.Workers < 2 || box.Dy() < 2 {
		for y := box.Min.Y; y < box.Max.Y; y++ {
			fillRow(y)
		}
		return nil
	}

	// Rows touch disjoint parts of the buffer, so workers need no locking.
	var g errgroup.Group
	g.SetLimit(f.Workers)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		g.Go(func() error {
			fillRow(y)
			return nil
		})
	}
	return g.Wait()
}

// scanBox returns the half-open rectangle covering all vertices, clamped
// to bounds. Clamping happens before the +1 so vertices at math.MaxInt do
// not wrap.
func scanBox(vertices []Point, bounds image.Rectangle) image.Rectangle {
	minX, minY := vertices[0].X, vertices[0].Y
	maxX, maxY := minX, minY
	for _, v := range vertices[1:] {
		minX = min(minX, v.X)
		maxX = max(maxX, v.X)
		minY = min(minY, v.Y)
		maxY = max(maxY, v.Y)
	}

	minX, maxX = max(minX, bounds.Min.X), min(maxX, bounds.Max.X-1)
	minY, maxY = max(minY, bounds.Min.Y), min(maxY, bounds.Max.Y-1)
	if minX > maxX || minY > maxY {
		return image.Rectangle{}
	}
	return image.Rectangle{Min: image.Pt(minX, minY), Max: image.Pt(maxX+1, maxY+1)}
}

// Contains reports whether pixel (x, y) is inside the polygon under the
// even-odd rule. A horizontal ray from (x, y) towards +x crosses edge
// (v1, v2) when exactly one endpoint lies strictly below row y (larger Y)
// and the edge's intercept at row y is greater than x.
//
// InterceptTruncate multiplies coordinate differences in int, so it
// overflows once they approach the square root of math.MaxInt.
func Contains(vertices []Point, x, y int, mode InterceptMode) bool {
	n := len(vertices)
	inside := false
	for i := range n {
		v1 := vertices[i]
		v2 := vertices[(i+1)%n]

		// Horizontal edges never cross; also keeps the division below safe.
		if v1.Y == v2.Y {
			continue
		}
		if (v1.Y > y) == (v2.Y > y) {
			continue
		}

		var crosses bool
		switch mode {
		case InterceptTruncate:
			crosses = x < (v2.X-v1.X)*(y-v1.Y)/(v2.Y-v1.Y)+v1.X
		default:
			xi := float64(v1.X) + float64(v2.X-v1.X)*float64(y-v1.Y)/float64(v2.Y-v1.Y)
			crosses = float64(x) < xi
		}
		if crosses {
			inside = !inside
		}
	}
	return inside
}
