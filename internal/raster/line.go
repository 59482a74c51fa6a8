package raster

import "iter"

// LinePoints yields the pixels of the segment from p0 to p1 using
// Bresenham's algorithm. Both endpoints are included; p0 == p1 yields a
// single point.
//
// The sequence depends on direction: for some diagonals, swapping p0 and p1
// selects a different set of pixels.
func LinePoints(p0, p1 Point) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		x, y := p0.X, p0.Y

		dx := abs(p1.X - x)
		dy := abs(p1.Y - y)

		sx := 1
		if x > p1.X {
			sx = -1
		}
		sy := 1
		if y > p1.Y {
			sy = -1
		}

		err := dx - dy

		for {
			if !yield(Point{x, y}) {
				return
			}

			if x == p1.X && y == p1.Y {
				return
			}

			e2 := 2 * err
			if e2 > -dy {
				err -= dy
				x += sx
			}
			if e2 < dx {
				err += dx
				y += sy
			}
		}
	}
}

// DrawLine draws the segment from p0 to p1, endpoints included.
// Pixels falling outside the canvas are clipped.
func (c *Canvas) DrawLine(p0, p1 Point, col Color) {
	for p := range LinePoints(p0, p1) {
		c.SetPixel(p.X, p.Y, col)
	}
}
