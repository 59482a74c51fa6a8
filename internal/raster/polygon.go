package raster

import "fmt"

// DrawPolygon draws the outline of a closed polygon: one line per
// consecutive vertex pair, then a closing line from the last vertex back to
// the first. It needs at least two vertices; otherwise the canvas is left
// untouched and ErrInsufficientVertices is returned.
func (c *Canvas) DrawPolygon(vertices []Point, col Color) error {
	n := len(vertices)
	if n < 2 {
		return fmt.Errorf("%w: outline needs at least 2, got %d", ErrInsufficientVertices, n)
	}

	for i := 0; i < n-1; i++ {
		c.DrawLine(vertices[i], vertices[i+1], col)
	}
	c.DrawLine(vertices[n-1], vertices[0], col)
	return nil
}

// DrawPolyline draws an open chain of lines through the vertices.
// A single vertex draws one pixel; an empty slice draws nothing.
func (c *Canvas) DrawPolyline(vertices []Point, col Color) {
	switch len(vertices) {
	case 0:
		return
	case 1:
		c.SetPixel(vertices[0].X, vertices[0].Y, col)
		return
	}
	for i := 0; i+1 < len(vertices); i++ {
		c.DrawLine(vertices[i], vertices[i+1], col)
	}
}
