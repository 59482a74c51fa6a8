// Package raster draws lines and polygons into a 24-bit pixel buffer.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// BytesPerPixel is the size of one pixel in the buffer (blue, green, red).
const BytesPerPixel = 3

// Canvas is a fixed-size pixel buffer.
// Pixels are stored row-major, top row first, 3 bytes each in B,G,R order.
//
// Writes outside the canvas are silently clipped.
// A Canvas is not safe for concurrent use.
type Canvas struct {
	width  int
	height int
	pix    []byte // Flat slice: [(y*width + x) * 3]
}

// NewCanvas allocates a zeroed (black) canvas.
// It fails with ErrAllocation if a dimension is not positive or the
// buffer size does not fit in an int.
func NewCanvas(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrAllocation, width, height)
	}
	if width > math.MaxInt/BytesPerPixel/height {
		return nil, fmt.Errorf("%w: %dx%d overflows buffer size", ErrAllocation, width, height)
	}
	return &Canvas{
		width:  width,
		height: height,
		pix:    make([]byte, width*height*BytesPerPixel),
	}, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.height
}

// Bytes returns the underlying buffer without copying.
// Callers must treat it as read-only.
func (c *Canvas) Bytes() []byte {
	return c.pix
}

// Row returns the bytes of row y, or nil if y is out of range.
func (c *Canvas) Row(y int) []byte {
	if y < 0 || y >= c.height {
		return nil
	}
	stride := c.width * BytesPerPixel
	return c.pix[y*stride : (y+1)*stride]
}

// Clear sets every pixel to col.
func (c *Canvas) Clear(col Color) {
	for i := 0; i < len(c.pix); i += BytesPerPixel {
		c.pix[i] = col.B
		c.pix[i+1] = col.G
		c.pix[i+2] = col.R
	}
}

// inBounds reports whether (x, y) lies on the canvas.
func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// SetPixel writes one pixel. Coordinates outside the canvas are ignored.
func (c *Canvas) SetPixel(x, y int, col Color) {
	if !c.inBounds(x, y) {
		return
	}
	i := (y*c.width + x) * BytesPerPixel
	c.pix[i] = col.B
	c.pix[i+1] = col.G
	c.pix[i+2] = col.R
}

// Pixel returns the color at (x, y).
func (c *Canvas) Pixel(x, y int) (Color, error) {
	if !c.inBounds(x, y) {
		return Color{}, fmt.Errorf("%w: (%d,%d) on %dx%d canvas", ErrOutOfBounds, x, y, c.width, c.height)
	}
	i := (y*c.width + x) * BytesPerPixel
	return Color{R: c.pix[i+2], G: c.pix[i+1], B: c.pix[i]}, nil
}

// At implements the image.Image interface.
func (c *Canvas) At(x, y int) color.Color {
	col, err := c.Pixel(x, y)
	if err != nil {
		return color.RGBA{}
	}
	return col
}

// Bounds implements the image.Image interface.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// ColorModel implements the image.Image interface.
func (c *Canvas) ColorModel() color.Model {
	return color.RGBAModel
}

// Ensure Canvas satisfies image.Image.
var _ image.Image = (*Canvas)(nil)
