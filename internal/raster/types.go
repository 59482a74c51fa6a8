package raster

import (
	"errors"
	"fmt"
)

// Errors reported by drawing operations.
// They only abort the failing call; the canvas stays usable.
var (
	ErrAllocation           = errors.New("raster: cannot allocate canvas")
	ErrInsufficientVertices = errors.New("raster: insufficient vertices")
	ErrOutOfBounds          = errors.New("raster: pixel out of bounds")
)

// Point is a pixel-grid coordinate. It is not validated against any canvas.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Color is an opaque 24-bit RGB color. The zero value is black.
type Color struct {
	R, G, B uint8
}

// Common colors.
var (
	Black  = Color{0, 0, 0}
	White  = Color{255, 255, 255}
	Red    = Color{255, 0, 0}
	Green  = Color{0, 255, 0}
	Blue   = Color{0, 0, 255}
	Yellow = Color{255, 255, 0}
)

// RGB returns the color with the given channel values.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// RGBA implements the color.Color interface. Colors are always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
