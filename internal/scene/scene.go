// Package scene describes what to draw: canvas size, background and an
// ordered list of shapes. Scenes are loaded from JSON or built in code.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/polyraster/internal/raster"
)

// CoordinateFactor bounds shape coordinates to
// [-CoordinateFactor*max(width, height), CoordinateFactor*max(width, height)].
// Lines are stepped pixel by pixel even off the canvas, so the bound keeps
// the work proportional to the canvas and the edge arithmetic within int.
const CoordinateFactor = 4

// ErrCoordinateRange is returned by Validate for points outside the bound.
var ErrCoordinateRange = errors.New("scene: point out of range")

// Kind is the type of a shape.
type Kind string

// Shape kinds.
const (
	KindPolygon Kind = "polygon" // closed; outlined, then filled
	KindLine    Kind = "line"    // open chain of segments
)

// Color is a raster.Color stored in JSON as "#rrggbb" (or "#rgb").
type Color raster.Color

// UnmarshalJSON implements json.Unmarshaler.
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("scene: color must be a hex string: %w", err)
	}
	col, err := colorful.Hex(s)
	if err != nil {
		return fmt.Errorf("scene: bad color %q: %w", s, err)
	}
	r, g, b := col.RGB255()
	*c = Color{R: r, G: g, B: b}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(raster.Color(c).String())
}

// Point is a raster.Point stored in JSON as [x, y].
type Point raster.Point

// UnmarshalJSON implements json.Unmarshaler.
func (p *Point) UnmarshalJSON(data []byte) error {
	var xy [2]int
	if err := json.Unmarshal(data, &xy); err != nil {
		return fmt.Errorf("scene: point must be [x, y]: %w", err)
	}
	*p = Point{X: xy[0], Y: xy[1]}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

// Shape is one drawing instruction.
// Polygons draw the outline first (if set) and then fill (if set).
// Lines require an outline color.
type Shape struct {
	Name    string  `json:"name,omitempty"`
	Kind    Kind    `json:"kind"`
	Points  []Point `json:"points"`
	Outline *Color  `json:"outline,omitempty"`
	Fill    *Color  `json:"fill,omitempty"`
}

// Vertices returns the shape's points as raster points.
func (s *Shape) Vertices() []raster.Point {
	out := make([]raster.Point, len(s.Points))
	for i, p := range s.Points {
		out[i] = raster.Point(p)
	}
	return out
}

// Scene is a complete render description.
type Scene struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Background Color   `json:"background"`
	Intercept  string  `json:"intercept,omitempty"` // "float" (default) or "truncate"
	Shapes     []Shape `json:"shapes"`
}

// Validate checks the scene structure and the coordinate bound. Vertex
// counts are not checked here; they are reported per shape when rendering.
func (s *Scene) Validate() error {
	var errs []error
	sized := s.Width > 0 && s.Height > 0
	if !sized {
		errs = append(errs, fmt.Errorf("scene: invalid size %dx%d", s.Width, s.Height))
	}
	if _, err := raster.ParseInterceptMode(s.Intercept); err != nil {
		errs = append(errs, err)
	}
	for i, sh := range s.Shapes {
		switch sh.Kind {
		case KindPolygon:
			if sh.Outline == nil && sh.Fill == nil {
				errs = append(errs, fmt.Errorf("scene: shape %d: polygon needs an outline or fill color", i))
			}
		case KindLine:
			if sh.Outline == nil {
				errs = append(errs, fmt.Errorf("scene: shape %d: line needs an outline color", i))
			}
			if sh.Fill != nil {
				errs = append(errs, fmt.Errorf("scene: shape %d: lines cannot be filled", i))
			}
		default:
			errs = append(errs, fmt.Errorf("scene: shape %d: unknown kind %q", i, sh.Kind))
		}
		if sized {
			if err := sh.checkRange(s.coordinateLimit()); err != nil {
				errs = append(errs, fmt.Errorf("shape %d: %w", i, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Scene) coordinateLimit() int {
	m := max(s.Width, s.Height)
	if m > math.MaxInt/CoordinateFactor {
		return math.MaxInt
	}
	return m * CoordinateFactor
}

// checkRange reports the first point outside [-limit, limit] on either axis.
func (sh *Shape) checkRange(limit int) error {
	for j, p := range sh.Points {
		if p.X < -limit || p.X > limit || p.Y < -limit || p.Y > limit {
			return fmt.Errorf("%w: point %d (%d,%d) exceeds ±%d", ErrCoordinateRange, j, p.X, p.Y, limit)
		}
	}
	return nil
}

// Load decodes and validates a JSON scene.
func Load(r io.Reader) (*Scene, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var s Scene
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("scene: decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads a JSON scene from the named file.
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Save writes the scene as indented JSON.
func (s *Scene) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func colorPtr(c raster.Color) *Color {
	sc := Color(c)
	return &sc
}

// Demo returns the built-in scene: a ten-point star on an 800x600 black
// canvas, outlined in black and filled yellow.
func Demo() *Scene {
	star := []Point{
		{165, 380}, {185, 360}, {180, 330}, {207, 345}, {233, 330},
		{230, 360}, {250, 380}, {220, 385}, {205, 410}, {193, 383},
	}
	return &Scene{
		Width:      800,
		Height:     600,
		Background: Color(raster.Black),
		Shapes: []Shape{
			{
				Name:    "star",
				Kind:    KindPolygon,
				Points:  star,
				Outline: colorPtr(raster.Black),
				Fill:    colorPtr(raster.Yellow),
			},
		},
	}
}

// LoadOrDemo loads the scene at path, or returns Demo when path is empty.
func LoadOrDemo(path string) (*Scene, error) {
	if path == "" {
		return Demo(), nil
	}
	return LoadFile(path)
}
