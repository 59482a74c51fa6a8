package scene

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/tomz197/polyraster/internal/raster"
)

// Composer renders scenes into fresh canvases.
type Composer struct {
	// Logger receives per-shape diagnostics. Nil disables logging.
	Logger *log.Logger

	// Workers is passed to the fill engine (see raster.Filler).
	Workers int
}

// Render allocates a canvas, clears it to the background and draws every
// shape in order. A failing shape does not stop the render: the canvas is
// returned together with the joined shape errors. A nil canvas means the
// scene itself was unusable.
func (c *Composer) Render(s *Scene) (*raster.Canvas, error) {
	mode, err := raster.ParseInterceptMode(s.Intercept)
	if err != nil {
		return nil, err
	}
	canvas, err := raster.NewCanvas(s.Width, s.Height)
	if err != nil {
		return nil, err
	}
	canvas.Clear(raster.Color(s.Background))

	filler := raster.Filler{Intercept: mode, Workers: c.Workers}

	var errs []error
	for i := range s.Shapes {
		sh := &s.Shapes[i]
		if c.Logger != nil {
			c.Logger.Debug("drawing shape", "index", i, "name", sh.Name, "kind", sh.Kind, "points", len(sh.Points))
		}
		if err := drawShape(canvas, &filler, sh); err != nil {
			if c.Logger != nil {
				c.Logger.Warn("shape skipped", "index", i, "name", sh.Name, "err", err)
			}
			errs = append(errs, fmt.Errorf("shape %d %q: %w", i, sh.Name, err))
		}
	}
	return canvas, errors.Join(errs...)
}

// drawShape draws one shape: outline first, then the interior.
func drawShape(canvas *raster.Canvas, filler *raster.Filler, sh *Shape) error {
	vertices := sh.Vertices()

	switch sh.Kind {
	case KindPolygon:
		if sh.Outline != nil {
			if err := canvas.DrawPolygon(vertices, raster.Color(*sh.Outline)); err != nil {
				return err
			}
		}
		if sh.Fill != nil {
			return filler.Fill(canvas, vertices, raster.Color(*sh.Fill))
		}
		return nil

	case KindLine:
		if len(vertices) < 2 {
			return fmt.Errorf("%w: line needs at least 2, got %d", raster.ErrInsufficientVertices, len(vertices))
		}
		if sh.Outline == nil {
			return errors.New("line has no outline color")
		}
		canvas.DrawPolyline(vertices, raster.Color(*sh.Outline))
		return nil
	}
	return fmt.Errorf("unknown shape kind %q", sh.Kind)
}
