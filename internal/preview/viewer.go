package preview

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/polyraster/internal/config"
	"github.com/tomz197/polyraster/internal/input"
)

// ErrIdle is returned by Viewer.Run when no key was pressed for IdleTimeout.
var ErrIdle = errors.New("preview: idle timeout")

// Viewer shows an image full-screen and keeps it fitted to the terminal
// until the user quits.
//
// Keys: q/Esc/Ctrl-C quit, r redraws, i toggles the status line.
type Viewer struct {
	Image  image.Image
	Title  string // shown in the status line
	Out    io.Writer
	Input  *input.Stream
	Size   TermSizeFunc // nil means DefaultTermSizeFunc
	Logger *log.Logger  // nil disables logging

	PollInterval time.Duration // zero means config.ViewerPollInterval
	IdleTimeout  time.Duration // zero means config.ViewerIdleTimeout

	cols, rows int
	showInfo   bool
	layout     Layout
	scaled     *image.RGBA
}

// Run blocks until the user quits, the input closes, ctx is done or the
// viewer was idle for too long.
func (v *Viewer) Run(ctx context.Context) error {
	sizeFunc := v.Size
	if sizeFunc == nil {
		sizeFunc = DefaultTermSizeFunc
	}
	poll := v.PollInterval
	if poll <= 0 {
		poll = config.ViewerPollInterval
	}
	idle := v.IdleTimeout
	if idle <= 0 {
		idle = config.ViewerIdleTimeout
	}
	defer v.Input.Stop()

	HideCursor(v.Out)
	defer func() {
		fmt.Fprint(v.Out, "\033[0m")
		ClearScreen(v.Out)
		ShowCursor(v.Out)
	}()

	if err := v.updateSize(sizeFunc, true); err != nil {
		return err
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	lastInput := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		in := input.ReadInput(v.Input)
		if len(in.Pressed) > 0 {
			lastInput = time.Now()
		}
		if in.Quit {
			return nil
		}
		if time.Since(lastInput) > idle {
			return ErrIdle
		}

		force := in.Redraw
		if in.Info {
			v.showInfo = !v.showInfo
			force = true
		}
		if err := v.updateSize(sizeFunc, force); err != nil {
			return err
		}
	}
}

// updateSize redraws when the terminal size changed or force is set.
func (v *Viewer) updateSize(sizeFunc TermSizeFunc, force bool) error {
	cols, rows, err := sizeFunc()
	if err != nil {
		return fmt.Errorf("preview: terminal size: %w", err)
	}
	if !force && cols == v.cols && rows == v.rows {
		return nil
	}
	if v.Logger != nil && (cols != v.cols || rows != v.rows) {
		v.Logger.Debug("terminal resized", "cols", cols, "rows", rows)
	}
	v.cols, v.rows = cols, rows
	return v.draw()
}

func (v *Viewer) draw() error {
	cw := NewChunkWriter(v.Out, 0, 0)
	ClearScreen(cw)

	// keep the last row free for the status line
	rows := v.rows
	if v.showInfo {
		rows--
	}

	b := v.Image.Bounds()
	l := Fit(b.Dx(), b.Dy(), v.cols, rows)
	if l.Cols > 0 {
		if v.scaled == nil || l.Cols != v.layout.Cols || l.PixelHeight != v.layout.PixelHeight {
			v.scaled = scale(v.Image, l)
		}
		v.layout = l
		drawCells(cw, v.scaled, l, true)
	}

	if v.showInfo && v.rows > 0 {
		cw.SetOffset(0, 0)
		status := fmt.Sprintf(" %s %dx%d  [q]uit [r]edraw [i]nfo", v.Title, b.Dx(), b.Dy())
		if len(status) > v.cols {
			status = status[:max(v.cols, 0)]
		}
		cw.WriteAt(1, v.rows, status)
	}
	return cw.Flush()
}
