package preview

import (
	"image"
	"io"

	xdraw "golang.org/x/image/draw"

	"github.com/tomz197/polyraster/internal/config"
)

// Layout describes where a scaled image lands on the terminal.
type Layout struct {
	Cols        int // character columns used (= scaled pixel width)
	Rows        int // character rows used
	PixelHeight int // scaled pixel height, 2 per row (the last row may hold one)
	OffsetCol   int // 0-based columns skipped for centering
	OffsetRow   int // 0-based rows skipped for centering
}

// Fit scales an imgW x imgH image into at most cols x rows character cells,
// keeping the aspect ratio and centering the result. The used area is also
// limited to config.MaxPreviewCols x config.MaxPreviewRows.
func Fit(imgW, imgH, cols, rows int) Layout {
	if imgW <= 0 || imgH <= 0 || cols <= 0 || rows <= 0 {
		return Layout{}
	}
	maxCols := min(cols, config.MaxPreviewCols)
	maxPix := 2 * min(rows, config.MaxPreviewRows)

	var pw, ph int
	if maxCols*imgH <= maxPix*imgW {
		pw = maxCols
		ph = imgH * maxCols / imgW
	} else {
		ph = maxPix
		pw = imgW * maxPix / imgH
	}
	pw = max(pw, 1)
	ph = max(ph, 1)

	cellRows := (ph + 1) / 2
	return Layout{
		Cols:        pw,
		Rows:        cellRows,
		PixelHeight: ph,
		OffsetCol:   (cols - pw) / 2,
		OffsetRow:   (rows - cellRows) / 2,
	}
}

// scale resamples img to the layout's pixel size. Downscaling blends
// neighboring pixels so one-pixel outlines stay visible.
func scale(img image.Image, l Layout) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, l.Cols, l.PixelHeight))
	src := img.Bounds()

	var s xdraw.Scaler = xdraw.ApproxBiLinear
	if l.Cols >= src.Dx() {
		s = xdraw.NearestNeighbor
	}
	s.Scale(dst, dst.Bounds(), img, src, xdraw.Src, nil)
	return dst
}

func rgbAt(img *image.RGBA, x, y int) [3]uint8 {
	i := img.PixOffset(x, y)
	return [3]uint8{img.Pix[i], img.Pix[i+1], img.Pix[i+2]}
}

// drawCells writes the scaled pixels as half blocks. With positioned set,
// each row starts with a cursor move; otherwise rows end with a newline.
func drawCells(cw *ChunkWriter, px *image.RGBA, l Layout, positioned bool) {
	cw.SetOffset(l.OffsetCol, l.OffsetRow)

	for row := 0; row < l.Rows; row++ {
		if positioned {
			cw.MoveCursor(1, row+1)
		}

		var lastFg, lastBg [3]uint8
		haveColors := false

		topY, bottomY := 2*row, 2*row+1
		for col := 0; col < l.Cols; col++ {
			fg := rgbAt(px, col, topY)

			// odd height: the last row only has a top pixel
			if bottomY >= l.PixelHeight {
				cw.ResetColors()
				cw.WriteString("\033[38;2;")
				cw.writeRGB(fg)
				cw.WriteString("m")
				cw.WriteRune(BlockUpperHalf)
				haveColors = false
				continue
			}

			bg := rgbAt(px, col, bottomY)
			if !haveColors || fg != lastFg || bg != lastBg {
				cw.SetColors(fg, bg)
				lastFg, lastBg, haveColors = fg, bg, true
			}
			cw.WriteRune(BlockUpperHalf)
		}

		cw.ResetColors()
		if !positioned {
			cw.WriteString("\n")
		}
	}
}

// Render draws img centered on a cols x rows terminal using absolute
// cursor positioning. The screen is not cleared first.
func Render(w io.Writer, img image.Image, cols, rows int) (Layout, error) {
	b := img.Bounds()
	l := Fit(b.Dx(), b.Dy(), cols, rows)
	if l.Cols == 0 {
		return l, nil
	}

	cw := NewChunkWriter(w, 0, 0)
	drawCells(cw, scale(img, l), l, true)
	return l, cw.Flush()
}

// Print writes img as plain lines that fit into cols x rows cells, for
// scrolling terminals and log files. The centering offsets are ignored.
func Print(w io.Writer, img image.Image, cols, rows int) (Layout, error) {
	b := img.Bounds()
	l := Fit(b.Dx(), b.Dy(), cols, rows)
	if l.Cols == 0 {
		return l, nil
	}

	cw := NewChunkWriter(w, 0, 0)
	drawCells(cw, scale(img, l), l, false)
	return l, cw.Flush()
}
