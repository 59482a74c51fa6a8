// Package bmp writes a raster.Canvas as an uncompressed 24-bit BMP file.
//
// The layout is fixed: a 14-byte file header, a 40-byte BITMAPINFOHEADER and
// the pixel rows, each padded with zeros to a multiple of four bytes.
package bmp

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/tomz197/polyraster/internal/raster"
)

// Header sizes in bytes.
const (
	FileHeaderSize = 14
	InfoHeaderSize = 40
	HeaderSize     = FileHeaderSize + InfoHeaderSize // offset of the pixel data
)

const bitsPerPixel = 24

// ErrTooLarge is returned when the image does not fit the 32-bit size fields.
var ErrTooLarge = errors.New("bmp: image too large")

// Options controls the row order of the written file.
// A nil *Options is equivalent to the zero value.
type Options struct {
	// TopDown writes a negative height and stores rows top row first.
	// By default the height is positive and rows are stored bottom-up, as
	// most BMP readers expect; either way row 0 of the canvas is displayed
	// at the top.
	TopDown bool
}

// RowStride returns the number of bytes of one padded pixel row.
func RowStride(width int) int {
	return (width*raster.BytesPerPixel + 3) &^ 3
}

// Header returns the file and info headers for a width x height image.
func Header(width, height int, topDown bool) ([]byte, error) {
	if width <= 0 || height <= 0 || width > math.MaxInt32 || height > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, width, height)
	}
	imageSize := uint64(RowStride(width)) * uint64(height)
	fileSize := imageSize + HeaderSize
	if fileSize > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, fileSize)
	}

	h := int32(height)
	if topDown {
		h = -h
	}

	le := binary.LittleEndian
	buf := make([]byte, 0, HeaderSize)

	// BITMAPFILEHEADER
	buf = append(buf, 'B', 'M')
	buf = le.AppendUint32(buf, uint32(fileSize))
	buf = le.AppendUint32(buf, 0) // reserved
	buf = le.AppendUint32(buf, HeaderSize)

	// BITMAPINFOHEADER
	buf = le.AppendUint32(buf, InfoHeaderSize)
	buf = le.AppendUint32(buf, uint32(int32(width)))
	buf = le.AppendUint32(buf, uint32(h))
	buf = le.AppendUint16(buf, 1) // color planes
	buf = le.AppendUint16(buf, bitsPerPixel)
	buf = le.AppendUint32(buf, 0) // BI_RGB, no compression
	buf = le.AppendUint32(buf, uint32(imageSize))
	buf = le.AppendUint32(buf, 0) // horizontal resolution
	buf = le.AppendUint32(buf, 0) // vertical resolution
	buf = le.AppendUint32(buf, 0) // palette colors
	buf = le.AppendUint32(buf, 0) // important colors

	return buf, nil
}

// Encode writes c to w in BMP format.
func Encode(w io.Writer, c *raster.Canvas, opts *Options) error {
	topDown := opts != nil && opts.TopDown

	width, height := c.Width(), c.Height()
	header, err := Header(width, height, topDown)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(header); err != nil {
		return err
	}

	pad := make([]byte, RowStride(width)-width*raster.BytesPerPixel)
	for i := range height {
		y := height - 1 - i
		if topDown {
			y = i
		}
		if _, err := bw.Write(c.Row(y)); err != nil {
			return err
		}
		if _, err := bw.Write(pad); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile encodes c into the named file, creating or truncating it.
func WriteFile(path string, c *raster.Canvas, opts *Options) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(f, c, opts)
}
