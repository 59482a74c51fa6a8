// Command raster renders a polygon scene into a 24-bit BMP file and can
// preview the result, or any BMP file, in the terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	xbmp "golang.org/x/image/bmp"
	"golang.org/x/term"

	"github.com/tomz197/polyraster/internal/bmp"
	"github.com/tomz197/polyraster/internal/config"
	"github.com/tomz197/polyraster/internal/input"
	"github.com/tomz197/polyraster/internal/preview"
	"github.com/tomz197/polyraster/internal/scene"
)

// options holds the parsed command line.
type options struct {
	scenePath   string
	output      string
	width       int
	height      int
	intercept   string
	workers     int
	topDown     bool
	strict      bool
	dump        bool
	preview     bool
	interactive bool
	view        string
}

func main() {
	logger := config.NewLogger("raster")
	if err := run(logger, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Error("raster failed", "err", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options

	workers, err := config.GetEnvInt("RASTER_WORKERS", 1)
	if err != nil {
		return opts, err
	}

	fs := flag.NewFlagSet("raster", flag.ContinueOnError)
	fs.StringVar(&opts.scenePath, "scene", config.GetEnv("RASTER_SCENE", ""), "scene JSON file (default: built-in star)")
	fs.StringVar(&opts.output, "o", config.GetEnv("RASTER_OUT", config.DefaultOutput), "output BMP file")
	fs.IntVar(&opts.width, "width", 0, "override scene width")
	fs.IntVar(&opts.height, "height", 0, "override scene height")
	fs.StringVar(&opts.intercept, "intercept", "", "fill intercept arithmetic: float or truncate (default: scene setting)")
	fs.IntVar(&opts.workers, "workers", workers, "goroutines per polygon fill")
	fs.BoolVar(&opts.topDown, "topdown", false, "store rows top-down (negative height)")
	fs.BoolVar(&opts.strict, "strict", false, "exit with an error if any shape fails")
	fs.BoolVar(&opts.dump, "dump", false, "print the scene as JSON and exit")
	fs.BoolVar(&opts.preview, "preview", false, "print the result to the terminal")
	fs.BoolVar(&opts.interactive, "interactive", false, "show the result full-screen until q is pressed")
	fs.StringVar(&opts.view, "view", "", "preview an existing BMP file instead of rendering")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

func run(logger *log.Logger, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	if opts.view != "" {
		img, err := decodeBMP(opts.view)
		if err != nil {
			return err
		}
		logger.Info("loaded bitmap", "file", opts.view, "size", img.Bounds().Size())
		return show(logger, stdout, img, opts.view, opts.interactive)
	}

	s, err := loadScene(opts)
	if err != nil {
		return err
	}
	if opts.dump {
		return s.Save(stdout)
	}

	composer := scene.Composer{Logger: logger, Workers: opts.workers}
	canvas, shapeErr := composer.Render(s)
	if canvas == nil {
		return shapeErr
	}

	if err := bmp.WriteFile(opts.output, canvas, &bmp.Options{TopDown: opts.topDown}); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	logger.Info("image generated", "file", opts.output, "width", canvas.Width(), "height", canvas.Height(), "shapes", len(s.Shapes))

	if shapeErr != nil && opts.strict {
		return shapeErr
	}

	if opts.preview || opts.interactive {
		return show(logger, stdout, canvas, opts.output, opts.interactive)
	}
	return nil
}

// loadScene reads the scene file (or the demo) and applies flag overrides.
func loadScene(opts options) (*scene.Scene, error) {
	s, err := scene.LoadOrDemo(opts.scenePath)
	if err != nil {
		return nil, err
	}
	if opts.width > 0 {
		s.Width = opts.width
	}
	if opts.height > 0 {
		s.Height = opts.height
	}
	if opts.intercept != "" {
		s.Intercept = opts.intercept
	}
	return s, s.Validate()
}

func decodeBMP(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := xbmp.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// show prints img, or runs the full-screen viewer when interactive is set.
func show(logger *log.Logger, stdout io.Writer, img image.Image, title string, interactive bool) error {
	if !interactive {
		cols, rows, err := preview.DefaultTermSizeFunc()
		if err != nil || cols <= 0 || rows <= 1 {
			cols, rows = 80, 25
		}
		_, err = preview.Print(stdout, img, cols, rows-1)
		return err
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("-interactive needs a terminal on stdin")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	v := &preview.Viewer{
		Image:  img,
		Title:  title,
		Out:    stdout,
		Input:  input.StartStream(bufio.NewReader(os.Stdin)),
		Logger: logger,
	}
	if err := v.Run(ctx); err != nil && !errors.Is(err, preview.ErrIdle) && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
