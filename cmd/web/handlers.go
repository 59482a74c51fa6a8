package main

import (
	"bytes"
	"errors"
	"html"
	"image/png"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tomz197/polyraster/internal/bmp"
	"github.com/tomz197/polyraster/internal/config"
	"github.com/tomz197/polyraster/internal/raster"
	"github.com/tomz197/polyraster/internal/scene"
)

type serverOptions struct {
	Title   string
	SSHHost string
	Workers int
	Logger  *log.Logger
}

// server holds the pre-rendered scene. The canvas is only read after
// newServer returns, so handlers may run concurrently.
type server struct {
	opts     serverOptions
	page     string
	canvas   *raster.Canvas
	composer scene.Composer
	logger   *log.Logger
}

func newServer(s *scene.Scene, opts serverOptions) (*server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	composer := scene.Composer{Logger: logger, Workers: opts.Workers}
	canvas, err := composer.Render(s)
	if canvas == nil {
		return nil, err
	}
	if err != nil {
		logger.Warn("scene rendered with errors", "err", err)
	}

	page := strings.NewReplacer(
		"{{.Title}}", html.EscapeString(opts.Title),
		"{{.SSHHost}}", html.EscapeString(opts.SSHHost),
	).Replace(htmlPage)

	return &server{
		opts:     opts,
		page:     page,
		canvas:   canvas,
		composer: composer,
		logger:   logger,
	}, nil
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /render.bmp", s.handleBMP)
	mux.HandleFunc("GET /render.png", s.handlePNG)
	mux.HandleFunc("POST /render", s.handleRender)
	return mux
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(s.page))
}

func (s *server) handleBMP(w http.ResponseWriter, r *http.Request) {
	s.writeBMP(w, s.canvas, r.URL.Query().Get("topdown") == "1")
}

func (s *server) handlePNG(w http.ResponseWriter, r *http.Request) {
	s.writePNG(w, s.canvas)
}

// handleRender renders a posted JSON scene. Scenes failing validation,
// including points beyond scene.CoordinateFactor times the canvas size, are
// rejected before any drawing. Shape errors do not fail the request; their
// count is reported in the X-Shape-Errors header.
func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, config.MaxSceneBytes)
	sc, err := scene.Load(body)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "scene too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if sc.Width > config.MaxWebPixels/sc.Height {
		http.Error(w, "canvas too large", http.StatusRequestEntityTooLarge)
		return
	}

	canvas, err := s.composer.Render(sc)
	if canvas == nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		n := 1
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			n = len(joined.Unwrap())
		}
		w.Header().Set("X-Shape-Errors", strconv.Itoa(n))
		s.logger.Warn("posted scene rendered with errors", "remote", r.RemoteAddr, "err", err)
	}

	if r.URL.Query().Get("format") == "png" {
		s.writePNG(w, canvas)
		return
	}
	s.writeBMP(w, canvas, r.URL.Query().Get("topdown") == "1")
}

func (s *server) writeBMP(w http.ResponseWriter, canvas *raster.Canvas, topDown bool) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, canvas, &bmp.Options{TopDown: topDown}); err != nil {
		s.logger.Error("bmp encode failed", "err", err)
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/bmp")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

func (s *server) writePNG(w http.ResponseWriter, canvas *raster.Canvas) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		s.logger.Error("png encode failed", "err", err)
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}
