package main

import (
	"bytes"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	xbmp "golang.org/x/image/bmp"

	"github.com/tomz197/polyraster/internal/raster"
	"github.com/tomz197/polyraster/internal/scene"
)

func testServer(t *testing.T) http.Handler {
	t.Helper()
	srv, err := newServer(scene.Demo(), serverOptions{
		Title:   "test <scene>",
		SSHHost: "example.org",
		Workers: 2,
		Logger:  log.New(io.Discard),
	})
	if err != nil {
		t.Fatal(err)
	}
	return srv.routes()
}

func do(t *testing.T, h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, body))
	return rec
}

func TestIndex(t *testing.T) {
	rec := do(t, testServer(t), http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "test &lt;scene&gt;") {
		t.Error("title not escaped into page")
	}
	if !strings.Contains(body, "example.org") {
		t.Error("ssh host missing from page")
	}
}

func TestRenderBMP(t *testing.T) {
	h := testServer(t)
	for _, target := range []string{"/render.bmp", "/render.bmp?topdown=1"} {
		rec := do(t, h, http.MethodGet, target, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", target, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/bmp" {
			t.Errorf("%s: Content-Type = %q", target, ct)
		}
		img, err := xbmp.Decode(rec.Body)
		if err != nil {
			t.Fatalf("%s: %v", target, err)
		}
		got := color.RGBAModel.Convert(img.At(207, 370))
		if want := color.RGBAModel.Convert(raster.Yellow); got != want {
			t.Errorf("%s: star interior = %v, want %v", target, got, want)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	rec := do(t, testServer(t), http.MethodGet, "/render.png", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Errorf("bounds = %v", b)
	}
}

func TestPostScene(t *testing.T) {
	sceneJSON := `{"width": 20, "height": 20, "background": "#000000", "shapes": [
		{"kind": "polygon", "points": [[0,0],[10,0],[5,10]], "fill": "#00ff00"},
		{"kind": "polygon", "points": [[1,1]], "outline": "#ffffff"}
	]}`
	rec := do(t, testServer(t), http.MethodPost, "/render", strings.NewReader(sceneJSON))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Shape-Errors"); got != "1" {
		t.Errorf("X-Shape-Errors = %q, want 1", got)
	}

	img, err := xbmp.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	got := color.RGBAModel.Convert(img.At(5, 5))
	if want := color.RGBAModel.Convert(raster.Green); got != want {
		t.Errorf("(5,5) = %v, want %v", got, want)
	}
}

func TestPostScenePNG(t *testing.T) {
	sceneJSON := `{"width": 4, "height": 3, "background": "#ff0000", "shapes": []}`
	rec := do(t, testServer(t), http.MethodPost, "/render?format=png", strings.NewReader(sceneJSON))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestPostSceneErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed", `{"width":`, http.StatusBadRequest},
		{"invalid", `{"width": 0, "height": 5, "background": "#000", "shapes": []}`, http.StatusBadRequest},
		{"far coordinates", `{"width": 10, "height": 10, "background": "#000", "shapes": [{"kind": "line", "points": [[0,0],[3000000000,0]], "outline": "#fff"}]}`, http.StatusBadRequest},
		{"huge canvas", `{"width": 100000, "height": 100000, "background": "#000", "shapes": []}`, http.StatusRequestEntityTooLarge},
		{"huge body", `{"width": 1, "height": 1, "background": "#000", "shapes": [], "pad": "` + strings.Repeat("x", 2<<20) + `"}`, http.StatusRequestEntityTooLarge},
	}
	h := testServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/render", bytes.NewBufferString(tt.body))
			if rec.Code != tt.code {
				t.Errorf("status = %d, want %d", rec.Code, tt.code)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, testServer(t), http.MethodGet, "/render", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
