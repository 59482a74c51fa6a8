// Command web serves the rendered scene over HTTP and renders posted scenes.
package main

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/tomz197/polyraster/internal/config"
	"github.com/tomz197/polyraster/internal/scene"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

func main() {
	logger := config.NewLogger("web")

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	scenePath := config.GetEnv("RASTER_SCENE", "")

	workers, err := config.GetEnvInt("RASTER_WORKERS", 1)
	if err != nil {
		logger.Fatal("bad configuration", "err", err)
	}

	s, err := scene.LoadOrDemo(scenePath)
	if err != nil {
		logger.Fatal("failed to load scene", "err", err)
	}

	srv, err := newServer(s, serverOptions{
		Title:   "polyraster",
		SSHHost: sshHost,
		Workers: workers,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("failed to render scene", "err", err)
	}

	addr := fmt.Sprintf("%s:%s", host, port)
	logger.Info("Starting web server", "url", "http://"+addr)
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
