// Command ssh serves a terminal preview of the rendered scene over SSH.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/polyraster/internal/config"
	"github.com/tomz197/polyraster/internal/input"
	"github.com/tomz197/polyraster/internal/preview"
	"github.com/tomz197/polyraster/internal/raster"
	"github.com/tomz197/polyraster/internal/scene"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = ".ssh/raster_host_key"
)

func main() {
	logger := config.NewLogger("ssh")

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	scenePath := config.GetEnv("RASTER_SCENE", "")
	logger.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "scene", scenePath)

	canvas, err := renderScene(logger, scenePath)
	if err != nil {
		logger.Fatal("failed to render scene", "err", err)
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			viewerMiddleware(canvas, sceneTitle(scenePath), logger),
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// renderScene renders the scene once; every session views the same canvas.
// Shape errors are logged and the partial image is served.
func renderScene(logger *log.Logger, path string) (*raster.Canvas, error) {
	s, err := scene.LoadOrDemo(path)
	if err != nil {
		return nil, err
	}
	workers, err := config.GetEnvInt("RASTER_WORKERS", 1)
	if err != nil {
		return nil, err
	}

	composer := scene.Composer{Logger: logger, Workers: workers}
	canvas, err := composer.Render(s)
	if canvas == nil {
		return nil, err
	}
	if err != nil {
		logger.Warn("scene rendered with errors", "err", err)
	}
	return canvas, nil
}

func sceneTitle(path string) string {
	if path == "" {
		return "demo"
	}
	return path
}

// viewerMiddleware shows the canvas in the session's terminal until the
// user quits. The canvas is only read, so sessions can share it.
func viewerMiddleware(canvas *raster.Canvas, title string, logger *log.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			sessLog := logger.With("user", sess.User())
			sessLog.Info("New viewer session", "terminal", pty.Term, "cols", pty.Window.Width, "rows", pty.Window.Height)

			// Create a terminal size tracker that updates on window changes
			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			v := &preview.Viewer{
				Image:  canvas,
				Title:  title,
				Out:    sess,
				Input:  input.StartStream(bufio.NewReader(sess)),
				Size:   sizeTracker.getSize,
				Logger: sessLog,
			}
			if err := v.Run(sess.Context()); err != nil {
				if errors.Is(err, preview.ErrIdle) {
					fmt.Fprintln(sess, "Disconnected after inactivity.")
				} else if !errors.Is(err, context.Canceled) {
					sessLog.Warn("Viewer error", "err", err)
				}
			}

			sessLog.Info("Session ended")
			next(sess)
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies preview.TermSizeFunc
var _ preview.TermSizeFunc = (*sizeTracker)(nil).getSize
