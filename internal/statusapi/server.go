// Package statusapi exposes the engine's read-only state over HTTP and a
// WebSocket event stream, for the external authoring-UI collaborator. It
// never issues commands back into the engine — it only serialises state
// the core already computed.
package statusapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/gorilla/websocket"

	"holophonix-engine/internal/engine"
)

// Server is the status API's Echo application.
type Server struct {
	echo     *echo.Echo
	eng      *engine.Engine
	upgrader websocket.Upgrader
	hub      *hub
}

// New constructs a status API bound to eng.
func New(eng *engine.Engine) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger())

	s := &Server{
		eng: eng,
		echo: e,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		hub: newHub(),
	}
	s.registerRoutes()
	return s
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			if req.URL.Path == "/events" || req.URL.Path == "/health" {
				slog.Debug("statusapi request", "method", req.Method, "path", req.URL.Path,
					"status", c.Response().Status, "duration_ms", time.Since(start).Milliseconds())
				return nil
			}
			slog.Info("statusapi request", "method", req.Method, "path", req.URL.Path,
				"status", c.Response().Status, "duration_ms", time.Since(start).Milliseconds(),
				"remote", c.RealIP())
			return nil
		}
	}
}

// Echo exposes the underlying Echo instance for tests.
func (s *Server) Echo() *echo.Echo { return s.echo }

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/api/snapshot", s.handleSnapshot)
	s.echo.GET("/events", s.handleEvents)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Run starts Echo and blocks until ctx cancellation or startup failure,
// mirroring the teacher's graceful-shutdown dance.
func (s *Server) Run(ctx context.Context, addr string) error {
	go s.hub.run(ctx, s.eng)

	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("statusapi: shutting down")
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutCtx)
	}
}
