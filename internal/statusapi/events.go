package statusapi

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const eventWriteTimeout = 5 * time.Second

// handleEvents upgrades the request and streams engine events to the
// client as JSON until it disconnects. The connection is read-only from
// the client's side: inbound frames are drained and discarded so the
// peer's pongs/closes don't block the upgrader.
func (s *Server) handleEvents(c echo.Context) error {
	remoteAddr := c.RealIP()

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error("statusapi: ws upgrade failed", "remote", remoteAddr, "err", err)
		return fmt.Errorf("upgrade websocket: %w", err)
	}
	s.serveEvents(conn, remoteAddr)
	return nil
}

func (s *Server) serveEvents(conn *websocket.Conn, remoteAddr string) {
	defer conn.Close()

	ch := s.hub.subscribe()
	defer s.hub.unsubscribe(ch)

	slog.Debug("statusapi: events subscriber connected", "remote", remoteAddr)

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for msg := range ch {
		_ = conn.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			slog.Debug("statusapi: events write error", "remote", remoteAddr, "err", err)
			return
		}
	}
}
