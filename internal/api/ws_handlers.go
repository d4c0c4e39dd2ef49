package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vytor/techquiz/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// handleQuizSocket pushes the caller's view: the current one on connect,
// then one message per state change. The socket closes when the view is
// disposed or the peer goes away.
func (s *Server) handleQuizSocket(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	c := controllerFromContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := c.Subscribe()
	defer cancel()

	// Reads only serve to notice the peer closing.
	closed := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(c.View()); err != nil {
		log.Debug("websocket write failed: %v", err)
		return
	}
	log.Debug("websocket subscribed")

	for {
		select {
		case view, ok := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "view disposed"))
				return
			}
			if err := conn.WriteJSON(view); err != nil {
				log.Debug("websocket write failed: %v", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			log.Debug("websocket closed by peer")
			return
		}
	}
}
