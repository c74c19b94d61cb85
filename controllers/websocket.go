package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are already restricted by the CORS middleware for browsers.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket pushes every newly inserted reading to the client as
// {"event":"newSensorData","data":...}. Nothing sent before the connection
// was opened is replayed.
func (h *SensorController) HandleWebSocket(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Warn("websocket upgrade failed", "error", err)
		return
	}

	id, events := h.Hub.Subscribe()
	log := h.Log.With("subscriber", id)
	log.Debug("websocket connected", "remote", c.ClientIP())

	defer func() {
		h.Hub.Unsubscribe(id)
		conn.Close()
		log.Debug("websocket disconnected")
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		readPump(conn)
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
					time.Now().Add(wsWriteWait))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				log.Debug("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so pongs and close frames are processed.
func readPump(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
