package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxMsgSize      = 1 << 12
	defaultInterval = time.Second
	maxInterval     = 10 * time.Second
)

// wsEnvelope is the frame clients receive on /ws.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// statusStream pushes a status snapshot on connect and then every interval
// until the client goes away or the session snapshot cannot be read.
func (h *Handler) statusStream(c *gin.Context) {
	every := h.streamInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logInfo("ws_upgrade_failed", err)
		return
	}
	defer func() { _ = conn.Close() }()

	gone := h.watchClient(conn)
	ctx := c.Request.Context()

	if err := h.pushStatus(ctx, conn); err != nil {
		h.logInfo("ws_first_push_failed", err)
		return
	}

	tick := time.NewTicker(every)
	defer tick.Stop()
	keepAlive := time.NewTicker(pingPeriod)
	defer keepAlive.Stop()

	for {
		var err error
		select {
		case <-gone:
			return
		case <-ctx.Done():
			return
		case <-keepAlive.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			err = conn.WriteMessage(websocket.PingMessage, nil)
		case <-tick.C:
			err = h.pushStatus(ctx, conn)
		}
		if err != nil {
			h.logInfo("ws_push_failed", err)
			return
		}
	}
}

// streamInterval picks the push period: ?interval= (a duration) first, then
// ?interval_ms=, then the handler default. Values outside (0, maxInterval]
// are ignored.
func (h *Handler) streamInterval(c *gin.Context) time.Duration {
	if d, err := time.ParseDuration(c.Query("interval")); err == nil && d > 0 && d <= maxInterval {
		return d
	}
	if ms, err := strconv.Atoi(c.Query("interval_ms")); err == nil {
		if d := time.Duration(ms) * time.Millisecond; d > 0 && d <= maxInterval {
			return d
		}
	}
	if h.statusInterval > 0 {
		return h.statusInterval
	}
	return defaultInterval
}

// watchClient reads until the peer disconnects so pongs and close frames are
// processed. The returned channel closes when reading stops.
func (h *Handler) watchClient(conn *websocket.Conn) <-chan struct{} {
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.logInfo("ws_client_gone", err)
				return
			}
		}
	}()
	return gone
}

func (h *Handler) pushStatus(ctx context.Context, conn *websocket.Conn) error {
	st, err := h.services.Monitoring.GetState(ctx)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_status_unavailable", "err", err)
		}
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: "status", Data: st})
}

func (h *Handler) logInfo(event string, err error) {
	if h.log != nil {
		h.log.Infow(event, "err", err)
	}
}
