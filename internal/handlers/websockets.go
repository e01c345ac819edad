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
	wsWriteTimeout = 10 * time.Second
	wsIdleTimeout  = 60 * time.Second // no pong within this closes the stream
	wsPingEvery    = wsIdleTimeout * 9 / 10
	wsReadLimit    = 4 << 10

	streamDefaultInterval = time.Second
	streamMaxInterval     = 10 * time.Second
)

type wsEnvelope struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Any origin may connect.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// statusStream pushes the scheduler snapshot to one client until either
// side goes away.
type statusStream struct {
	h        *Handler
	conn     *websocket.Conn
	interval time.Duration
	gone     chan struct{} // closed when the client disconnects
}

func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	s := &statusStream{h: h, conn: conn, interval: interval, gone: make(chan struct{})}
	go s.drain()
	s.push(c.Request.Context())
}

// drain consumes client frames so pongs and close frames are processed.
func (s *statusStream) drain() {
	defer close(s.gone)

	s.conn.SetReadLimit(wsReadLimit)
	extend := func(string) error { return s.conn.SetReadDeadline(time.Now().Add(wsIdleTimeout)) }
	_ = extend("")
	s.conn.SetPongHandler(extend)

	for {
		if _, _, err := s.conn.NextReader(); err != nil {
			s.h.debug("ws_client_gone", err)
			return
		}
	}
}

// push sends a snapshot right away and then on every interval, pinging the
// client in between.
func (s *statusStream) push(ctx context.Context) {
	if err := s.send(ctx); err != nil {
		return
	}

	updates := time.NewTicker(s.interval)
	defer updates.Stop()
	pings := time.NewTicker(wsPingEvery)
	defer pings.Stop()

	for {
		var err error
		select {
		case <-s.gone:
			return
		case <-ctx.Done():
			return
		case <-pings.C:
			err = s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout))
		case <-updates.C:
			err = s.send(ctx)
		}
		if err != nil {
			s.h.debug("ws_write_failed", err)
			return
		}
	}
}

// send writes the latest snapshot. A failed load is reported to the client
// as an error envelope and ends the stream.
func (s *statusStream) send(ctx context.Context) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))

	st, err := s.h.services.History.Status(ctx)
	if err != nil {
		if s.h.log != nil {
			s.h.log.Errorw("ws_get_status_failed", "err", err)
		}
		_ = s.conn.WriteJSON(wsEnvelope{Type: "error", Error: errGetStatus})
		return err
	}
	return s.conn.WriteJSON(wsEnvelope{Type: "status", Data: st})
}

// parseInterval reads ?interval=2s, falling back to ?interval_ms=2000.
// Values outside (0, 10s] are ignored.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if d, err := time.ParseDuration(c.Query("interval")); err == nil && inStreamRange(d) {
		return d
	}
	if ms, err := strconv.Atoi(c.Query("interval_ms")); err == nil {
		if d := time.Duration(ms) * time.Millisecond; inStreamRange(d) {
			return d
		}
	}
	return streamDefaultInterval
}

func inStreamRange(d time.Duration) bool {
	return d > 0 && d <= streamMaxInterval
}

func (h *Handler) debug(msg string, err error) {
	if h.log != nil {
		h.log.Debugw(msg, "err", err)
	}
}
