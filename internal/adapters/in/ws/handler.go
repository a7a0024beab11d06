// Package ws serves the realtime tracking subprotocol over websockets.
package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/silver-ring/printke-web/internal/core/domain/events"
	"github.com/silver-ring/printke-web/internal/core/domain/model/kernel"
	"github.com/silver-ring/printke-web/internal/realtime"
)

const maxFrameBytes = 4 << 10

// Hub is the part of realtime.Hub the handler uses.
type Hub interface {
	Subscribe(ctx context.Context, sub realtime.Subscriber, orderNumber string) error
	Unsubscribe(sub realtime.Subscriber)
}

type Config struct {
	// WriteWait bounds a single frame write.
	WriteWait time.Duration
	// IdleTimeout closes connections that sent nothing for that long.
	// Zero keeps idle connections open.
	IdleTimeout time.Duration
	// AllowedOrigins restricts browser origins; empty allows any.
	AllowedOrigins []string
}

type Handler struct {
	hub      Hub
	cfg      Config
	upgrader websocket.Upgrader
	log      *zap.Logger
	now      func() time.Time
}

func NewHandler(hub Hub, cfg Config, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = 10 * time.Second
	}
	h := &Handler{
		hub: hub,
		cfg: cfg,
		log: log.With(zap.String("component", "ws")),
		now: time.Now,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range h.cfg.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

// Track upgrades GET /api/ws/track. With ?order_number= the connection
// follows one order, without it every order.
func (h *Handler) Track(c echo.Context) error {
	var orderNumber string
	if raw := c.QueryParam("order_number"); raw != "" {
		n, err := kernel.OrderNumberFromString(raw)
		if err != nil {
			return err
		}
		orderNumber = n.String()
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already written the error response
		h.log.Debug("upgrade failed", zap.Error(err))
		return nil
	}
	defer func() { _ = conn.Close() }()

	log := h.log.With(zap.String("order_number", orderNumber), zap.String("remote", c.RealIP()))
	ctx := c.Request().Context()
	sub := newSubscriber(conn, h.cfg.WriteWait)

	if err = h.hub.Subscribe(ctx, sub, orderNumber); err != nil {
		log.Debug("greeting failed", zap.Error(err))
		return nil
	}
	defer h.hub.Unsubscribe(sub)
	log.Debug("subscriber connected")

	conn.SetReadLimit(maxFrameBytes)
	for {
		if err = h.extendIdle(conn); err != nil {
			return nil
		}
		kind, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Debug("connection dropped", zap.Error(err))
			}
			return nil
		}
		if kind != websocket.TextMessage {
			continue
		}
		if err = sub.Send(ctx, events.Event{Type: events.Pong, Timestamp: h.now().UTC()}); err != nil {
			return nil
		}
	}
}

func (h *Handler) extendIdle(conn *websocket.Conn) error {
	if h.cfg.IdleTimeout <= 0 {
		return nil
	}
	return conn.SetReadDeadline(h.now().Add(h.cfg.IdleTimeout))
}
