package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/product-catalog/internal/model"
)

// WebSocket configuration constants.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 16
)

// subscriber is one connected WebSocket client.
// done is closed once the write pump has exited and the connection is closed.
type subscriber struct {
	conn   *websocket.Conn
	send   chan model.ProductEvent
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *subscriber) remoteAddr() string {
	return s.conn.RemoteAddr().String()
}

// WebSocketHandler streams product events to WebSocket clients.
// It implements EventPublisher.
type WebSocketHandler struct {
	upgrader websocket.Upgrader
	logger   *zap.Logger
	mu       sync.RWMutex
	subs     map[*subscriber]struct{}
}

// NewWebSocketHandler creates a new WebSocketHandler instance.
func NewWebSocketHandler(logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		logger: logger,
		subs:   make(map[*subscriber]struct{}),
	}
}

// RegisterRoutes registers the WebSocket routes with the router.
func (h *WebSocketHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws/products", h.HandleWebSocket).Methods(http.MethodGet)
}

// HandleWebSocket upgrades the request and subscribes the client to product events.
//
//nolint:contextcheck // WebSocket connections outlive the HTTP request context
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	sub := &subscriber{
		conn:   conn,
		send:   make(chan model.ProductEvent, sendBufferSize),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("websocket client subscribed", zap.String("remote_addr", sub.remoteAddr()))

	go h.writePump(sub)
	go h.readPump(sub)
}

// Publish fans the event out to every subscriber without blocking.
// A subscriber whose buffer is full is disconnected.
func (h *WebSocketHandler) Publish(event model.ProductEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		select {
		case sub.send <- event:
		default:
			h.logger.Warn("dropping slow websocket client", zap.String("remote_addr", sub.remoteAddr()))
			sub.cancel()
		}
	}
}

// ClientCount returns the number of connected subscribers.
func (h *WebSocketHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs)
}

// readPump drains client frames so pong and close control frames are handled.
// Any read error ends the subscription.
func (h *WebSocketHandler) readPump(sub *subscriber) {
	defer sub.cancel()

	conn := sub.conn
	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		h.logger.Debug("failed to set read deadline", zap.Error(err))
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) &&
				sub.ctx.Err() == nil {
				h.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		h.logger.Debug("ignoring client message", zap.ByteString("message", message))
	}
}

// writePump owns all writes to the connection. It delivers queued events,
// pings on pingPeriod and, once the subscription ends, says goodbye and
// closes the connection.
func (h *WebSocketHandler) writePump(sub *subscriber) {
	pingTicker := time.NewTicker(pingPeriod)
	defer func() {
		pingTicker.Stop()
		h.unsubscribe(sub)
		close(sub.done)
	}()

	for {
		select {
		case <-sub.ctx.Done():
			h.sendClose(sub.conn)
			return
		case event := <-sub.send:
			if err := h.write(sub.conn, func(c *websocket.Conn) error { return c.WriteJSON(event) }); err != nil {
				h.logger.Debug("failed to send product event", zap.Error(err))
				return
			}
		case <-pingTicker.C:
			if err := h.write(sub.conn, func(c *websocket.Conn) error {
				return c.WriteMessage(websocket.PingMessage, nil)
			}); err != nil {
				h.logger.Debug("failed to send ping", zap.Error(err))
				return
			}
		}
	}
}

// write runs fn with a fresh write deadline.
func (h *WebSocketHandler) write(conn *websocket.Conn, fn func(*websocket.Conn) error) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return fn(conn)
}

// sendClose sends a normal-closure frame. Failures are expected when the
// peer has already gone.
func (h *WebSocketHandler) sendClose(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "server shutting down")
	if err := h.write(conn, func(c *websocket.Conn) error {
		return c.WriteMessage(websocket.CloseMessage, msg)
	}); err != nil {
		h.logger.Debug("failed to send close message", zap.Error(err))
	}
}

// unsubscribe removes sub and closes its connection, which also unblocks readPump.
func (h *WebSocketHandler) unsubscribe(sub *subscriber) {
	sub.cancel()

	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()

	if err := sub.conn.Close(); err != nil {
		h.logger.Debug("error closing connection", zap.Error(err))
	}
	h.logger.Info("websocket client unsubscribed", zap.String("remote_addr", sub.remoteAddr()))
}

// CloseAllConnections ends every subscription and waits for the close frames
// to be written. The wait is bounded by writeWait overall, not per client.
func (h *WebSocketHandler) CloseAllConnections() {
	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		sub.cancel()
	}

	timeout := time.NewTimer(writeWait)
	defer timeout.Stop()
	for _, sub := range subs {
		select {
		case <-sub.done:
		case <-timeout.C:
			h.logger.Warn("timed out waiting for websocket clients to close")
			return
		}
	}

	h.logger.Info("all websocket connections closed", zap.Int("clients", len(subs)))
}
