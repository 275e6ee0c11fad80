package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/micro-ha/nocontact/internal/activity"
	"github.com/micro-ha/nocontact/internal/model"
)

// Event types pushed to dashboards.
const (
	EventDeviceStatus  = "device.status"
	EventDeviceRemoved = "device.removed"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// ErrHubClosed is returned when a client connects after the hub stopped.
var ErrHubClosed = errors.New("realtime hub closed")

// Event is one message delivered to the websocket clients of UserID.
type Event struct {
	Type     string           `json:"type"`
	UserID   string           `json:"user_id"`
	Previous activity.State   `json:"previous,omitempty"`
	Device   model.DeviceView `json:"device"`
	At       time.Time        `json:"at"`
}

type client struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub fans events out to connected dashboards. A single goroutine (Run)
// owns the client set.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan Event
	done       chan struct{}
	clients    atomic.Int64
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Event, 64),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dashboard may be proxied under a different host.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Clients returns the number of connected websocket clients.
func (h *Hub) Clients() int {
	return int(h.clients.Load())
}

// Publish queues ev without blocking. Events are dropped when the queue is full.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	select {
	case h.broadcast <- ev:
	default:
		h.logger.Warn("realtime queue full; event dropped", "type", ev.Type, "user_id", ev.UserID)
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	set := map[*client]struct{}{}
	drop := func(c *client) {
		if _, ok := set[c]; !ok {
			return
		}
		delete(set, c)
		close(c.send)
		h.clients.Store(int64(len(set)))
	}

	for {
		select {
		case <-ctx.Done():
			for c := range set {
				drop(c)
			}
			return
		case c := <-h.register:
			set[c] = struct{}{}
			h.clients.Store(int64(len(set)))
		case c := <-h.unregister:
			drop(c)
		case ev := <-h.broadcast:
			payload, err := json.Marshal(ev)
			if err != nil {
				h.logger.Error("realtime encode failed", "err", err)
				continue
			}
			for c := range set {
				if c.userID != ev.UserID {
					continue
				}
				select {
				case c.send <- payload:
				default:
					h.logger.Warn("slow websocket client dropped", "user_id", c.userID)
					drop(c)
				}
			}
		}
	}
}

// ServeWS upgrades the request and streams userID's events until the peer
// disconnects or the hub stops. ErrHubClosed is only returned before the
// upgrade, while w can still carry an HTTP error.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) error {
	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{userID: userID, conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		closing := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		_ = conn.WriteControl(websocket.CloseMessage, closing, time.Now().Add(writeWait))
		_ = conn.Close()
		return nil
	}

	go h.writePump(c)
	h.readPump(c)
	return nil
}

func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read failed", "user_id", c.userID, "err", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
