// Package live pushes server-rendered fragments to open pages over
// websockets. Connections are grouped by session id so a carousel tick in
// one visitor's state only reaches that visitor's tabs.
package live

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

type client struct {
	id     string
	sid    string
	conn   *websocket.Conn
	send   chan []byte
	closed chan struct{}
	once   sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.closed)
		_ = c.conn.Close()
	})
}

// Hub tracks live connections per session.
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[string]*client
	logger  *zap.Logger
	closed  bool
}

// NewHub returns an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{clients: make(map[string]map[string]*client), logger: logger}
}

// Serve upgrades the request and attaches the connection to sid. It returns
// once the connection is registered; pumps run in their own goroutines.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sid string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	h.Register(sid, conn)
	return nil
}

// Register attaches an established connection to sid and returns its client id.
func (h *Hub) Register(sid string, conn *websocket.Conn) string {
	c := &client{
		id:     uuid.NewString(),
		sid:    sid,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		closed: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		c.close()
		return c.id
	}
	if h.clients[sid] == nil {
		h.clients[sid] = make(map[string]*client)
	}
	h.clients[sid][c.id] = c
	h.mu.Unlock()

	h.logger.Debug("live client connected", zap.String("session_id", sid), zap.String("client_id", c.id))
	go h.writePump(c)
	go h.readPump(c)
	return c.id
}

// Send queues payload for every connection of sid and returns how many
// connections accepted it. Connections whose buffer is full are dropped.
func (h *Hub) Send(sid string, payload []byte) int {
	h.mu.Lock()
	targets := make([]*client, 0, len(h.clients[sid]))
	for _, c := range h.clients[sid] {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	sent := 0
	for _, c := range targets {
		select {
		case <-c.closed:
		case c.send <- payload:
			sent++
		default:
			h.logger.Warn("live client too slow, dropping", zap.String("session_id", sid), zap.String("client_id", c.id))
			h.unregister(c)
		}
	}
	return sent
}

// Count returns the number of connections for sid.
func (h *Hub) Count(sid string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[sid])
}

// Drop closes every connection of sid.
func (h *Hub) Drop(sid string) {
	h.mu.Lock()
	group := h.clients[sid]
	delete(h.clients, sid)
	h.mu.Unlock()
	for _, c := range group {
		c.close()
	}
}

// Close disconnects everyone and refuses new registrations.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	all := h.clients
	h.clients = make(map[string]map[string]*client)
	h.mu.Unlock()
	for _, group := range all {
		for _, c := range group {
			c.close()
		}
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if group, ok := h.clients[c.sid]; ok {
		delete(group, c.id)
		if len(group) == 0 {
			delete(h.clients, c.sid)
		}
	}
	h.mu.Unlock()
	c.close()
}

func (h *Hub) readPump(c *client) {
	defer h.unregister(c)
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("live read", zap.String("client_id", c.id), zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.unregister(c)
	}()
	for {
		select {
		case <-c.closed:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Debug("live write", zap.String("client_id", c.id), zap.Error(err))
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
