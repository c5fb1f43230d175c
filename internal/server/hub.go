package server

import (
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Hub fans layout updates out to connected websocket clients.
type Hub struct {
	logger *log.Logger

	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

func newHub(logger *log.Logger) *Hub {
	return &Hub{logger: logger, clients: make(map[string]*websocket.Conn)}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The server renders local repositories; cross-origin pages are
	// expected (editor plugins, local tooling).
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWS upgrades the connection and keeps it registered until the
// peer goes away. The server only pushes; incoming messages are
// discarded.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.NewString()
	h.mu.Lock()
	h.clients[id] = conn
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", "client", id, "clients", count)

	defer func() {
		h.mu.Lock()
		delete(h.clients, id)
		h.mu.Unlock()
		conn.Close()
		h.logger.Debug("websocket client disconnected", "client", id)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends a JSON message to every connected client, dropping
// clients whose writes fail.
func (h *Hub) Broadcast(v any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.clients {
		if err := conn.WriteJSON(v); err != nil {
			h.logger.Debug("dropping websocket client", "client", id, "error", err)
			conn.Close()
			delete(h.clients, id)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.clients {
		conn.Close()
		delete(h.clients, id)
	}
}
