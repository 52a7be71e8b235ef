package services

import (
	"encoding/json"
	"sync"

	"github.com/bellapacxx/bingo-caller/utils/logger"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Hub fans game snapshots out to websocket watchers.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

type stateMessage struct {
	Type  string   `json:"type"`
	State Snapshot `json:"state"`
}

// Join registers a connection and sends it the initial snapshot, if any.
func (h *Hub) Join(conn *websocket.Conn, initial *Snapshot) *Client {
	c := &Client{
		id:   uuid.NewString(),
		conn: conn,
		hub:  h,
		send: make(chan []byte, 32),
	}
	if initial != nil {
		if b, err := json.Marshal(stateMessage{Type: "state", State: *initial}); err == nil {
			c.send <- b
		}
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	go c.writePump()
	go c.readPump()

	logger.Infof("[Hub] watcher %s joined (total=%d)", c.id, total)
	return c
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.Close()
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast never blocks: slow watchers miss updates.
func (h *Hub) Broadcast(snap Snapshot) {
	b, err := json.Marshal(stateMessage{Type: "state", State: snap})
	if err != nil {
		logger.Errorf("[Hub] marshal snapshot: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			logger.Debugf("[Hub] dropping update to watcher %s", c.id)
		}
	}
}
