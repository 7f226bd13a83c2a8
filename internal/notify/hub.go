// Package notify pushes session events to a device's open tabs over WebSocket.
package notify

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// sendBuffer is the per-tab queue depth. Events beyond it are dropped.
const sendBuffer = 16

type client struct {
	send chan []byte
}

// Hub tracks one client per (user, tab session) pair.
type Hub struct {
	mu     sync.RWMutex
	active map[string]map[string]*client
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{active: make(map[string]map[string]*client)}
}

// register adds a client for userID/sessionID, replacing any previous one.
func (h *Hub) register(userID, sessionID string) *client {
	c := &client{send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.active[userID]; !ok {
		h.active[userID] = make(map[string]*client)
	}
	if existing, ok := h.active[userID][sessionID]; ok {
		close(existing.send)
	}
	h.active[userID][sessionID] = c
	slog.Info("Event stream registered", "user_id", userID, "session_id", sessionID)
	return c
}

// unregister removes c if it is still the registered client.
func (h *Hub) unregister(userID, sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sessions, ok := h.active[userID]
	if !ok {
		return
	}
	if current, ok := sessions[sessionID]; ok && current == c {
		close(c.send)
		delete(sessions, sessionID)
		if len(sessions) == 0 {
			delete(h.active, userID)
		}
		slog.Info("Event stream unregistered", "user_id", userID, "session_id", sessionID)
	}
}

// Publish sends event to every open tab of userID without blocking.
func (h *Hub) Publish(userID string, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to encode event", "user_id", userID, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sid, c := range h.active[userID] {
		select {
		case c.send <- data:
		default:
			slog.Warn("Event dropped, client too slow", "user_id", userID, "session_id", sid)
		}
	}
}

// CloseUser disconnects every tab of userID.
func (h *Hub) CloseUser(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.active[userID] {
		close(c.send)
	}
	delete(h.active, userID)
}

// Connections returns the number of open tabs for userID.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.active[userID])
}
