// Package realtime maintains the registry of live WebSocket connections and
// delivers per-user events. A user may hold several connections at once (one
// per device or tab); delivery targets an identity, never a socket.
package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Event is the wire envelope for everything pushed over a socket.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub tracks the active clients per profile ID.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	log     *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		log:     logger,
	}
}

// Register adds a client to its user's connection set.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.profileID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.profileID] = set
	}
	set[c] = struct{}{}
	total := len(set)
	h.mu.Unlock()

	h.log.Debug("realtime client connected",
		zap.String("profile_id", c.profileID),
		zap.Int("connections", total))
}

// Unregister removes a client and closes its send channel. Safe to call for a
// client that was already removed.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.profileID]
	if ok {
		if _, present := set[c]; present {
			delete(set, c)
			close(c.send)
		}
		if len(set) == 0 {
			delete(h.clients, c.profileID)
		}
	}
	h.mu.Unlock()

	if ok {
		h.log.Debug("realtime client disconnected", zap.String("profile_id", c.profileID))
	}
}

// SendToUser delivers an event to every live connection of the given profile.
// Unknown profiles are a no-op. A client whose send buffer is full is dropped
// rather than allowed to stall delivery to the rest.
func (h *Hub) SendToUser(profileID, event string, payload any) {
	ev := Event{Type: event, Data: payload}

	h.mu.Lock()
	set, ok := h.clients[profileID]
	if !ok {
		h.mu.Unlock()
		return
	}
	var slow []*Client
	for c := range set {
		select {
		case c.send <- ev:
		default:
			slow = append(slow, c)
		}
	}
	for _, c := range slow {
		delete(set, c)
		close(c.send)
	}
	if len(set) == 0 {
		delete(h.clients, profileID)
	}
	h.mu.Unlock()

	for range slow {
		h.log.Warn("dropped slow realtime client", zap.String("profile_id", profileID))
	}
}

// ConnectionCount reports the number of live connections for a profile.
func (h *Hub) ConnectionCount(profileID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[profileID])
}

// CloseAll disconnects every client. Called during shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	n := 0
	for id, set := range h.clients {
		for c := range set {
			close(c.send)
			n++
		}
		delete(h.clients, id)
	}
	h.mu.Unlock()

	if n > 0 {
		h.log.Info("closed realtime clients during shutdown", zap.Int("clients", n))
	}
}
