// Package hub maintains the registry of live websocket clients per
// room. The registry replaces ambient global state: the hub owns the
// map, every add/remove goes through its lock, and the rest of the
// application only hands admitted connections over.
package hub

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Hub tracks connected clients keyed by room id. Broadcasting exists
// for presence/error frames today; the document edit exchange that
// would flow through here is handled elsewhere and is out of scope for
// this service.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint64]map[*Client]bool
}

// NewHub returns an empty registry.
func NewHub() *Hub {
	return &Hub{rooms: make(map[uint64]map[*Client]bool)}
}

// Register adds an admitted client to its room's set, creating the set
// for the first client of a room.
func (h *Hub) Register(c *Client) {
	if c == nil {
		return
	}
	h.mu.Lock()
	clients, ok := h.rooms[c.roomID]
	if !ok {
		clients = make(map[*Client]bool)
		h.rooms[c.roomID] = clients
	}
	clients[c] = true
	h.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"room_id": c.roomID,
		"user_id": c.userID,
	}).Info("client registered")
}

// Unregister removes a client and closes its send channel, which makes
// its write pump exit. The room entry is dropped once empty so the map
// does not grow with dead rooms.
func (h *Hub) Unregister(c *Client) {
	if c == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[c.roomID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.rooms, c.roomID)
	}

	logrus.WithFields(logrus.Fields{
		"room_id": c.roomID,
		"user_id": c.userID,
	}).Info("client unregistered")
}

// Broadcast queues a message to every client of a room except the
// sender. Delivery is non-blocking: a client whose send buffer is full
// is skipped rather than stalling the whole room.
func (h *Hub) Broadcast(roomID uint64, message []byte, sender *Client) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[roomID]))
	for c := range h.rooms[roomID] {
		if c != sender {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- message:
		default:
			logrus.WithFields(logrus.Fields{
				"room_id": roomID,
				"user_id": c.userID,
			}).Warn("send buffer full, dropping broadcast for client")
		}
	}
}

// RoomSize reports how many clients a room currently holds.
func (h *Hub) RoomSize(roomID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
