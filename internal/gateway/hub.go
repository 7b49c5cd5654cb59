package gateway

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Envelope is the wire frame for every server-to-client message.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub owns room membership. All state lives behind one mutex; clients
// and rooms are only ever touched through its methods.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	clients map[*Client]map[string]struct{}
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:  logger,
		rooms:   make(map[string]map[*Client]struct{}),
		clients: make(map[*Client]map[string]struct{}),
	}
}

// Register adds a connected client with no room memberships.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = make(map[string]struct{})
}

// Unregister removes a client from every room it joined.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range h.clients[c] {
		h.dropFromRoom(c, room)
	}
	delete(h.clients, c)
}

// Join adds a client to a room.
func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	memberships, ok := h.clients[c]
	if !ok {
		return
	}
	memberships[room] = struct{}{}

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
}

// Leave removes a client from a room.
func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if memberships, ok := h.clients[c]; ok {
		delete(memberships, room)
	}
	h.dropFromRoom(c, room)
}

// dropFromRoom removes the client from the room's member set, deleting
// the room when it empties. Caller holds h.mu.
func (h *Hub) dropFromRoom(c *Client, room string) {
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// RoomMemberCount returns how many clients are in a room.
func (h *Hub) RoomMemberCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// EmitToRoom serializes an envelope once and queues it to every member
// of the room. A member whose send queue is full is disconnected.
func (h *Hub) EmitToRoom(room, event string, payload any) {
	frame, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		h.logger.Error("failed to marshal broadcast frame", "event", event, "err", err)
		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		if !c.enqueue(frame) {
			h.logger.Warn("send queue full, dropping client", "client_id", c.ID(), "room", room)
			c.close()
		}
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
