package ws

import (
	"sync"

	"github.com/collabboard/collabboard/config"
)

// Room is one live channel: its connected clients and, for whiteboard
// channels, the in-memory session log of committed objects. The log lives
// only as long as the room has members; durable history is not kept.
type Room struct {
	clients map[*Client]bool
	objects []config.DrawingObject
}

type Hub struct {
	rooms map[string]*Room
	mu    sync.Mutex
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]*Room)}
}

func (h *Hub) Join(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[roomID]
	if !ok {
		room = &Room{clients: make(map[*Client]bool)}
		h.rooms[roomID] = room
	}
	room.clients[c] = true
}

// Leave removes the client and closes its send channel so the write pump
// exits. The membership check keeps the close from running twice when
// Broadcast already dropped the client.
func (h *Hub) Leave(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[roomID]
	if !ok {
		return
	}
	if room.clients[c] {
		delete(room.clients, c)
		close(c.send)
	}
	if len(room.clients) == 0 {
		delete(h.rooms, roomID)
	}
}

// SetIdentity records the join handshake identity on the client. Roster
// reads these fields under the hub lock, so the write takes it too.
func (h *Hub) SetIdentity(c *Client, username, clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.username = username
	c.clientID = clientID
}

// Broadcast fans a frame out to every client in the room, skipping except
// when non-nil. A client whose send buffer is full is dropped from the room.
func (h *Hub) Broadcast(roomID string, msg []byte, except *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[roomID]
	if !ok {
		return
	}
	for c := range room.clients {
		if c == except {
			continue
		}
		select {
		case c.send <- msg:
		default:
			close(c.send)
			delete(room.clients, c)
		}
	}
}

// AppendObject records a committed object in arrival order.
func (h *Hub) AppendObject(roomID string, obj config.DrawingObject) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[roomID]
	if !ok {
		return
	}
	room.objects = append(room.objects, obj)
}

// ClearObjects empties the room's session log.
func (h *Hub) ClearObjects(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[roomID]; ok {
		room.objects = nil
	}
}

// Objects returns a copy of the room's session log, for the sync frame a
// joining client receives.
func (h *Hub) Objects(roomID string) []config.DrawingObject {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[roomID]
	if !ok {
		return nil
	}
	out := make([]config.DrawingObject, len(room.objects))
	copy(out, room.objects)
	return out
}

// Roster lists the usernames of clients that completed the join handshake.
func (h *Hub) Roster(roomID string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[roomID]
	if !ok {
		return nil
	}
	users := make([]string, 0, len(room.clients))
	seen := make(map[string]bool, len(room.clients))
	for c := range room.clients {
		if c.username == "" || seen[c.username] {
			continue
		}
		seen[c.username] = true
		users = append(users, c.username)
	}
	return users
}
