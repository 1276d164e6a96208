package client

import "sync"

type registryEntry struct {
	client *RoomClient
	refs   int
}

// Registry hands out at most one live RoomClient per room id. A second
// consumer of the same room shares the existing session instead of opening
// a second physical connection, which would double the join handshake and
// duplicate every event. Created by the embedding application; there is no
// package-level instance.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*registryEntry
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*registryEntry)}
}

// Acquire returns the live client for room, creating it with open on first
// use. Every Acquire must be paired with a Release.
func (r *Registry) Acquire(room string, open func() *RoomClient) *RoomClient {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.rooms[room]
	if !ok {
		e = &registryEntry{client: open()}
		r.rooms[room] = e
	}
	e.refs++
	return e.client
}

// Release detaches one consumer. The last release closes the client and
// forgets the room.
func (r *Registry) Release(room string) {
	r.mu.Lock()
	e, ok := r.rooms[room]
	if !ok {
		r.mu.Unlock()
		return
	}
	e.refs--
	if e.refs > 0 {
		r.mu.Unlock()
		return
	}
	delete(r.rooms, room)
	r.mu.Unlock()

	e.client.Close()
}
