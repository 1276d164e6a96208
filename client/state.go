package client

import "github.com/collabboard/collabboard/config"

type objectKey struct {
	createdBy string
	seq       int64
}

// DrawState holds the room's committed object log, the transient live
// strokes overlaid on it, and nothing else. It is not safe for concurrent
// use; RoomClient calls it only from its run loop.
type DrawState struct {
	log  []config.DrawingObject
	seen map[objectKey]bool
	live map[string]config.Live
}

func NewDrawState() *DrawState {
	return &DrawState{
		seen: make(map[objectKey]bool),
		live: make(map[string]config.Live),
	}
}

// ApplyCommit appends a committed object to the log. Re-applying an object
// with a known (createdBy, sequenceId) is a no-op, which is how the local
// optimistic commit and its relay echo collapse into one entry. Returns
// false for duplicates.
func (s *DrawState) ApplyCommit(obj config.DrawingObject) bool {
	k := objectKey{createdBy: obj.CreatedBy, seq: obj.SequenceID}
	if s.seen[k] {
		return false
	}
	s.seen[k] = true
	s.log = append(s.log, obj)
	// The owner finished this gesture; its live overlay is stale now.
	delete(s.live, obj.CreatedBy)
	return true
}

// ApplyLive replaces the live stroke for the owning client. Only the most
// recent fragment per owner is kept.
func (s *DrawState) ApplyLive(l config.Live) {
	s.live[l.ClientID] = l
}

// DropLive removes the live overlay for a client, e.g. when the owner
// disconnects without committing.
func (s *DrawState) DropLive(clientID string) {
	delete(s.live, clientID)
}

// ApplyClear empties the log and every live overlay.
func (s *DrawState) ApplyClear() {
	s.log = nil
	s.seen = make(map[objectKey]bool)
	s.live = make(map[string]config.Live)
}

// ApplySync replaces the whole log with the relay's authoritative copy.
// Live overlays survive; they belong to gestures still in progress.
func (s *DrawState) ApplySync(objs []config.DrawingObject) {
	s.log = make([]config.DrawingObject, len(objs))
	copy(s.log, objs)
	s.seen = make(map[objectKey]bool, len(objs))
	for _, obj := range objs {
		s.seen[objectKey{createdBy: obj.CreatedBy, seq: obj.SequenceID}] = true
	}
}

// Snapshot is a read-only view for the render sink: the committed log in
// commit-arrival order plus the current live overlays.
type Snapshot struct {
	Objects []config.DrawingObject
	Live    []config.Live
}

// Snapshot copies the container slices. The objects themselves are immutable
// once committed, so sharing their point slices is safe.
func (s *DrawState) Snapshot() Snapshot {
	snap := Snapshot{
		Objects: make([]config.DrawingObject, len(s.log)),
		Live:    make([]config.Live, 0, len(s.live)),
	}
	copy(snap.Objects, s.log)
	for _, l := range s.live {
		snap.Live = append(snap.Live, l)
	}
	return snap
}
