package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collabboard/collabboard/config"
)

func obj(createdBy string, seq int64, pts ...config.Point) config.DrawingObject {
	return config.DrawingObject{
		Kind:       config.KindStroke,
		Points:     pts,
		Color:      "#ff00cc",
		LineWidth:  2,
		Tool:       config.ToolPen,
		CreatedBy:  createdBy,
		SequenceID: seq,
	}
}

func TestApplyCommitIdempotent(t *testing.T) {
	s := NewDrawState()

	first := s.ApplyCommit(obj("alice", 1, config.Point{X: 1, Y: 1}))
	require.True(t, first)

	// The relay echo of an optimistically applied commit.
	echo := s.ApplyCommit(obj("alice", 1, config.Point{X: 1, Y: 1}))
	assert.False(t, echo)
	assert.Len(t, s.Snapshot().Objects, 1)

	// Same sequence id from a different client is a distinct object.
	require.True(t, s.ApplyCommit(obj("bob", 1)))
	assert.Len(t, s.Snapshot().Objects, 2)
}

func TestApplyCommitKeepsArrivalOrder(t *testing.T) {
	s := NewDrawState()
	s.ApplyCommit(obj("alice", 2))
	s.ApplyCommit(obj("bob", 1))
	s.ApplyCommit(obj("alice", 3))

	snap := s.Snapshot()
	require.Len(t, snap.Objects, 3)
	assert.Equal(t, "alice", snap.Objects[0].CreatedBy)
	assert.Equal(t, int64(2), snap.Objects[0].SequenceID)
	assert.Equal(t, "bob", snap.Objects[1].CreatedBy)
}

func TestApplyLiveReplacesPerOwner(t *testing.T) {
	s := NewDrawState()

	s.ApplyLive(config.Live{ClientID: "c1", Points: []config.Point{{X: 1, Y: 1}}})
	s.ApplyLive(config.Live{ClientID: "c1", Points: []config.Point{{X: 2, Y: 2}}})
	s.ApplyLive(config.Live{ClientID: "c2", Points: []config.Point{{X: 9, Y: 9}}})

	snap := s.Snapshot()
	require.Len(t, snap.Live, 2)
	for _, l := range snap.Live {
		if l.ClientID == "c1" {
			assert.Equal(t, 2.0, l.Points[0].X, "only the newest fragment survives")
		}
	}
}

func TestCommitDropsOwnersLiveStroke(t *testing.T) {
	s := NewDrawState()
	s.ApplyLive(config.Live{ClientID: "c1"})
	s.ApplyCommit(obj("c1", 1))

	assert.Empty(t, s.Snapshot().Live)
}

func TestApplyClearEmptiesEverything(t *testing.T) {
	s := NewDrawState()
	s.ApplyCommit(obj("alice", 1))
	s.ApplyLive(config.Live{ClientID: "c1"})

	s.ApplyClear()

	snap := s.Snapshot()
	assert.Empty(t, snap.Objects)
	assert.Empty(t, snap.Live)

	// A cleared (createdBy, sequenceId) key may be reused by arrival order.
	assert.True(t, s.ApplyCommit(obj("alice", 1)))
}

func TestApplySyncReplacesLog(t *testing.T) {
	s := NewDrawState()
	s.ApplyCommit(obj("stale", 1))

	s.ApplySync([]config.DrawingObject{obj("alice", 1), obj("bob", 7)})

	snap := s.Snapshot()
	require.Len(t, snap.Objects, 2)
	assert.Equal(t, "alice", snap.Objects[0].CreatedBy)

	// The seen set is rebuilt from the sync payload.
	assert.False(t, s.ApplyCommit(obj("bob", 7)))
	assert.True(t, s.ApplyCommit(obj("stale", 1)))
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := NewDrawState()
	s.ApplyCommit(obj("alice", 1))

	snap := s.Snapshot()
	snap.Objects[0].CreatedBy = "mallory"
	snap.Objects = append(snap.Objects, obj("mallory", 9))

	after := s.Snapshot()
	require.Len(t, after.Objects, 1)
	assert.Equal(t, "alice", after.Objects[0].CreatedBy)
}
