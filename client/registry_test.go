package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRoom(d *fakeDialer, room string) func() *RoomClient {
	return func() *RoomClient {
		c := NewRoomClient(Options{
			Scheme: "ws", Host: "relay.test", Room: room,
			Username: "alice", Dialer: d.dial,
		})
		immediateTimers(c.session)
		return c
	}
}

func TestRegistrySharesOneClientPerRoom(t *testing.T) {
	d := &fakeDialer{}
	reg := NewRegistry()

	opened := 0
	open := func() *RoomClient {
		opened++
		return openTestRoom(d, "ROOM-A")()
	}

	a := reg.Acquire("ROOM-A", open)
	b := reg.Acquire("ROOM-A", open)
	defer reg.Release("ROOM-A")
	defer reg.Release("ROOM-A")

	assert.Same(t, a, b)
	assert.Equal(t, 1, opened)

	other := reg.Acquire("ROOM-B", openTestRoom(d, "ROOM-B"))
	defer reg.Release("ROOM-B")
	assert.NotSame(t, a, other)
}

func TestRegistryLastReleaseClosesClient(t *testing.T) {
	d := &fakeDialer{}
	reg := NewRegistry()

	c := reg.Acquire("ROOM-A", openTestRoom(d, "ROOM-A"))
	reg.Acquire("ROOM-A", openTestRoom(d, "ROOM-A"))

	require.Eventually(t, func() bool { return c.session.Status() == StatusOpen },
		time.Second, 5*time.Millisecond)

	reg.Release("ROOM-A")
	assert.Equal(t, StatusOpen, c.session.Status(), "still referenced")

	reg.Release("ROOM-A")
	assert.Equal(t, StatusClosed, c.session.Status())

	// A fresh acquire after teardown builds a new client.
	c2 := reg.Acquire("ROOM-A", openTestRoom(d, "ROOM-A"))
	defer reg.Release("ROOM-A")
	assert.NotSame(t, c, c2)
}

func TestRegistryReleaseUnknownRoomIsNoop(t *testing.T) {
	reg := NewRegistry()
	reg.Release("NEVER-SEEN") // must not panic
}
