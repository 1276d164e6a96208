package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collabboard/collabboard/client"
	"github.com/collabboard/collabboard/config"
)

func startRelay(t *testing.T) string {
	t.Helper()
	mux := http.NewServeMux()
	Routes(mux, NewHub())
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return strings.TrimPrefix(srv.URL, "http://")
}

func connect(t *testing.T, host, room, username string) *client.RoomClient {
	t.Helper()
	c := client.NewRoomClient(client.Options{
		Scheme: "ws", Host: host, Room: room, Username: username,
	})
	t.Cleanup(c.Close)
	return c
}

func TestCommitReachesEveryMember(t *testing.T) {
	host := startRelay(t)

	alice := connect(t, host, "ROOM1", "alice")
	bob := connect(t, host, "ROOM1", "bob")

	require.Eventually(t, func() bool {
		return len(alice.Users()) == 2 && len(bob.Users()) == 2
	}, 2*time.Second, 10*time.Millisecond, "roster converges")

	alice.AddShape(config.ShapeRect,
		[]config.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}, "#00f", 2)

	require.Eventually(t, func() bool {
		return len(bob.Snapshot().Objects) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// The echo back to alice did not duplicate the optimistic apply.
	assert.Len(t, alice.Snapshot().Objects, 1)
	got := bob.Snapshot().Objects[0]
	assert.Equal(t, alice.ClientID(), got.CreatedBy)
}

func TestLateJoinerReceivesSessionLog(t *testing.T) {
	host := startRelay(t)

	alice := connect(t, host, "ROOM1", "alice")
	alice.AddText("hello", config.Point{X: 5, Y: 5}, "#000")
	alice.AddShape(config.ShapeCircle,
		[]config.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}, "#f00", 1)

	require.Eventually(t, func() bool {
		return len(alice.Snapshot().Objects) == 2
	}, 2*time.Second, 10*time.Millisecond)

	bob := connect(t, host, "ROOM1", "bob")
	require.Eventually(t, func() bool {
		return len(bob.Snapshot().Objects) == 2
	}, 2*time.Second, 10*time.Millisecond, "sync frame replays the log")
}

func TestClearPropagates(t *testing.T) {
	host := startRelay(t)

	alice := connect(t, host, "ROOM1", "alice")
	bob := connect(t, host, "ROOM1", "bob")

	alice.AddText("x", config.Point{}, "#000")
	require.Eventually(t, func() bool {
		return len(bob.Snapshot().Objects) == 1
	}, 2*time.Second, 10*time.Millisecond)

	bob.Clear()
	require.Eventually(t, func() bool {
		return len(alice.Snapshot().Objects) == 0 && len(bob.Snapshot().Objects) == 0
	}, 2*time.Second, 10*time.Millisecond)

	// A joiner after the clear starts from an empty canvas.
	carol := connect(t, host, "ROOM1", "carol")
	require.Eventually(t, func() bool {
		return len(carol.Users()) == 3
	}, 2*time.Second, 10*time.Millisecond)
	assert.Empty(t, carol.Snapshot().Objects)
}

func TestRoomsAreIsolated(t *testing.T) {
	host := startRelay(t)

	alice := connect(t, host, "ROOM1", "alice")
	bob := connect(t, host, "ROOM2", "bob")

	alice.AddText("only room one", config.Point{}, "#000")
	require.Eventually(t, func() bool {
		return len(alice.Snapshot().Objects) == 1
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, bob.Snapshot().Objects)
	assert.Equal(t, []string{"bob"}, bob.Users())
}
