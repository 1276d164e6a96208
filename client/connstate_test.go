package client

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collabboard/collabboard/config"
)

func TestBackoffGrowthSequence(t *testing.T) {
	s := newConnState()

	// An open connection drops: the first retry fires at the floor.
	s, eff := transition(s, evConnLost)
	assert.Equal(t, config.BackoffFloor, eff.reconnectIn)
	assert.Equal(t, StatusConnecting, s.status)

	// Delay after N consecutive failures is min(cap, floor * factor^N).
	for n := 1; n <= 10; n++ {
		var eff connEffects
		s, eff = transition(s, evDialFail)

		want := time.Duration(float64(config.BackoffFloor) *
			math.Pow(config.BackoffFactor, float64(n)))
		if want > config.BackoffCap {
			want = config.BackoffCap
		}
		assert.InDelta(t, float64(want), float64(eff.reconnectIn), float64(time.Millisecond),
			"failure %d", n)
	}
	assert.Equal(t, config.BackoffCap, s.backoff)
}

func TestBackoffResetsOnOpen(t *testing.T) {
	s := newConnState()
	s, _ = transition(s, evConnLost)
	for i := 0; i < 6; i++ {
		s, _ = transition(s, evDialFail)
	}
	require.Greater(t, s.backoff, config.BackoffFloor)

	s, eff := transition(s, evDialOK)
	assert.Equal(t, StatusOpen, s.status)
	assert.Equal(t, config.BackoffFloor, s.backoff)
	assert.True(t, eff.ready)
	assert.True(t, eff.notifyStatus)
}

func TestOpenResetsJoinHandshake(t *testing.T) {
	s := newConnState()
	s, _ = transition(s, evDialOK)
	s.joined = true

	// The join handshake is per physical connection.
	s, _ = transition(s, evConnLost)
	assert.False(t, s.joined)

	s, eff := transition(s, evDialOK)
	assert.False(t, s.joined)
	assert.True(t, eff.ready)
}

func TestCloseCancelsTimers(t *testing.T) {
	s := newConnState()
	s, _ = transition(s, evConnLost)

	s, eff := transition(s, evCloseRequested)
	assert.Equal(t, StatusClosed, s.status)
	assert.True(t, eff.cancelTimer)
	assert.True(t, eff.notifyStatus)
	assert.Zero(t, eff.reconnectIn)
}
