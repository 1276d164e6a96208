package client

import (
	"time"

	"github.com/collabboard/collabboard/config"
)

// Status of the transport session's physical connection.
type Status int

const (
	StatusConnecting Status = iota
	StatusOpen
	StatusClosed
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// connState is the session's finite state: connection status, whether the
// join handshake has gone out on the current physical connection, and the
// current reconnect delay.
type connState struct {
	status  Status
	joined  bool
	backoff time.Duration
}

func newConnState() connState {
	return connState{status: StatusConnecting, backoff: config.BackoffFloor}
}

type connEvent int

const (
	evDialOK connEvent = iota
	evDialFail
	evConnLost
	evCloseRequested
)

// connEffects are the side effects a transition asks the session to perform.
// Keeping transitions pure makes the reconnect policy testable without a
// live connection.
type connEffects struct {
	notifyStatus bool
	ready        bool          // invoke onReady; caller sends join now
	reconnectIn  time.Duration // >0: schedule a dial attempt
	cancelTimer  bool
}

func transition(s connState, ev connEvent) (connState, connEffects) {
	switch ev {
	case evDialOK:
		// Fresh physical connection: join handshake owed again, backoff
		// snaps back to the floor.
		s.status = StatusOpen
		s.joined = false
		s.backoff = config.BackoffFloor
		return s, connEffects{notifyStatus: true, ready: true}

	case evDialFail:
		s.status = StatusConnecting
		s.backoff = growBackoff(s.backoff)
		return s, connEffects{reconnectIn: s.backoff}

	case evConnLost:
		s.status = StatusConnecting
		s.joined = false
		return s, connEffects{notifyStatus: true, reconnectIn: s.backoff}

	case evCloseRequested:
		s.status = StatusClosed
		s.joined = false
		return s, connEffects{notifyStatus: true, cancelTimer: true}
	}
	return s, connEffects{}
}

func growBackoff(d time.Duration) time.Duration {
	grown := time.Duration(float64(d) * config.BackoffFactor)
	if grown > config.BackoffCap {
		return config.BackoffCap
	}
	return grown
}
