package config

import "time"

// Reconnect backoff. The delay starts at the floor, grows by the factor on
// every failed attempt, is capped, and snaps back to the floor on the next
// successful open.
const (
	BackoffFloor  = 1000 * time.Millisecond
	BackoffCap    = 10000 * time.Millisecond
	BackoffFactor = 1.5
)

// Gesture streaming. Live fragments carry at most LiveBatchSize trailing
// points and are emitted at most once per SendInterval, so per-frame size
// stays bounded no matter how long the gesture runs.
const (
	SendInterval  = 16 * time.Millisecond
	LiveBatchSize = 10
)

// Channel kinds under /ws/. Chat and IDE share the join/roster envelope
// with the whiteboard but their payload frames are relayed opaquely.
const (
	ChannelWhiteboard = "whiteboard"
	ChannelChat       = "chat"
	ChannelIDE        = "ide"
)

// RoomCodeLen is the length of the shareable board room code.
const RoomCodeLen = 8
