package client

import (
	"time"

	"github.com/collabboard/collabboard/config"
)

// gestureStreamer turns pointer samples into a throttled stream of live
// fragments plus one terminal commit. One instance per client; a gesture is
// idle -> active on pointer-down and active -> idle on pointer-up, and no
// events are produced for a gesture after it ends.
type gestureStreamer struct {
	now func() time.Time

	active   bool
	points   []config.Point
	color    string
	width    float64
	tool     string
	lastSend time.Time
}

func newGestureStreamer(now func() time.Time) *gestureStreamer {
	if now == nil {
		now = time.Now
	}
	return &gestureStreamer{now: now}
}

// Down starts a gesture. A down sample while a gesture is already active is
// ignored; the active gesture keeps running until its pointer-up.
func (g *gestureStreamer) Down(p config.Point, color string, width float64, tool string) {
	if g.active {
		return
	}
	g.active = true
	g.points = []config.Point{p}
	g.color = color
	g.width = width
	g.tool = tool
	g.lastSend = time.Time{}
}

// Move appends a sample and, at most once per SendInterval, hands back the
// newest batch of points to put on the wire. The batch is capped at
// LiveBatchSize so frame size is independent of gesture length.
func (g *gestureStreamer) Move(p config.Point) (batch []config.Point, emit bool) {
	if !g.active {
		return nil, false
	}
	g.points = append(g.points, p)

	now := g.now()
	if !g.lastSend.IsZero() && now.Sub(g.lastSend) < config.SendInterval {
		return nil, false
	}
	g.lastSend = now

	start := len(g.points) - config.LiveBatchSize
	if start < 0 {
		start = 0
	}
	batch = make([]config.Point, len(g.points)-start)
	copy(batch, g.points[start:])
	return batch, true
}

// Up ends the gesture and returns the full accumulated buffer as one
// immutable object. The caller stamps CreatedBy and SequenceID. Returns
// false if no gesture was active.
func (g *gestureStreamer) Up() (config.DrawingObject, bool) {
	if !g.active {
		return config.DrawingObject{}, false
	}
	obj := config.DrawingObject{
		Kind:      config.KindStroke,
		Points:    g.points,
		Color:     g.color,
		LineWidth: g.width,
		Tool:      g.tool,
	}
	g.active = false
	g.points = nil
	return obj, true
}

// Color and width of the gesture in flight, for building live fragments.
func (g *gestureStreamer) style() (color string, width float64, tool string) {
	return g.color, g.width, g.tool
}
