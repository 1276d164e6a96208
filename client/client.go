package client

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/collabboard/collabboard/config"
	"github.com/collabboard/collabboard/internal/logx"
)

// Endpoint builds a channel address, e.g.
// wss://host/ws/whiteboard/ROOMCODE/.
func Endpoint(scheme, host, channel, id string) string {
	return fmt.Sprintf("%s://%s/ws/%s/%s/", scheme, host, channel, id)
}

// Options for a RoomClient. Scheme, Host, Room and Username are required;
// the rest default.
type Options struct {
	Scheme   string
	Host     string
	Room     string
	Username string

	Dialer Dialer           // test hook; defaults to gorilla/websocket
	Now    func() time.Time // test hook for the gesture throttle

	OnChange func(Snapshot) // canvas changed; render sink repaints
	OnRoster func([]string) // roster changed
	OnStatus func(Status)   // connection status changed
}

// RoomClient is the synchronization client for one whiteboard room. All
// shared state (object log, live overlays, roster, gesture buffer) is owned
// by a single run loop; public methods post work into it and every handler
// runs to completion before the next, so the state needs no locks of its
// own. The transport session is the only concurrent piece and keeps its own
// discipline.
type RoomClient struct {
	opts     Options
	clientID string
	seq      int64 // touched only on the run loop

	session  *Session
	state    *DrawState
	presence *Presence
	gesture  *gestureStreamer

	mailbox chan func()
	done    chan struct{}
	once    sync.Once
}

// NewRoomClient builds a client and starts connecting.
func NewRoomClient(opts Options) *RoomClient {
	c := &RoomClient{
		opts:     opts,
		clientID: uuid.NewString(),
		state:    NewDrawState(),
		presence: NewPresence(),
		gesture:  newGestureStreamer(opts.Now),
		mailbox:  make(chan func(), 256),
		done:     make(chan struct{}),
	}

	url := Endpoint(opts.Scheme, opts.Host, config.ChannelWhiteboard, opts.Room)
	c.session = NewSession(url, SessionConfig{
		Dialer:   opts.Dialer,
		OnReady:  c.sendJoin,
		OnFrame:  c.onFrame,
		OnStatus: opts.OnStatus,
	})

	go c.run()
	c.session.Open()
	return c
}

// ClientID is the session-scoped identity stamped on committed objects.
func (c *RoomClient) ClientID() string { return c.clientID }

func (c *RoomClient) run() {
	for {
		select {
		case f := <-c.mailbox:
			f()
		case <-c.done:
			return
		}
	}
}

func (c *RoomClient) post(f func()) {
	select {
	case c.mailbox <- f:
	case <-c.done:
	}
}

// sendJoin runs on every fresh physical connection. Session.Join dedupes,
// so racing reconnect attempts still produce exactly one handshake per
// connection.
func (c *RoomClient) sendJoin() {
	frame, err := EncodeJoin(c.opts.Username, c.clientID)
	if err != nil {
		logx.L.Error("encode join failed", zap.Error(err))
		return
	}
	c.session.Join(frame)
}

func (c *RoomClient) onFrame(data []byte) {
	ev, err := Decode(data)
	if err != nil {
		logx.L.Warn("malformed frame discarded", zap.Error(err))
		return
	}
	c.post(func() { c.apply(ev) })
}

func (c *RoomClient) apply(ev Event) {
	switch ev.Kind {
	case EventLive:
		if ev.Live.ClientID == c.clientID {
			return // our own fragment echoed back
		}
		c.state.ApplyLive(*ev.Live)
		c.changed()
	case EventObjectAdded:
		if c.state.ApplyCommit(*ev.Object) {
			c.changed()
		}
	case EventCleared:
		c.state.ApplyClear()
		c.changed()
	case EventSync:
		c.state.ApplySync(ev.Objects)
		c.changed()
	case EventUserList:
		c.presence.OnFullRoster(ev.Users)
		c.rosterChanged()
	case EventUserJoined:
		c.presence.OnJoinNotice(ev.Username)
		c.rosterChanged()
	case EventNone:
		// Unknown frame kind from a newer peer; deliberately ignored.
	}
}

// PointerDown begins a stroke gesture.
func (c *RoomClient) PointerDown(x, y float64, color string, width float64, tool string) {
	c.post(func() {
		c.gesture.Down(config.Point{X: x, Y: y}, color, width, tool)
	})
}

// PointerMove extends the active gesture and streams a throttled live
// fragment to peers.
func (c *RoomClient) PointerMove(x, y float64) {
	c.post(func() {
		batch, emit := c.gesture.Move(config.Point{X: x, Y: y})
		if !emit {
			return
		}
		color, width, tool := c.gesture.style()
		frame, err := EncodeDrawStroke(batch, color, width, tool)
		if err != nil {
			logx.L.Warn("encode live fragment failed", zap.Error(err))
			return
		}
		c.session.Send(frame)
	})
}

// PointerUp commits the gesture: the full buffer becomes one immutable
// object, applied locally right away and sent to the relay. The relay echo
// is deduplicated by the (createdBy, sequenceId) key.
func (c *RoomClient) PointerUp() {
	c.post(func() {
		obj, ok := c.gesture.Up()
		if !ok {
			return
		}
		c.commit(obj)
	})
}

// AddShape commits a finished shape (line, rect, circle, arrow). Shapes have
// no live phase; placing one is a single commit.
func (c *RoomClient) AddShape(shape string, points []config.Point, color string, width float64) {
	c.post(func() {
		c.commit(config.DrawingObject{
			Kind:      config.KindShape,
			Shape:     shape,
			Points:    points,
			Color:     color,
			LineWidth: width,
			Tool:      config.ToolPen,
		})
	})
}

// AddText commits a text placement at an anchor point.
func (c *RoomClient) AddText(text string, anchor config.Point, color string) {
	c.post(func() {
		c.commit(config.DrawingObject{
			Kind:   config.KindText,
			Points: []config.Point{anchor},
			Text:   text,
			Color:  color,
			Tool:   config.ToolPen,
		})
	})
}

// commit stamps identity, applies optimistically, and sends. Runs on the
// run loop only.
func (c *RoomClient) commit(obj config.DrawingObject) {
	c.seq++
	obj.CreatedBy = c.clientID
	obj.SequenceID = c.seq

	c.state.ApplyCommit(obj)
	c.changed()

	frame, err := EncodeDrawComplete(obj)
	if err != nil {
		logx.L.Warn("encode commit failed", zap.Error(err))
		return
	}
	c.session.Send(frame)
}

// Clear empties the canvas locally and room-wide.
func (c *RoomClient) Clear() {
	c.post(func() {
		c.state.ApplyClear()
		c.changed()
		frame, err := EncodeClear()
		if err != nil {
			logx.L.Warn("encode clear failed", zap.Error(err))
			return
		}
		c.session.Send(frame)
	})
}

// Snapshot returns a render-ready copy of the canvas. Safe from any
// goroutine; the copy is made on the run loop.
func (c *RoomClient) Snapshot() Snapshot {
	reply := make(chan Snapshot, 1)
	c.post(func() { reply <- c.state.Snapshot() })
	select {
	case snap := <-reply:
		return snap
	case <-c.done:
		return Snapshot{}
	}
}

// Users returns the current roster.
func (c *RoomClient) Users() []string {
	reply := make(chan []string, 1)
	c.post(func() { reply <- c.presence.Users() })
	select {
	case users := <-reply:
		return users
	case <-c.done:
		return nil
	}
}

// Close tears the client down: the session stops reconnecting, pending
// timers are cancelled, and the run loop exits. Idempotent.
func (c *RoomClient) Close() {
	c.once.Do(func() {
		c.session.Close()
		close(c.done)
	})
}

func (c *RoomClient) changed() {
	if c.opts.OnChange != nil {
		c.opts.OnChange(c.state.Snapshot())
	}
}

func (c *RoomClient) rosterChanged() {
	if c.opts.OnRoster != nil {
		c.opts.OnRoster(c.presence.Users())
	}
}
