package ws

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/collabboard/collabboard/config"
	"github.com/collabboard/collabboard/internal/logx"
)

type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	roomID  string
	channel string // whiteboard, chat, ide

	// set by the join handshake
	username string
	clientID string
}

func (c *Client) read() {
	defer func() {
		c.hub.Leave(c.roomID, c)
		c.conn.Close()
		if c.username != "" {
			c.hub.broadcastRoster(c.roomID)
		}
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.handle(msg)
	}
}

func (c *Client) write() {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *Client) handle(msg []byte) {
	var f config.Frame
	if err := json.Unmarshal(msg, &f); err != nil {
		logx.L.Warn("malformed frame discarded",
			zap.String("room", c.roomID), zap.Error(err))
		return
	}

	// The join/roster envelope is shared by every channel kind.
	if f.Type == config.TypeJoin {
		c.join(f)
		return
	}

	if c.channel != config.ChannelWhiteboard {
		// Chat and IDE payloads are relayed opaquely.
		c.hub.Broadcast(c.roomID, msg, nil)
		return
	}

	switch f.Type {
	case config.TypeDrawStroke:
		c.relayLive(f)
	case config.TypeDrawComplete:
		c.relayCommit(f)
	case config.TypeClearCanvas:
		c.hub.ClearObjects(c.roomID)
		c.hub.Broadcast(c.roomID, encode(config.Frame{Type: config.TypeCanvasCleared}), nil)
	default:
		// Unknown kind from a newer client; ignored for forward compat.
	}
}

func (c *Client) join(f config.Frame) {
	c.hub.SetIdentity(c, f.Username, f.ClientID)

	c.hub.Broadcast(c.roomID, encode(config.Frame{
		Type:     config.TypeUserJoined,
		Username: f.Username,
	}), c)
	c.hub.broadcastRoster(c.roomID)

	// Authoritative resync of the session log for the joiner.
	c.send <- encode(config.Frame{
		Type:    config.TypeSync,
		Objects: c.hub.Objects(c.roomID),
	})
}

// relayLive rewraps a draw_stroke from the sender as a live_stroke carrying
// the sender's identity, fanned out to everyone else.
func (c *Client) relayLive(f config.Frame) {
	c.hub.Broadcast(c.roomID, encode(config.Frame{
		Type: config.TypeLiveStroke,
		Stroke: &config.Live{
			ClientID:  c.clientID,
			Points:    f.Points,
			Color:     f.Color,
			LineWidth: f.LineWidth,
			Tool:      f.Tool,
		},
	}), c)
}

// relayCommit appends the object to the session log and fans it out to the
// whole room, sender included; the sender's client dedupes the echo.
func (c *Client) relayCommit(f config.Frame) {
	if f.Object == nil {
		return
	}
	c.hub.AppendObject(c.roomID, *f.Object)
	c.hub.Broadcast(c.roomID, encode(config.Frame{
		Type:   config.TypeObjectAdded,
		Object: f.Object,
	}), nil)
}

func (h *Hub) broadcastRoster(roomID string) {
	h.Broadcast(roomID, encode(config.Frame{
		Type:  config.TypeUserList,
		Users: h.Roster(roomID),
	}), nil)
}

func encode(f config.Frame) []byte {
	b, err := json.Marshal(f)
	if err != nil {
		logx.L.Error("encode frame failed", zap.Error(err))
		return nil
	}
	return b
}
