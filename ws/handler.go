package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/collabboard/collabboard/config"
	"github.com/collabboard/collabboard/internal/logx"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Routes registers the websocket address family. Whiteboard, chat and IDE
// channels share the join/roster envelope; only the whiteboard's payload
// frames are interpreted by the relay.
func Routes(mux *http.ServeMux, hub *Hub) {
	mux.HandleFunc("/ws/whiteboard/{room}/", handler(hub, config.ChannelWhiteboard))
	mux.HandleFunc("/ws/chat/{room}/", handler(hub, config.ChannelChat))
	mux.HandleFunc("/ws/ide/{room}/", handler(hub, config.ChannelIDE))
}

func handler(hub *Hub, channel string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room := r.PathValue("room")
		if room == "" {
			http.Error(w, "room required", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.L.Warn("upgrade failed", zap.Error(err))
			return
		}

		client := &Client{
			hub:     hub,
			conn:    conn,
			send:    make(chan []byte, 256),
			roomID:  channel + ":" + room,
			channel: channel,
		}

		hub.Join(client.roomID, client)
		logx.L.Info("client connected",
			zap.String("channel", channel), zap.String("room", room))

		go client.write()
		client.read()
	}
}
