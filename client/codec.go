package client

import (
	"encoding/json"

	"github.com/collabboard/collabboard/config"
)

// EventKind tags a decoded inbound frame. EventNone is the permissive-decode
// result for frame types this build does not know about; the state layer
// ignores it, so version skew between peers never breaks the session.
type EventKind int

const (
	EventNone EventKind = iota
	EventLive
	EventObjectAdded
	EventCleared
	EventUserList
	EventUserJoined
	EventSync
)

// Event is a decoded relay frame.
type Event struct {
	Kind     EventKind
	Live     *config.Live
	Object   *config.DrawingObject
	Users    []string
	Username string
	Objects  []config.DrawingObject
}

// Decode parses one inbound text frame. Malformed JSON is an error; a
// well-formed frame with an unrecognized type decodes to EventNone.
func Decode(data []byte) (Event, error) {
	var f config.Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Event{}, err
	}

	switch f.Type {
	case config.TypeLiveStroke:
		if f.Stroke == nil {
			return Event{}, nil
		}
		return Event{Kind: EventLive, Live: f.Stroke}, nil
	case config.TypeObjectAdded:
		if f.Object == nil {
			return Event{}, nil
		}
		return Event{Kind: EventObjectAdded, Object: f.Object}, nil
	case config.TypeCanvasCleared:
		return Event{Kind: EventCleared}, nil
	case config.TypeUserList:
		return Event{Kind: EventUserList, Users: f.Users}, nil
	case config.TypeUserJoined:
		return Event{Kind: EventUserJoined, Username: f.Username}, nil
	case config.TypeSync:
		return Event{Kind: EventSync, Objects: f.Objects}, nil
	default:
		return Event{}, nil
	}
}

func EncodeJoin(username, clientID string) ([]byte, error) {
	return json.Marshal(config.Frame{
		Type:     config.TypeJoin,
		Username: username,
		ClientID: clientID,
	})
}

func EncodeDrawStroke(points []config.Point, color string, lineWidth float64, tool string) ([]byte, error) {
	return json.Marshal(config.Frame{
		Type:      config.TypeDrawStroke,
		Points:    points,
		Color:     color,
		LineWidth: lineWidth,
		Tool:      tool,
	})
}

func EncodeDrawComplete(obj config.DrawingObject) ([]byte, error) {
	return json.Marshal(config.Frame{
		Type:   config.TypeDrawComplete,
		Object: &obj,
	})
}

func EncodeClear() ([]byte, error) {
	return json.Marshal(config.Frame{Type: config.TypeClearCanvas})
}
