package config

// Frame is the wire envelope: one JSON object per websocket text frame,
// tagged by Type. Fields beyond Type are populated per kind and omitted
// otherwise, so every frame kind shares this one struct.
type Frame struct {
	Type string `json:"type"`

	// join / user_joined
	Username string `json:"username,omitempty"`
	ClientID string `json:"clientId,omitempty"`

	// draw_stroke / live_stroke
	Points    []Point `json:"points,omitempty"`
	Color     string  `json:"color,omitempty"`
	LineWidth float64 `json:"lineWidth,omitempty"`
	Tool      string  `json:"tool,omitempty"`
	Stroke    *Live   `json:"stroke,omitempty"`

	// draw_complete / object_added
	Object *DrawingObject `json:"object,omitempty"`

	// user_list
	Users []string `json:"users,omitempty"`

	// sync
	Objects []DrawingObject `json:"objects,omitempty"`
}

// Frame type tags, client to relay.
const (
	TypeJoin         = "join"
	TypeDrawStroke   = "draw_stroke"
	TypeDrawComplete = "draw_complete"
	TypeClearCanvas  = "clear_canvas"
)

// Frame type tags, relay to client.
const (
	TypeLiveStroke    = "live_stroke"
	TypeObjectAdded   = "object_added"
	TypeCanvasCleared = "canvas_cleared"
	TypeUserList      = "user_list"
	TypeUserJoined    = "user_joined"
	TypeSync          = "sync"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Object kinds.
const (
	KindStroke = "stroke"
	KindShape  = "shape"
	KindText   = "text"
)

// Shape variants for KindShape.
const (
	ShapeLine   = "line"
	ShapeRect   = "rect"
	ShapeCircle = "circle"
	ShapeArrow  = "arrow"
)

// Tool modes. The state layer is tool-agnostic; the eraser only changes
// how the render sink composites the object.
const (
	ToolPen    = "pen"
	ToolEraser = "eraser"
)

// DrawingObject is a committed canvas object. Immutable once created;
// (CreatedBy, SequenceID) is the idempotence key for relay echoes.
type DrawingObject struct {
	Kind       string  `json:"kind"`
	Shape      string  `json:"shape,omitempty"`
	Points     []Point `json:"points"`
	Text       string  `json:"text,omitempty"`
	Color      string  `json:"color"`
	LineWidth  float64 `json:"lineWidth"`
	Tool       string  `json:"tool"`
	CreatedBy  string  `json:"createdBy"`
	SequenceID int64   `json:"sequenceId"`
}

// Live is an in-progress stroke fragment relayed to peers. Never stored
// in the room log.
type Live struct {
	ClientID  string  `json:"clientId"`
	Points    []Point `json:"points"`
	Color     string  `json:"color"`
	LineWidth float64 `json:"lineWidth"`
	Tool      string  `json:"tool"`
}
