package engine

import (
	"github.com/linealab/linea/internal/canvas"
	"github.com/linealab/linea/internal/geom"
)

// EventKind enumerates the events the kernel consumes. The input layer
// (browser shell, websocket session, tests) produces these; everything else
// is ignored.
type EventKind string

const (
	EvMouseMove     EventKind = "mouse.move"
	EvMouseDown     EventKind = "mouse.down"
	EvMouseUp       EventKind = "mouse.up"
	EvKeyDown       EventKind = "key.down"
	EvKeyUp         EventKind = "key.up"
	EvResizeView    EventKind = "view.resize"
	EvScaleView     EventKind = "view.scale"
	EvSetViewOffset EventKind = "view.offset"

	EvAddPerpendicular EventKind = "constraint.perpendicular"
	EvAddCoincident    EventKind = "constraint.coincident"
	EvAddHorizontal    EventKind = "constraint.horizontal"
	EvAddVertical      EventKind = "constraint.vertical"
	EvAddDistance      EventKind = "constraint.distance"

	EvSelectTextTool EventKind = "tool.text"
	EvSetTextValue   EventKind = "text.value"
	EvAddObject      EventKind = "object.add"
)

// Button identifies a pointer button.
type Button string

const (
	ButtonPrimary   Button = "primary"
	ButtonAuxiliary Button = "auxiliary"
	ButtonSecondary Button = "secondary"
)

// Event is a single input to the kernel. Kind discriminates which fields are
// live. Pointer positions are in viewport coordinates.
type Event struct {
	Kind EventKind `json:"kind"`

	P      geom.Vec `json:"p,omitzero"`
	Button Button   `json:"button,omitempty"`
	Ctrl   bool     `json:"ctrl,omitempty"`

	Key string `json:"key,omitempty"`

	W float64  `json:"w,omitempty"`
	H float64  `json:"h,omitempty"`
	S float64  `json:"s,omitempty"`
	O geom.Vec `json:"o,omitzero"`

	// Target distance for constraint.distance.
	D float64 `json:"d,omitempty"`

	Text string `json:"text,omitempty"`

	// Payload for object.add: a pre-built object injected by the host.
	Guide  bool           `json:"guide,omitempty"`
	Object *canvas.Object `json:"object,omitempty"`
}
