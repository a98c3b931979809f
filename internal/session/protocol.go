package session

import (
	"encoding/json"

	"github.com/linealab/linea/internal/canvas"
	"github.com/linealab/linea/internal/engine"
)

// Message is the envelope on the editor websocket. Inbound messages carry
// kernel events; outbound messages carry the post-event state.
type Message struct {
	Type      string          `json:"type"`
	SketchID  string          `json:"sketchId,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// TypeWelcome is sent once after attach, carrying the initial state.
	TypeWelcome = "welcome"
	// TypeEvent is inbound: payload is one engine.Event.
	TypeEvent = "event"
	// TypeState is outbound after any event that changed state.
	TypeState = "state"
	TypeError = "error"
)

// StatePayload is the body of welcome and state messages.
type StatePayload struct {
	Tool engine.ToolState `json:"tool"`
	Data canvas.DataState `json:"data"`
}
