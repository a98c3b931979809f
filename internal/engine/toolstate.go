package engine

import (
	"github.com/linealab/linea/internal/canvas"
	"github.com/linealab/linea/internal/geom"
	"github.com/linealab/linea/internal/history"
)

// ToolKind identifies the active tool.
type ToolKind string

const (
	ToolSelector ToolKind = "selector"
	ToolPen      ToolKind = "pen"
	ToolText     ToolKind = "text"
)

// PanState is the pan sub-state, orthogonal to the active tool.
type PanState string

const (
	PanIdle    PanState = "idle"
	PanPanning PanState = "panning"
)

// Hit tolerances for the selector scan, in data units.
const (
	nodeHitRadius = 15
	lineHitRadius = 10
)

// Tool is the per-tool transient state. Kind discriminates which fields are
// live. Selected keeps insertion order so constraint operands are taken in
// the order the user picked them.
type Tool struct {
	Kind ToolKind `json:"kind"`

	// Selector
	Selected []canvas.ObjectID `json:"selected,omitempty"`

	// Pen and Text scratch objects, merged into the data state on commit.
	Temp canvas.ObjectMap `json:"temp,omitempty"`

	// Pen
	RootPathID    canvas.ObjectID `json:"rootPathId,omitempty"`
	LiveSubPathID canvas.ObjectID `json:"liveSubPathId,omitempty"`

	// Text
	LiveTextID canvas.ObjectID `json:"liveTextId,omitempty"`
}

// isSelected reports whether id is in the selection.
func (t Tool) isSelected(id canvas.ObjectID) bool {
	for _, s := range t.Selected {
		if s == id {
			return true
		}
	}
	return false
}

// ToolState is the transient half of a drawing: the active tool, the view
// frame, the pan sub-state and the action history. It is never persisted
// directly; only the history tree is.
type ToolState struct {
	Tool       Tool          `json:"tool"`
	History    *history.Tree `json:"-"`
	MousePoint geom.Vec      `json:"mousePoint"`
	Frame      geom.Frame    `json:"frame"`

	// Last viewport pixel size, re-applied when the scale changes.
	ViewportW float64 `json:"viewportW"`
	ViewportH float64 `json:"viewportH"`

	Pan      PanState `json:"pan"`
	PanStart geom.Vec `json:"panStart,omitzero"`
}

// NewToolState returns the initial tool state: selector tool, identity view,
// empty history.
func NewToolState() ToolState {
	return ToolState{
		Tool:    Tool{Kind: ToolSelector},
		History: history.New(),
		Frame:   geom.NewFrame(0, 0, 0, 0),
		Pan:     PanIdle,
	}
}

// Clone returns a deep copy of the tool state. The history tree is shared;
// callers receiving a clone treat it as read-only.
func (ts ToolState) Clone() ToolState {
	out := ts
	out.Tool.Selected = append([]canvas.ObjectID(nil), ts.Tool.Selected...)
	if ts.Tool.Temp != nil {
		out.Tool.Temp = ts.Tool.Temp.Clone()
	}
	return out
}
