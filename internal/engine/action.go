package engine

import (
	"github.com/linealab/linea/internal/canvas"
	"github.com/linealab/linea/internal/geom"
)

// ToolActionKind enumerates the transient mutations of the tool state.
type ToolActionKind string

const (
	ActMousePoint ToolActionKind = "mouse.point"
	ActSelectTool ToolActionKind = "tool.select"

	ActSelectAdd    ToolActionKind = "select.add"
	ActSelectRemove ToolActionKind = "select.remove"
	ActSelectClear  ToolActionKind = "select.clear"

	ActPenMove ToolActionKind = "pen.move"
	ActPenAdd  ToolActionKind = "pen.add"

	ActTextUpdate ToolActionKind = "text.update"

	ActPanStart ToolActionKind = "pan.start"
	ActPanMove  ToolActionKind = "pan.move"
	ActPanEnd   ToolActionKind = "pan.end"

	ActViewResize ToolActionKind = "view.resize"
	ActViewScale  ToolActionKind = "view.scale"
	ActViewOffset ToolActionKind = "view.offset"

	// ActAddHistory records a data action in the history tree. The
	// translator appends one per emitted data action; the façade runs them
	// after the data executor so the order is tool state, data state,
	// history.
	ActAddHistory ToolActionKind = "history.add"
)

// ToolAction is one transient mutation. Kind discriminates which fields are
// live. P is in the coordinate frame the kind calls for: viewport for
// mouse.point and pan.move, SVG for pan.start, data for the pen and text
// kinds.
type ToolAction struct {
	Kind ToolActionKind

	P    geom.Vec
	Tool ToolKind
	ID   canvas.ObjectID

	W, H, S float64
	Body    string

	Action *canvas.DataAction
}
