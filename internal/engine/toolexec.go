package engine

import (
	"github.com/linealab/linea/internal/canvas"
	"github.com/linealab/linea/internal/geom"
)

// applyToolAction mutates the tool state for one action and reports whether
// anything changed. gen allocates IDs for scratch objects the pen and text
// tools create.
func applyToolAction(ts *ToolState, gen *canvas.IDGen, a ToolAction) bool {
	switch a.Kind {
	case ActMousePoint:
		if ts.MousePoint == a.P {
			return false
		}
		ts.MousePoint = a.P
		return true

	case ActSelectTool:
		return selectTool(ts, gen, a.Tool)

	case ActSelectAdd:
		if ts.Tool.isSelected(a.ID) {
			return false
		}
		ts.Tool.Selected = append(ts.Tool.Selected, a.ID)
		return true

	case ActSelectRemove:
		for i, id := range ts.Tool.Selected {
			if id == a.ID {
				ts.Tool.Selected = append(ts.Tool.Selected[:i], ts.Tool.Selected[i+1:]...)
				return true
			}
		}
		return false

	case ActSelectClear:
		if len(ts.Tool.Selected) == 0 {
			return false
		}
		ts.Tool.Selected = nil
		return true

	case ActPenMove:
		return penMove(ts, a.P)

	case ActPenAdd:
		return penAdd(ts, gen, a.P)

	case ActTextUpdate:
		return textUpdate(ts, a.P, a.Body)

	case ActPanStart:
		ts.Pan = PanPanning
		ts.PanStart = a.P
		return true

	case ActPanMove:
		offset := ts.PanStart.Sub(a.P)
		if ts.Frame.ViewBox.Offset == offset {
			return false
		}
		ts.Frame.ViewBox.Offset = offset
		return true

	case ActPanEnd:
		ts.Pan = PanIdle
		return true

	case ActViewResize:
		ts.ViewportW, ts.ViewportH = a.W, a.H
		ts.Frame.Resize(a.W, a.H)
		return true

	case ActViewScale:
		if a.S <= 0 || ts.Frame.Scale == a.S {
			return false
		}
		ts.Frame.Scale = a.S
		ts.Frame.Resize(ts.ViewportW, ts.ViewportH)
		return true

	case ActViewOffset:
		if ts.Frame.ViewBox.Offset == a.P {
			return false
		}
		ts.Frame.ViewBox.Offset = a.P
		return true

	case ActAddHistory:
		if a.Action == nil {
			return false
		}
		ts.History.Append(*a.Action)
		return true
	}
	return false
}

// selectTool switches the active tool, allocating the new tool's scratch
// state. Same-tool transitions are no-ops.
func selectTool(ts *ToolState, gen *canvas.IDGen, target ToolKind) bool {
	if ts.Tool.Kind == target {
		return false
	}

	mouse := ts.Frame.ViewportToData(ts.MousePoint)
	switch target {
	case ToolSelector:
		ts.Tool = Tool{Kind: ToolSelector}

	case ToolPen:
		temp := make(canvas.ObjectMap)
		root := canvas.Object{ID: gen.Next(), Type: canvas.TypePath}
		seed := canvas.Object{ID: gen.Next(), Type: canvas.TypeNode, Point: mouse}
		live := canvas.Object{
			ID:     gen.Next(),
			Type:   canvas.TypePath,
			Points: []canvas.ObjectID{seed.ID},
		}
		temp[root.ID] = root
		temp[seed.ID] = seed
		temp[live.ID] = live
		ts.Tool = Tool{
			Kind:          ToolPen,
			Temp:          temp,
			RootPathID:    root.ID,
			LiveSubPathID: live.ID,
		}

	case ToolText:
		temp := make(canvas.ObjectMap)
		anchor := canvas.Object{ID: gen.Next(), Type: canvas.TypeNode, Point: mouse}
		text := canvas.Object{ID: gen.Next(), Type: canvas.TypeText, Anchor: anchor.ID}
		temp[anchor.ID] = anchor
		temp[text.ID] = text
		ts.Tool = Tool{
			Kind:       ToolText,
			Temp:       temp,
			LiveTextID: text.ID,
		}
	}
	return true
}

// penMove rubber-bands the live sub-path's last node to p (data coords).
func penMove(ts *ToolState, p geom.Vec) bool {
	live, ok := ts.Tool.Temp[ts.Tool.LiveSubPathID]
	if !ok || len(live.Points) == 0 {
		return false
	}
	lastID := live.Points[len(live.Points)-1]
	node := ts.Tool.Temp[lastID]
	if node.Point == p {
		return false
	}
	node.Point = p
	ts.Tool.Temp[lastID] = node
	return true
}

// penAdd pins the rubber-band node at p and starts a new one: the live
// sub-path's last point (and last line, when present) is copied into the
// committing path, then a fresh node and a line joining it to the pinned
// point are appended to the sub-path.
func penAdd(ts *ToolState, gen *canvas.IDGen, p geom.Vec) bool {
	live, okLive := ts.Tool.Temp[ts.Tool.LiveSubPathID]
	root, okRoot := ts.Tool.Temp[ts.Tool.RootPathID]
	if !okLive || !okRoot || len(live.Points) == 0 {
		return false
	}

	pinned := live.Points[len(live.Points)-1]
	pinnedNode := ts.Tool.Temp[pinned]
	pinnedNode.Point = p
	ts.Tool.Temp[pinned] = pinnedNode

	root.Points = append(root.Points, pinned)
	if len(live.Lines) > 0 {
		root.Lines = append(root.Lines, live.Lines[len(live.Lines)-1])
	}
	ts.Tool.Temp[ts.Tool.RootPathID] = root

	node := canvas.Object{ID: gen.Next(), Type: canvas.TypeNode, Point: p}
	line := canvas.Object{ID: gen.Next(), Type: canvas.TypeLine, Point1: pinned, Point2: node.ID}
	ts.Tool.Temp[node.ID] = node
	ts.Tool.Temp[line.ID] = line

	live.Points = append(live.Points, node.ID)
	live.Lines = append(live.Lines, line.ID)
	ts.Tool.Temp[ts.Tool.LiveSubPathID] = live
	return true
}

// textUpdate moves the scratch text's anchor to p and replaces its body.
func textUpdate(ts *ToolState, p geom.Vec, body string) bool {
	text, ok := ts.Tool.Temp[ts.Tool.LiveTextID]
	if !ok {
		return false
	}
	anchor := ts.Tool.Temp[text.Anchor]

	changed := false
	if anchor.Point != p {
		anchor.Point = p
		ts.Tool.Temp[text.Anchor] = anchor
		changed = true
	}
	if text.Body != body {
		text.Body = body
		ts.Tool.Temp[ts.Tool.LiveTextID] = text
		changed = true
	}
	return changed
}
