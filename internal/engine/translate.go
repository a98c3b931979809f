package engine

import (
	"log/slog"

	"github.com/linealab/linea/internal/canvas"
	"github.com/linealab/linea/internal/geom"
)

// GenerateActions translates one event into the tool and data actions that
// realise it. It reads the states but never mutates them; every decision
// (hit testing, arity checks, commit pruning) happens here so the executors
// stay mechanical. A trailing history.add tool action is appended for each
// emitted data action.
func GenerateActions(ts *ToolState, ds *canvas.DataState, ev Event) ([]ToolAction, []canvas.DataAction) {
	var tool []ToolAction
	var data []canvas.DataAction

	switch ev.Kind {
	case EvMouseMove:
		tool = append(tool, ToolAction{Kind: ActMousePoint, P: ev.P})
		if ts.Pan == PanPanning {
			tool = append(tool, ToolAction{Kind: ActPanMove, P: ev.P})
		}
		switch ts.Tool.Kind {
		case ToolPen:
			tool = append(tool, ToolAction{Kind: ActPenMove, P: ts.Frame.ViewportToData(ev.P)})
		case ToolText:
			tool = append(tool, ToolAction{
				Kind: ActTextUpdate,
				P:    ts.Frame.ViewportToData(ev.P),
				Body: liveTextBody(ts),
			})
		}

	case EvMouseDown:
		switch ev.Button {
		case ButtonSecondary:
			if ts.Pan == PanIdle {
				tool = append(tool, ToolAction{Kind: ActPanStart, P: ts.Frame.ViewportToSVG(ev.P)})
			}
		case ButtonPrimary:
			switch ts.Tool.Kind {
			case ToolSelector:
				tool = append(tool, selectorDown(ts, ds, ev)...)
			case ToolPen:
				tool = append(tool, ToolAction{Kind: ActPenAdd, P: ts.Frame.ViewportToData(ev.P)})
			case ToolText:
				data = append(data, canvas.DataAction{
					Kind:    canvas.ActionAddObject,
					Objects: ts.Tool.Temp.Clone(),
				})
				tool = append(tool, ToolAction{Kind: ActSelectTool, Tool: ToolSelector})
			}
		}

	case EvMouseUp:
		if ev.Button == ButtonSecondary && ts.Pan == PanPanning {
			tool = append(tool, ToolAction{Kind: ActPanEnd})
		}

	case EvKeyDown:
		switch ev.Key {
		case "p":
			tool = append(tool, ToolAction{Kind: ActSelectTool, Tool: ToolPen})
		case "s":
			tool = append(tool, ToolAction{Kind: ActSelectTool, Tool: ToolSelector})
		case "Enter":
			if ts.Tool.Kind == ToolPen {
				data = append(data, canvas.DataAction{
					Kind:    canvas.ActionAddObject,
					Objects: ts.Tool.Temp.Filter(ts.Tool.RootPathID).Clone(),
				})
				tool = append(tool, ToolAction{Kind: ActSelectTool, Tool: ToolSelector})
			}
		}

	case EvKeyUp:
		// Nothing bound.

	case EvResizeView:
		tool = append(tool, ToolAction{Kind: ActViewResize, W: ev.W, H: ev.H})

	case EvScaleView:
		tool = append(tool, ToolAction{Kind: ActViewScale, S: ev.S})

	case EvSetViewOffset:
		tool = append(tool, ToolAction{Kind: ActViewOffset, P: ev.O})

	case EvSelectTextTool:
		tool = append(tool, ToolAction{Kind: ActSelectTool, Tool: ToolText})

	case EvSetTextValue:
		if ts.Tool.Kind == ToolText {
			tool = append(tool, ToolAction{
				Kind: ActTextUpdate,
				P:    ts.Frame.ViewportToData(ts.MousePoint),
				Body: ev.Text,
			})
		}

	case EvAddObject:
		if ev.Object != nil {
			obj := *ev.Object
			obj.Guide = ev.Guide
			data = append(data, canvas.DataAction{
				Kind:    canvas.ActionAddObject,
				Objects: canvas.ObjectMap{obj.ID: obj},
			})
		}

	case EvAddPerpendicular:
		data = appendConstraint(data, ts, canvas.Perpendicular, 2, 2, 0)
	case EvAddCoincident:
		data = appendConstraint(data, ts, canvas.Coincident, 2, 2, 0)
	case EvAddHorizontal:
		data = appendConstraint(data, ts, canvas.Horizontal, 1, 1, 0)
	case EvAddVertical:
		data = appendConstraint(data, ts, canvas.Vertical, 1, 1, 0)
	case EvAddDistance:
		data = appendConstraint(data, ts, canvas.Distance, 1, 2, ev.D)
	}

	for i := range data {
		a := data[i]
		tool = append(tool, ToolAction{Kind: ActAddHistory, Action: &a})
	}
	return tool, data
}

// selectorDown scans the committed objects in creation order and turns the
// first hit into a selection update. Points hit within a 15-unit radius,
// segments within a 10-unit tolerance, both in data units.
func selectorDown(ts *ToolState, ds *canvas.DataState, ev Event) []ToolAction {
	q := ts.Frame.ViewportToData(ev.P)

	var hit canvas.ObjectID
	for _, id := range ds.Objects.SortedIDs() {
		obj := ds.Objects[id]
		switch obj.Type {
		case canvas.TypeNode, canvas.TypeFixedNode:
			if geom.HitNode(obj.Point, nodeHitRadius, q) {
				hit = id
			}
		case canvas.TypeLine:
			a := ds.Objects[obj.Point1].Point
			b := ds.Objects[obj.Point2].Point
			if geom.HitSegment(a, b, lineHitRadius, q) {
				hit = id
			}
		}
		if hit != 0 {
			break
		}
	}

	if ev.Ctrl {
		if hit != 0 {
			return []ToolAction{{Kind: ActSelectRemove, ID: hit}}
		}
		return nil
	}
	if hit != 0 {
		return []ToolAction{{Kind: ActSelectAdd, ID: hit}}
	}
	return []ToolAction{{Kind: ActSelectClear}}
}

// appendConstraint validates the selection cardinality and emits a
// constraint.add data action over the first selected operands. Violations
// log a diagnostic and emit nothing.
func appendConstraint(data []canvas.DataAction, ts *ToolState, kind canvas.ConstraintKind, minSel, maxSel int, d float64) []canvas.DataAction {
	sel := ts.Tool.Selected
	if ts.Tool.Kind != ToolSelector || len(sel) < minSel || len(sel) > maxSel {
		slog.Warn("constraint needs a different selection",
			"constraint", kind, "selected", len(sel), "min", minSel, "max", maxSel)
		return data
	}

	c := canvas.Constraint{Kind: kind, A: sel[0], D: d}
	if len(sel) > 1 {
		c.B = sel[1]
	}
	return append(data, canvas.DataAction{Kind: canvas.ActionAddConstraint, Constraint: &c})
}

// liveTextBody reads the current body of the text tool's scratch object.
func liveTextBody(ts *ToolState) string {
	if ts.Tool.Temp == nil {
		return ""
	}
	return ts.Tool.Temp[ts.Tool.LiveTextID].Body
}
