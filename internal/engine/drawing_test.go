package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linealab/linea/internal/canvas"
	"github.com/linealab/linea/internal/geom"
)

func newTestDrawing() *Drawing {
	return NewWithIDGen(canvas.NewIDGen(1))
}

func mouseMove(x, y float64) Event {
	return Event{Kind: EvMouseMove, P: geom.V(x, y)}
}

func mouseDown(b Button, x, y float64) Event {
	return Event{Kind: EvMouseDown, Button: b, P: geom.V(x, y)}
}

func mouseUp(b Button, x, y float64) Event {
	return Event{Kind: EvMouseUp, Button: b, P: geom.V(x, y)}
}

func keyDown(key string) Event {
	return Event{Kind: EvKeyDown, Key: key}
}

func objectsOfType(m canvas.ObjectMap, typ canvas.ObjectType) []canvas.Object {
	var out []canvas.Object
	for _, id := range m.SortedIDs() {
		if m[id].Type == typ {
			out = append(out, m[id])
		}
	}
	return out
}

func TestPenCommit(t *testing.T) {
	d := newTestDrawing()

	d.SendEvent(keyDown("p"))
	d.SendEvent(mouseMove(10, 10))
	d.SendEvent(mouseDown(ButtonPrimary, 10, 10))
	d.SendEvent(mouseMove(20, 30))
	d.SendEvent(mouseDown(ButtonPrimary, 20, 30))
	d.SendEvent(mouseMove(40, 40))
	d.SendEvent(keyDown("Enter"))

	ds := d.DataState()
	require.NoError(t, ds.Objects.Validate())

	paths := objectsOfType(ds.Objects, canvas.TypePath)
	require.Len(t, paths, 1)
	require.Len(t, paths[0].Points, 2)
	require.Len(t, paths[0].Lines, 1)

	nodes := objectsOfType(ds.Objects, canvas.TypeNode)
	require.Len(t, nodes, 2)
	// Data coordinates: y flips against the viewport.
	assert.Equal(t, geom.V(10, -10), ds.Objects[paths[0].Points[0]].Point)
	assert.Equal(t, geom.V(20, -30), ds.Objects[paths[0].Points[1]].Point)

	require.Len(t, objectsOfType(ds.Objects, canvas.TypeLine), 1)
	assert.Len(t, ds.Objects, 4)

	assert.Equal(t, ToolSelector, d.ToolState().Tool.Kind)
	assert.Len(t, d.History(), 1)
}

func TestPanRoundTrip(t *testing.T) {
	d := newTestDrawing()

	d.SendEvent(Event{Kind: EvSetViewOffset, O: geom.V(0, 0)})
	d.SendEvent(mouseDown(ButtonSecondary, 100, 100))
	d.SendEvent(mouseMove(120, 130))

	offset := d.ToolState().Frame.ViewBox.Offset
	assert.InDelta(t, -20.0, offset.X, 1e-9)
	assert.InDelta(t, -30.0, offset.Y, 1e-9)

	d.SendEvent(mouseMove(100, 100))
	d.SendEvent(mouseUp(ButtonSecondary, 100, 100))

	ts := d.ToolState()
	assert.Equal(t, PanIdle, ts.Pan)
	assert.InDelta(t, 0.0, ts.Frame.ViewBox.Offset.X, 1e-9)
	assert.InDelta(t, 0.0, ts.Frame.ViewBox.Offset.Y, 1e-9)
}

// addNode commits a standalone node through the host object-injection event
// and returns its ID.
func addNode(t *testing.T, d *Drawing, x, y float64) canvas.ObjectID {
	t.Helper()
	obj := canvas.Object{Type: canvas.TypeNode, Point: geom.V(x, y)}
	require.True(t, d.SendEvent(Event{Kind: EvAddObject, Object: &obj}))

	ds := d.DataState()
	ids := ds.Objects.SortedIDs()
	return ids[len(ids)-1]
}

func TestSelectorSelection(t *testing.T) {
	d := newTestDrawing()
	id := addNode(t, d, 50, 50)

	// Click within the 15-unit radius: viewport (50,-50) maps to data (50,50).
	d.SendEvent(mouseDown(ButtonPrimary, 50, -50))
	assert.Equal(t, []canvas.ObjectID{id}, d.ToolState().Tool.Selected)

	// Click on empty space clears.
	d.SendEvent(mouseDown(ButtonPrimary, 500, 500))
	assert.Empty(t, d.ToolState().Tool.Selected)

	// Ctrl-click deselects a hit and ignores a miss.
	d.SendEvent(mouseDown(ButtonPrimary, 50, -50))
	d.SendEvent(Event{Kind: EvMouseDown, Button: ButtonPrimary, Ctrl: true, P: geom.V(500, 500)})
	assert.Equal(t, []canvas.ObjectID{id}, d.ToolState().Tool.Selected)
	d.SendEvent(Event{Kind: EvMouseDown, Button: ButtonPrimary, Ctrl: true, P: geom.V(50, -50)})
	assert.Empty(t, d.ToolState().Tool.Selected)
}

func TestConstraintArityViolationEmitsNothing(t *testing.T) {
	d := newTestDrawing()
	addNode(t, d, 50, 50)
	d.SendEvent(mouseDown(ButtonPrimary, 50, -50))

	// Perpendicular needs two selections; one is a diagnostic no-op.
	changed := d.SendEvent(Event{Kind: EvAddPerpendicular})
	assert.False(t, changed)
	assert.Empty(t, d.DataState().Constraints)
}

func TestDistanceConstraintOverSelection(t *testing.T) {
	d := newTestDrawing()
	a := addNode(t, d, 0, 0)
	b := addNode(t, d, 30, 40)

	d.SendEvent(mouseDown(ButtonPrimary, 0, 0))
	d.SendEvent(mouseDown(ButtonPrimary, 30, -40))
	require.Equal(t, []canvas.ObjectID{a, b}, d.ToolState().Tool.Selected)

	require.True(t, d.SendEvent(Event{Kind: EvAddDistance, D: 10}))

	ds := d.DataState()
	require.Len(t, ds.Constraints, 1)
	assert.Equal(t, canvas.Distance, ds.Constraints[0].Kind)

	dist := ds.Objects[b].Point.Sub(ds.Objects[a].Point).LenSq()
	assert.InDelta(t, 100.0, dist, 1e-4)

	// The constraint add is recorded in history after the object adds.
	h := d.History()
	require.Len(t, h, 3)
	assert.Equal(t, canvas.ActionAddConstraint, h[2].Kind)
}

func TestTextCommit(t *testing.T) {
	d := newTestDrawing()

	d.SendEvent(Event{Kind: EvSelectTextTool})
	d.SendEvent(mouseMove(30, 40))
	d.SendEvent(Event{Kind: EvSetTextValue, Text: "x^2"})
	d.SendEvent(mouseDown(ButtonPrimary, 30, 40))

	ds := d.DataState()
	texts := objectsOfType(ds.Objects, canvas.TypeText)
	require.Len(t, texts, 1)
	assert.Equal(t, "x^2", texts[0].Body)
	assert.Equal(t, geom.V(30, -40), ds.Objects[texts[0].Anchor].Point)

	assert.Equal(t, ToolSelector, d.ToolState().Tool.Kind)
}

func TestSameToolTransitionIsNoOp(t *testing.T) {
	d := newTestDrawing()

	require.True(t, d.SendEvent(keyDown("p")))
	temp := d.ToolState().Tool.Temp

	assert.False(t, d.SendEvent(keyDown("p")))
	assert.Equal(t, temp, d.ToolState().Tool.Temp)
}

func TestScaleAndResize(t *testing.T) {
	d := newTestDrawing()

	d.SendEvent(Event{Kind: EvResizeView, W: 800, H: 600})
	ts := d.ToolState()
	assert.InDelta(t, 800.0, ts.Frame.ViewBox.Width, 1e-12)

	d.SendEvent(Event{Kind: EvScaleView, S: 2})
	ts = d.ToolState()
	assert.InDelta(t, 400.0, ts.Frame.ViewBox.Width, 1e-12)
	assert.InDelta(t, 300.0, ts.Frame.ViewBox.Height, 1e-12)
}

func TestListeners(t *testing.T) {
	d := newTestDrawing()

	calls := 0
	id := d.AddListener(func() { calls++ })

	d.SendEvent(mouseMove(1, 1))
	assert.Equal(t, 1, calls)

	// An event that changes nothing does not notify.
	d.SendEvent(mouseMove(1, 1))
	assert.Equal(t, 1, calls)

	d.RemoveListener(id)
	d.SendEvent(mouseMove(2, 2))
	assert.Equal(t, 1, calls)
}

func TestReentrantSendRejected(t *testing.T) {
	d := newTestDrawing()

	var inner bool
	d.AddListener(func() {
		inner = d.SendEvent(mouseMove(9, 9))
	})

	require.True(t, d.SendEvent(mouseMove(1, 1)))
	assert.False(t, inner)
	// The re-entrant move was dropped, not queued.
	assert.Equal(t, geom.V(1, 1), d.ToolState().MousePoint)
}

func TestMalformedAddObjectSkipped(t *testing.T) {
	d := newTestDrawing()

	// A line referencing nothing violates the schema and must not land.
	obj := canvas.Object{Type: canvas.TypeLine, Point1: 100, Point2: 101}
	changed := d.SendEvent(Event{Kind: EvAddObject, Object: &obj})

	assert.False(t, changed)
	assert.Empty(t, d.DataState().Objects)
}
