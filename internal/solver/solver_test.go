package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linealab/linea/internal/canvas"
	"github.com/linealab/linea/internal/geom"
)

func node(id canvas.ObjectID, x, y float64) canvas.Object {
	return canvas.Object{ID: id, Type: canvas.TypeNode, Point: geom.V(x, y)}
}

func fixedNode(id canvas.ObjectID, x, y float64) canvas.Object {
	return canvas.Object{ID: id, Type: canvas.TypeFixedNode, Point: geom.V(x, y)}
}

func line(id, p1, p2 canvas.ObjectID) canvas.Object {
	return canvas.Object{ID: id, Type: canvas.TypeLine, Point1: p1, Point2: p2}
}

func direction(m canvas.ObjectMap, lineID canvas.ObjectID) geom.Vec {
	l := m[lineID]
	return m[l.Point2].Point.Sub(m[l.Point1].Point)
}

func TestPerpendicular(t *testing.T) {
	m := canvas.ObjectMap{
		1: node(1, 0, 0),
		2: node(2, 100, 0),
		3: node(3, 50, -20),
		4: node(4, 150, 80),
		5: line(5, 1, 2),
		6: line(6, 3, 4),
	}
	constraints := []canvas.Constraint{
		{Kind: canvas.Perpendicular, A: 5, B: 6},
	}

	Solve(m, constraints)

	dot := direction(m, 5).Dot(direction(m, 6))
	assert.Less(t, math.Abs(dot), 1e-4)
}

func TestHorizontal(t *testing.T) {
	m := canvas.ObjectMap{
		1: node(1, 0, 0),
		2: node(2, 100, 5),
		3: line(3, 1, 2),
	}

	Solve(m, []canvas.Constraint{{Kind: canvas.Horizontal, A: 3}})

	assert.InDelta(t, m[1].Point.Y, m[2].Point.Y, 1e-6)
	// The equation has no x terms; the minimum-norm step leaves x alone.
	assert.InDelta(t, 0.0, m[1].Point.X, 1e-9)
	assert.InDelta(t, 100.0, m[2].Point.X, 1e-9)
}

func TestVertical(t *testing.T) {
	m := canvas.ObjectMap{
		1: node(1, 2, 0),
		2: node(2, 8, 100),
		3: line(3, 1, 2),
	}

	Solve(m, []canvas.Constraint{{Kind: canvas.Vertical, A: 3}})

	assert.InDelta(t, m[1].Point.X, m[2].Point.X, 1e-6)
	assert.InDelta(t, 0.0, m[1].Point.Y, 1e-9)
	assert.InDelta(t, 100.0, m[2].Point.Y, 1e-9)
}

func TestDistanceWithFixedEndpoint(t *testing.T) {
	m := canvas.ObjectMap{
		1: fixedNode(1, 0, 0),
		2: node(2, 3, 4),
		3: line(3, 1, 2),
	}

	Solve(m, []canvas.Constraint{{Kind: canvas.Distance, A: 3, D: 10}})

	// The fixed endpoint must not move; the free one lands on the ray
	// through its start position at distance 10.
	assert.Equal(t, geom.V(0, 0), m[1].Point)
	assert.InDelta(t, 6.0, m[2].Point.X, 1e-4)
	assert.InDelta(t, 8.0, m[2].Point.Y, 1e-4)
}

func TestDistanceBetweenPoints(t *testing.T) {
	m := canvas.ObjectMap{
		1: node(1, 0, 0),
		2: node(2, 2, 0),
	}

	Solve(m, []canvas.Constraint{{Kind: canvas.Distance, A: 1, B: 2, D: 6}})

	d := m[2].Point.Sub(m[1].Point)
	assert.InDelta(t, 36.0, d.LenSq(), 1e-6)
}

func TestCoincidentPointOnLine(t *testing.T) {
	m := canvas.ObjectMap{
		1: fixedNode(1, 0, 0),
		2: fixedNode(2, 10, 0),
		3: line(3, 1, 2),
		4: node(4, 5, 3),
	}

	Solve(m, []canvas.Constraint{{Kind: canvas.Coincident, A: 4, B: 3}})

	assert.InDelta(t, 0.0, m[4].Point.Y, 1e-4)
	// The in-line direction is under-determined; x stays put.
	assert.InDelta(t, 5.0, m[4].Point.X, 1e-4)
}

func TestCoincidentPoints(t *testing.T) {
	m := canvas.ObjectMap{
		1: node(1, 0, 0),
		2: node(2, 4, 6),
	}

	Solve(m, []canvas.Constraint{{Kind: canvas.Coincident, A: 1, B: 2}})

	assert.InDelta(t, m[1].Point.X, m[2].Point.X, 1e-6)
	assert.InDelta(t, m[1].Point.Y, m[2].Point.Y, 1e-6)
}

func TestParallelIsStub(t *testing.T) {
	// TODO: Parallel emits no equation yet; geometry must pass through
	// untouched until it gains one.
	m := canvas.ObjectMap{
		1: node(1, 0, 0),
		2: node(2, 100, 0),
		3: node(3, 0, 50),
		4: node(4, 80, 120),
		5: line(5, 1, 2),
		6: line(6, 3, 4),
	}
	before := m.Clone()

	Solve(m, []canvas.Constraint{{Kind: canvas.Parallel, A: 5, B: 6}})

	assert.Equal(t, before, m)
}

func TestFixedNodesNeverMove(t *testing.T) {
	m := canvas.ObjectMap{
		1: fixedNode(1, 1, 2),
		2: node(2, 30, 40),
		3: line(3, 1, 2),
	}

	Solve(m, []canvas.Constraint{
		{Kind: canvas.Horizontal, A: 3},
		{Kind: canvas.Distance, A: 3, D: 5},
	})

	assert.Equal(t, geom.V(1, 2), m[1].Point)
}

func TestResolveIsIdempotent(t *testing.T) {
	m := canvas.ObjectMap{
		1: node(1, 0, 0),
		2: node(2, 100, 0),
		3: node(3, 50, -20),
		4: node(4, 150, 80),
		5: line(5, 1, 2),
		6: line(6, 3, 4),
	}
	constraints := []canvas.Constraint{
		{Kind: canvas.Perpendicular, A: 5, B: 6},
		{Kind: canvas.Horizontal, A: 5},
	}

	Solve(m, constraints)
	solved := m.Clone()
	Solve(m, constraints)

	for id := range solved {
		require.InDelta(t, solved[id].Point.X, m[id].Point.X, 1e-9, "object %d x", id)
		require.InDelta(t, solved[id].Point.Y, m[id].Point.Y, 1e-9, "object %d y", id)
	}
}

func TestMissingReferentEmitsNothing(t *testing.T) {
	m := canvas.ObjectMap{
		1: node(1, 3, 4),
	}
	before := m.Clone()

	// Constraint over a missing line: no equations, no movement.
	Solve(m, []canvas.Constraint{{Kind: canvas.Horizontal, A: 99}})

	assert.Equal(t, before, m)
}

func TestResidualsSmallAfterSolve(t *testing.T) {
	m := canvas.ObjectMap{
		1: fixedNode(1, 0, 0),
		2: node(2, 40, 3),
		3: node(3, 42, 60),
		4: line(4, 1, 2),
		5: line(5, 2, 3),
	}
	constraints := []canvas.Constraint{
		{Kind: canvas.Horizontal, A: 4},
		{Kind: canvas.Perpendicular, A: 4, B: 5},
		{Kind: canvas.Distance, A: 4, D: 50},
	}

	Solve(m, constraints)

	h := m[1].Point.Y - m[2].Point.Y
	assert.Less(t, math.Abs(h), 1e-4)

	dot := direction(m, 4).Dot(direction(m, 5))
	assert.Less(t, math.Abs(dot), 1e-4)

	dist := m[2].Point.Sub(m[1].Point).LenSq() - 50*50
	assert.Less(t, math.Abs(dist), 1e-4)
}
