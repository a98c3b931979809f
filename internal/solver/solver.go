// Package solver re-satisfies the constraint system of a sketch. Every call
// rebuilds the scalar equations from the constraint list and drives their
// residuals to zero by damped Newton iteration over a rectangular Jacobian,
// solved through an SVD pseudoinverse. Only free node coordinates change;
// fixed nodes, lines and constraints are left untouched.
package solver

import (
	"math"

	"github.com/linealab/linea/internal/canvas"
)

const (
	maxIterations = 100
	stepTolerance = 1e-9
)

const (
	axisX = 0
	axisY = 1
)

// varKey identifies one scalar unknown: a coordinate axis of a free node.
type varKey struct {
	id   canvas.ObjectID
	axis int
}

// coord locates one scalar coordinate for the equation closures. Free node
// coordinates carry a column index into the variable vector; fixed node
// coordinates carry the sentinel column -1 and their constant value.
type coord struct {
	col int
	val float64
}

// system holds the assembled equations for one solve.
type system struct {
	objects canvas.ObjectMap

	cols  map[varKey]int
	order []varKey
	x     []float64

	// residuals[i] evaluates equation i; rows[i] writes its gradient into a
	// pre-zeroed row of width len(x). The two slices stay in lockstep.
	residuals []func(x []float64) float64
	rows      []func(x []float64, row []float64)
}

// Solve rebuilds the equation system for the given constraints and iterates
// it to a root, writing the solution back into the node coordinates of
// objects. Constraints over missing or mistyped objects contribute no
// equations.
func Solve(objects canvas.ObjectMap, constraints []canvas.Constraint) {
	s := &system{
		objects: objects,
		cols:    make(map[varKey]int),
	}
	for _, c := range constraints {
		s.addConstraint(c)
	}
	if len(s.residuals) == 0 || len(s.x) == 0 {
		return
	}

	s.iterate()
	s.writeBack()
}

// at reads one coordinate, from the variable vector or the fixed constant.
func at(x []float64, c coord) float64 {
	if c.col < 0 {
		return c.val
	}
	return x[c.col]
}

// add accumulates a partial derivative into a Jacobian row, dropping writes
// to fixed coordinates. Accumulation matters when one object occupies
// several operand slots of the same equation.
func add(row []float64, c coord, v float64) {
	if c.col >= 0 {
		row[c.col] += v
	}
}

// point is a point-like object resolved to its two coordinates.
type point struct {
	x, y coord
}

// addVariable resolves a point-like object, allocating variable columns for
// free nodes on first encounter. Returns false when id does not resolve to a
// point.
func (s *system) addVariable(id canvas.ObjectID) (point, bool) {
	obj, ok := s.objects[id]
	if !ok || !obj.IsPoint() {
		return point{}, false
	}
	if obj.Type == canvas.TypeFixedNode {
		return point{
			x: coord{col: -1, val: obj.Point.X},
			y: coord{col: -1, val: obj.Point.Y},
		}, true
	}

	var p point
	for axis, c := range []*coord{&p.x, &p.y} {
		key := varKey{id: id, axis: axis}
		col, ok := s.cols[key]
		if !ok {
			col = len(s.x)
			s.cols[key] = col
			s.order = append(s.order, key)
			if axis == axisX {
				s.x = append(s.x, obj.Point.X)
			} else {
				s.x = append(s.x, obj.Point.Y)
			}
		}
		c.col = col
	}
	return p, true
}

// endpoints resolves a line object to its two endpoint points.
func (s *system) endpoints(id canvas.ObjectID) (point, point, bool) {
	obj, ok := s.objects[id]
	if !ok || obj.Type != canvas.TypeLine {
		return point{}, point{}, false
	}
	p1, ok1 := s.addVariable(obj.Point1)
	p2, ok2 := s.addVariable(obj.Point2)
	return p1, p2, ok1 && ok2
}

func (s *system) emit(res func(x []float64) float64, row func(x, row []float64)) {
	s.residuals = append(s.residuals, res)
	s.rows = append(s.rows, row)
}

func (s *system) addConstraint(c canvas.Constraint) {
	switch c.Kind {
	case canvas.Perpendicular:
		s.addPerpendicular(c)
	case canvas.Parallel:
		// No equation yet. The constraint is stored and preserved but the
		// solver does not act on it.
	case canvas.Coincident:
		s.addCoincident(c)
	case canvas.Horizontal:
		s.addHorizontal(c)
	case canvas.Vertical:
		s.addVertical(c)
	case canvas.Distance:
		s.addDistance(c)
	}
}

// addPerpendicular emits (p2-p1)·(p4-p3) = 0 over the endpoints of two lines.
func (s *system) addPerpendicular(c canvas.Constraint) {
	p1, p2, ok1 := s.endpoints(c.A)
	p3, p4, ok2 := s.endpoints(c.B)
	if !ok1 || !ok2 {
		return
	}
	s.emit(
		func(x []float64) float64 {
			dx1 := at(x, p2.x) - at(x, p1.x)
			dy1 := at(x, p2.y) - at(x, p1.y)
			dx2 := at(x, p4.x) - at(x, p3.x)
			dy2 := at(x, p4.y) - at(x, p3.y)
			return dx1*dx2 + dy1*dy2
		},
		func(x, row []float64) {
			dx1 := at(x, p2.x) - at(x, p1.x)
			dy1 := at(x, p2.y) - at(x, p1.y)
			dx2 := at(x, p4.x) - at(x, p3.x)
			dy2 := at(x, p4.y) - at(x, p3.y)
			add(row, p1.x, -dx2)
			add(row, p1.y, -dy2)
			add(row, p2.x, dx2)
			add(row, p2.y, dy2)
			add(row, p3.x, -dx1)
			add(row, p3.y, -dy1)
			add(row, p4.x, dx1)
			add(row, p4.y, dy1)
		},
	)
}

// addHorizontal emits p1.y - p2.y = 0 over a line's endpoints.
func (s *system) addHorizontal(c canvas.Constraint) {
	p1, p2, ok := s.endpoints(c.A)
	if !ok {
		return
	}
	s.emit(
		func(x []float64) float64 { return at(x, p1.y) - at(x, p2.y) },
		func(x, row []float64) {
			add(row, p1.y, 1)
			add(row, p2.y, -1)
		},
	)
}

// addVertical emits p1.x - p2.x = 0 over a line's endpoints.
func (s *system) addVertical(c canvas.Constraint) {
	p1, p2, ok := s.endpoints(c.A)
	if !ok {
		return
	}
	s.emit(
		func(x []float64) float64 { return at(x, p1.x) - at(x, p2.x) },
		func(x, row []float64) {
			add(row, p1.x, 1)
			add(row, p2.x, -1)
		},
	)
}

// addDistance emits |p2-p1|² - d² = 0, either over two selected points or
// over the endpoints of a single selected line.
func (s *system) addDistance(c canvas.Constraint) {
	var p1, p2 point
	if c.B == 0 {
		var ok bool
		p1, p2, ok = s.endpoints(c.A)
		if !ok {
			return
		}
	} else {
		var ok1, ok2 bool
		p1, ok1 = s.addVariable(c.A)
		p2, ok2 = s.addVariable(c.B)
		if !ok1 || !ok2 {
			return
		}
	}
	d := c.D
	s.emit(
		func(x []float64) float64 {
			dx := at(x, p2.x) - at(x, p1.x)
			dy := at(x, p2.y) - at(x, p1.y)
			return dx*dx + dy*dy - d*d
		},
		func(x, row []float64) {
			dx := at(x, p2.x) - at(x, p1.x)
			dy := at(x, p2.y) - at(x, p1.y)
			add(row, p1.x, -2*dx)
			add(row, p1.y, -2*dy)
			add(row, p2.x, 2*dx)
			add(row, p2.y, 2*dy)
		},
	)
}

// addCoincident dispatches on the operand types: two points pin each
// coordinate pair together; a point and a line pin the point onto the
// infinite line through the segment.
func (s *system) addCoincident(c canvas.Constraint) {
	a, okA := s.objects[c.A]
	b, okB := s.objects[c.B]
	if !okA || !okB {
		return
	}
	switch {
	case a.IsPoint() && b.IsPoint():
		p1, ok1 := s.addVariable(c.A)
		p2, ok2 := s.addVariable(c.B)
		if !ok1 || !ok2 {
			return
		}
		s.emit(
			func(x []float64) float64 { return at(x, p1.x) - at(x, p2.x) },
			func(x, row []float64) {
				add(row, p1.x, 1)
				add(row, p2.x, -1)
			},
		)
		s.emit(
			func(x []float64) float64 { return at(x, p1.y) - at(x, p2.y) },
			func(x, row []float64) {
				add(row, p1.y, 1)
				add(row, p2.y, -1)
			},
		)
	case a.IsPoint() && b.Type == canvas.TypeLine:
		s.addPointOnLine(c.A, c.B)
	case a.Type == canvas.TypeLine && b.IsPoint():
		s.addPointOnLine(c.B, c.A)
	}
}

// addPointOnLine emits (p2-p1) × (P-p1) = 0: the point is collinear with the
// segment's endpoints.
func (s *system) addPointOnLine(pointID, lineID canvas.ObjectID) {
	pt, okP := s.addVariable(pointID)
	p1, p2, okL := s.endpoints(lineID)
	if !okP || !okL {
		return
	}
	s.emit(
		func(x []float64) float64 {
			dx := at(x, p2.x) - at(x, p1.x)
			dy := at(x, p2.y) - at(x, p1.y)
			ex := at(x, pt.x) - at(x, p1.x)
			ey := at(x, pt.y) - at(x, p1.y)
			return dx*ey - dy*ex
		},
		func(x, row []float64) {
			add(row, p1.x, at(x, p2.y)-at(x, pt.y))
			add(row, p1.y, at(x, pt.x)-at(x, p2.x))
			add(row, p2.x, at(x, pt.y)-at(x, p1.y))
			add(row, p2.y, at(x, p1.x)-at(x, pt.x))
			add(row, pt.x, at(x, p1.y)-at(x, p2.y))
			add(row, pt.y, at(x, p2.x)-at(x, p1.x))
		},
	)
}

// iterate runs the damped Newton loop: x ← x + pinv(J)·(-F), a fixed number
// of times with an early exit once the step stalls.
func (s *system) iterate() {
	rows := len(s.residuals)
	cols := len(s.x)
	f := make([]float64, rows)
	jac := make([]float64, rows*cols)

	for iter := 0; iter < maxIterations; iter++ {
		for i, res := range s.residuals {
			f[i] = -res(s.x)
		}
		for i := range jac {
			jac[i] = 0
		}
		for i, grad := range s.rows {
			grad(s.x, jac[i*cols:(i+1)*cols])
		}

		delta := pseudoSolve(rows, cols, jac, f)

		var maxStep float64
		for i, d := range delta {
			s.x[i] += d
			maxStep = math.Max(maxStep, math.Abs(d))
		}
		if maxStep < stepTolerance {
			break
		}
	}
}

// writeBack copies the solved variables into their owning nodes.
func (s *system) writeBack() {
	for _, key := range s.order {
		obj := s.objects[key.id]
		switch key.axis {
		case axisX:
			obj.Point.X = s.x[s.cols[key]]
		case axisY:
			obj.Point.Y = s.x[s.cols[key]]
		}
		s.objects[key.id] = obj
	}
}
