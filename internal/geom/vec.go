package geom

// Vec is a 2D Cartesian vector.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V is shorthand for constructing a Vec.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add returns v + other.
func (v Vec) Add(other Vec) Vec {
	return Vec{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec) Sub(other Vec) Vec {
	return Vec{v.X - other.X, v.Y - other.Y}
}

// Scale returns v scaled by s.
func (v Vec) Scale(s float64) Vec {
	return Vec{v.X * s, v.Y * s}
}

// Dot returns the dot product of v and other.
func (v Vec) Dot(other Vec) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the scalar cross product of v and other.
// Zero iff the vectors are collinear.
func (v Vec) Cross(other Vec) float64 {
	return v.X*other.Y - v.Y*other.X
}

// LenSq returns the squared length of v.
func (v Vec) LenSq() float64 {
	return v.Dot(v)
}

// degenerateSq is the squared-length threshold below which a segment is
// treated as a single point and never produces a hit.
const degenerateSq = 1e-2

// HitNode reports whether q lands strictly inside the disc of radius tol
// centred on p.
func HitNode(p Vec, tol float64, q Vec) bool {
	return q.Sub(p).LenSq() < tol*tol
}

// HitSegment reports whether q is within tol of the segment a-b, with the
// segment extended by tol on either end. All comparisons work on squared
// quantities scaled by |b-a|² so the hot path never takes a square root.
func HitSegment(a, b Vec, tol float64, q Vec) bool {
	d := b.Sub(a)
	dd := d.LenSq()
	if dd < degenerateSq {
		return false
	}

	// t/|d| is the signed distance of q's projection from a along the line.
	// Accept projections in [-tol, |d|+tol].
	t := q.Sub(a).Dot(d)
	if t < 0 {
		if t*t > tol*tol*dd {
			return false
		}
	} else if t > dd {
		over := t - dd
		if over*over > tol*tol*dd {
			return false
		}
	}

	// Perpendicular distance via the cross product: |d × (q-a)| / |d| <= tol.
	c := d.Cross(q.Sub(a))
	return c*c <= tol*tol*dd
}
