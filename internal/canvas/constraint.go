package canvas

type ConstraintKind string

const (
	Perpendicular ConstraintKind = "perpendicular"
	Parallel      ConstraintKind = "parallel"
	Coincident    ConstraintKind = "coincident"
	Horizontal    ConstraintKind = "horizontal"
	Vertical      ConstraintKind = "vertical"
	Distance      ConstraintKind = "distance"
)

// Constraint is a geometric predicate over canvas objects. A and B are the
// operands in selection order; B is zero when the constraint takes a single
// operand (Horizontal, Vertical, or Distance over a line's own endpoints).
// D is the target distance for Distance constraints.
type Constraint struct {
	Kind ConstraintKind `json:"kind"`
	A    ObjectID       `json:"a"`
	B    ObjectID       `json:"b,omitempty"`
	D    float64        `json:"d,omitempty"`
}
