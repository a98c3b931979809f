package canvas

type DataActionKind string

const (
	// ActionAddObject merges a map of committed objects into the sketch.
	ActionAddObject DataActionKind = "object.add"
	// ActionAddConstraint appends a constraint and re-solves the sketch.
	ActionAddConstraint DataActionKind = "constraint.add"
)

// DataAction is a durable mutation of the data state. Data actions are the
// unit of persistence: the action history serialises them and a load replays
// them in order.
type DataAction struct {
	Kind       DataActionKind `json:"kind"`
	Objects    ObjectMap      `json:"objects,omitempty"`
	Constraint *Constraint    `json:"constraint,omitempty"`
}
