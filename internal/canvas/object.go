package canvas

import (
	"fmt"

	"github.com/linealab/linea/internal/geom"
)

// ObjectID identifies a canvas object. IDs are positive and strictly
// increasing within a process lifetime; they are never reused.
type ObjectID int64

type ObjectType string

const (
	// TypeNode is a free point whose coordinates the solver may rewrite.
	TypeNode ObjectType = "node"
	// TypeFixedNode is a point the solver treats as a constant.
	TypeFixedNode ObjectType = "fixedNode"
	// TypeLine is a straight segment between two point objects.
	TypeLine ObjectType = "line"
	// TypePath is an ordered polyline of points joined by lines.
	TypePath ObjectType = "path"
	// TypeText is a mathematical expression anchored to a point.
	TypeText ObjectType = "text"
)

// Object is a canvas entity. Type discriminates which fields are live;
// the rest stay at their zero values.
type Object struct {
	ID    ObjectID   `json:"id"`
	Type  ObjectType `json:"type"`
	Guide bool       `json:"guide,omitempty"`

	// Node, FixedNode
	Point geom.Vec `json:"point,omitzero"`

	// Line endpoints; must reference Node or FixedNode objects.
	Point1 ObjectID `json:"point1,omitempty"`
	Point2 ObjectID `json:"point2,omitempty"`

	// Path aggregate: Lines[i] joins Points[i] to Points[i+1].
	Points []ObjectID `json:"points,omitempty"`
	Lines  []ObjectID `json:"lines,omitempty"`

	// Text
	Anchor ObjectID `json:"anchor,omitempty"`
	Body   string   `json:"body,omitempty"`
}

// IsPoint reports whether the object is point-like (Node or FixedNode).
func (o Object) IsPoint() bool {
	return o.Type == TypeNode || o.Type == TypeFixedNode
}

// children returns the IDs an object directly references.
func (o Object) children() []ObjectID {
	switch o.Type {
	case TypeLine:
		return []ObjectID{o.Point1, o.Point2}
	case TypePath:
		ids := make([]ObjectID, 0, len(o.Points)+len(o.Lines))
		ids = append(ids, o.Points...)
		ids = append(ids, o.Lines...)
		return ids
	case TypeText:
		return []ObjectID{o.Anchor}
	default:
		return nil
	}
}

// ObjectMap holds the live objects of a sketch keyed by ID. The map
// exclusively owns its objects; IDs inside objects are weak references
// resolved by lookup.
type ObjectMap map[ObjectID]Object

// Clone returns a deep copy of the map.
func (m ObjectMap) Clone() ObjectMap {
	out := make(ObjectMap, len(m))
	for id, obj := range m {
		obj.Points = append([]ObjectID(nil), obj.Points...)
		obj.Lines = append([]ObjectID(nil), obj.Lines...)
		out[id] = obj
	}
	return out
}

// SortedIDs returns the map's keys in ascending order. Canvas IDs are
// allocated monotonically, so this is creation order; every scan that needs
// a stable iteration order goes through it.
func (m ObjectMap) SortedIDs() []ObjectID {
	ids := make([]ObjectID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	return ids
}

// Validate checks the referential invariants: every referenced ID resolves,
// line endpoints are point-like, and path lines join consecutive path points.
func (m ObjectMap) Validate() error {
	for id, obj := range m {
		if obj.ID != id {
			return fmt.Errorf("object %d stored under key %d", obj.ID, id)
		}
		for _, ref := range obj.children() {
			if _, ok := m[ref]; !ok {
				return fmt.Errorf("object %d references missing object %d", id, ref)
			}
		}
		switch obj.Type {
		case TypeLine:
			for _, ref := range []ObjectID{obj.Point1, obj.Point2} {
				if !m[ref].IsPoint() {
					return fmt.Errorf("line %d endpoint %d is not a point", id, ref)
				}
			}
		case TypePath:
			if len(obj.Points) == 0 {
				if len(obj.Lines) != 0 {
					return fmt.Errorf("path %d has lines but no points", id)
				}
				continue
			}
			if len(obj.Lines) != len(obj.Points)-1 {
				return fmt.Errorf("path %d has %d points but %d lines", id, len(obj.Points), len(obj.Lines))
			}
			for i, lineID := range obj.Lines {
				line := m[lineID]
				if line.Type != TypeLine {
					return fmt.Errorf("path %d entry %d is not a line", id, lineID)
				}
				if line.Point1 != obj.Points[i] || line.Point2 != obj.Points[i+1] {
					return fmt.Errorf("path %d line %d does not join points %d and %d",
						id, lineID, obj.Points[i], obj.Points[i+1])
				}
			}
		case TypeText:
			if !m[obj.Anchor].IsPoint() {
				return fmt.Errorf("text %d anchor %d is not a point", id, obj.Anchor)
			}
		}
	}
	return nil
}

// DataState is the durable half of a drawing: the committed objects and the
// constraints attached to them. It is mutated only by data actions.
type DataState struct {
	Objects     ObjectMap    `json:"objects"`
	Constraints []Constraint `json:"constraints"`
}

// NewDataState returns an empty data state.
func NewDataState() DataState {
	return DataState{Objects: make(ObjectMap)}
}

// Clone returns a deep copy of the state.
func (s DataState) Clone() DataState {
	return DataState{
		Objects:     s.Objects.Clone(),
		Constraints: append([]Constraint(nil), s.Constraints...),
	}
}
