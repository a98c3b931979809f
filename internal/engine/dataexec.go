package engine

import (
	"fmt"
	"log/slog"

	"github.com/linealab/linea/internal/canvas"
	"github.com/linealab/linea/internal/solver"
)

// applyDataAction mutates the data state for one action and reports whether
// anything changed. Actions that violate the object schema are skipped
// without mutating anything.
func applyDataAction(ds *canvas.DataState, a canvas.DataAction) bool {
	err := checkDataAction(ds, a)
	if err != nil {
		slog.Debug("skipping data action", "kind", a.Kind, "error", err)
		return false
	}

	switch a.Kind {
	case canvas.ActionAddObject:
		for id, obj := range a.Objects {
			ds.Objects[id] = obj
		}
		return len(a.Objects) > 0

	case canvas.ActionAddConstraint:
		ds.Constraints = append(ds.Constraints, *a.Constraint)
		solver.Solve(ds.Objects, ds.Constraints)
		return true
	}
	return false
}

// checkDataAction validates an action against the schema before it touches
// the state: merged object maps must keep every reference resolvable and
// correctly typed, and constraint operands must exist.
func checkDataAction(ds *canvas.DataState, a canvas.DataAction) error {
	switch a.Kind {
	case canvas.ActionAddObject:
		if len(a.Objects) == 0 {
			return fmt.Errorf("empty object payload")
		}
		merged := make(canvas.ObjectMap, len(ds.Objects)+len(a.Objects))
		for id, obj := range ds.Objects {
			merged[id] = obj
		}
		for id, obj := range a.Objects {
			if id <= 0 {
				return fmt.Errorf("object ID %d is not positive", id)
			}
			merged[id] = obj
		}
		return merged.Validate()

	case canvas.ActionAddConstraint:
		c := a.Constraint
		if c == nil {
			return fmt.Errorf("missing constraint payload")
		}
		if _, ok := ds.Objects[c.A]; !ok {
			return fmt.Errorf("constraint references missing object %d", c.A)
		}
		if c.B != 0 {
			if _, ok := ds.Objects[c.B]; !ok {
				return fmt.Errorf("constraint references missing object %d", c.B)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown data action kind %q", a.Kind)
}
