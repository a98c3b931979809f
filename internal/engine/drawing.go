// Package engine is the sketching kernel: an event-driven pair of state
// machines over one durable data record and one transient tool record. Events
// enter through the Drawing façade, a pure translator turns them into tool
// and data actions, two executors apply them, and listeners are pinged when
// anything changed.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/linealab/linea/internal/canvas"
)

// Drawing owns the two state records and the change listeners. It is not
// safe for concurrent use; the kernel's scheduling model is single-threaded
// and synchronous.
type Drawing struct {
	tool ToolState
	data canvas.DataState
	gen  *canvas.IDGen

	listeners    []listener
	nextListener int
	sending      bool
}

type listener struct {
	id int
	fn func()
}

// New returns a drawing backed by the process-wide ID generator.
func New() *Drawing {
	return NewWithIDGen(nil)
}

// NewWithIDGen returns a drawing using gen for object IDs. Tests inject a
// seeded generator for reproducible IDs; a nil gen falls back to the
// process-wide one.
func NewWithIDGen(gen *canvas.IDGen) *Drawing {
	if gen == nil {
		gen = canvas.DefaultIDGen()
	}
	return &Drawing{
		tool: NewToolState(),
		data: canvas.NewDataState(),
		gen:  gen,
	}
}

// SendEvent runs one event to completion: translate, execute tool actions,
// execute data actions (solver included), record history, notify listeners.
// It reports whether any state changed. Re-entrant sends from a listener are
// rejected.
func (d *Drawing) SendEvent(ev Event) bool {
	if d.sending {
		slog.Warn("re-entrant event rejected", "kind", ev.Kind)
		return false
	}
	d.sending = true
	defer func() { d.sending = false }()

	// Host-injected objects arrive without IDs; allocate before translating
	// so the persisted action carries the final ID.
	if ev.Kind == EvAddObject && ev.Object != nil && ev.Object.ID == 0 {
		obj := *ev.Object
		obj.ID = d.gen.Next()
		ev.Object = &obj
	}

	toolActions, dataActions := GenerateActions(&d.tool, &d.data, ev)

	changed := false
	var historyActions []ToolAction
	for _, a := range toolActions {
		if a.Kind == ActAddHistory {
			historyActions = append(historyActions, a)
			continue
		}
		if applyToolAction(&d.tool, d.gen, a) {
			changed = true
		}
	}
	applied := make([]bool, len(dataActions))
	for i, a := range dataActions {
		applied[i] = applyDataAction(&d.data, a)
		if applied[i] {
			changed = true
		}
	}
	// History actions pair 1:1 with data actions in emission order; a data
	// action the executor skipped leaves no history entry.
	for i, a := range historyActions {
		if i < len(applied) && !applied[i] {
			continue
		}
		if applyToolAction(&d.tool, d.gen, a) {
			changed = true
		}
	}

	if changed {
		d.notify()
	}
	return changed
}

// ToolState returns a copy of the transient state. The selection and scratch
// maps are deep-copied; the History field still points at the live tree and
// must be treated as read-only — use History() for a safe linear view.
func (d *Drawing) ToolState() ToolState {
	return d.tool.Clone()
}

// DataState returns a deep copy of the durable state.
func (d *Drawing) DataState() canvas.DataState {
	return d.data.Clone()
}

// History returns the linear action history, oldest first.
func (d *Drawing) History() []canvas.DataAction {
	return d.tool.History.Linear()
}

// AddListener registers a change listener and returns its handle.
func (d *Drawing) AddListener(fn func()) int {
	id := d.nextListener
	d.nextListener++
	d.listeners = append(d.listeners, listener{id: id, fn: fn})
	return id
}

// RemoveListener drops the listener with the given handle. Removal during a
// notification takes effect on the next event; the in-flight iteration still
// delivers to every listener registered when it started.
func (d *Drawing) RemoveListener(id int) {
	for i, l := range d.listeners {
		if l.id == id {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			return
		}
	}
}

func (d *Drawing) notify() {
	snapshot := append([]listener(nil), d.listeners...)
	for _, l := range snapshot {
		l.fn()
	}
}

// Reset discards both state records, leaving a fresh drawing. The load path
// calls this before and after a failed replay.
func (d *Drawing) Reset() {
	d.tool = NewToolState()
	d.data = canvas.NewDataState()
}

// Replay applies persisted actions strictly: any schema violation aborts and
// leaves the drawing freshly reset. On success the history holds exactly the
// replayed actions and the ID generator has advanced past every replayed ID.
func (d *Drawing) Replay(actions []canvas.DataAction) error {
	d.Reset()
	for i, a := range actions {
		if err := checkDataAction(&d.data, a); err != nil {
			d.Reset()
			return fmt.Errorf("action %d: %w", i, err)
		}
		applyDataAction(&d.data, a)
		d.tool.History.Append(a)
		for id := range a.Objects {
			d.gen.Bump(id)
		}
	}
	d.notify()
	return nil
}
