// Package document serialises a sketch for persistence. The persisted unit
// is the action-history tree; a load replays its linear spine through the
// kernel's data executor, so whatever produced the file and whatever reads
// it agree on semantics by construction.
package document

import (
	"encoding/json"
	"fmt"

	"github.com/linealab/linea/internal/engine"
	"github.com/linealab/linea/internal/history"
)

const currentVersion = 1

// Document is the JSON envelope around the action history.
type Document struct {
	Version int            `json:"version"`
	History *history.Entry `json:"history"`
}

// Encode serialises a drawing's action history.
func Encode(d *engine.Drawing) ([]byte, error) {
	actions := d.History()

	// Rebuild the spine as a tree so the persisted shape keeps the
	// branching capability even though appends are linear today.
	var root, cur *history.Entry
	for _, a := range actions {
		e := &history.Entry{Action: a}
		if cur == nil {
			root = e
		} else {
			cur.Children = append(cur.Children, e)
		}
		cur = e
	}

	return json.Marshal(Document{Version: currentVersion, History: root})
}

// Load parses data and replays it into d. The tool state is reset first; a
// malformed document rejects the whole load and leaves the drawing freshly
// reset.
func Load(data []byte, d *engine.Drawing) error {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		d.Reset()
		return fmt.Errorf("parse document: %w", err)
	}
	if doc.Version != currentVersion {
		d.Reset()
		return fmt.Errorf("unsupported document version %d", doc.Version)
	}

	if err := d.Replay(history.LinearEntries(doc.History)); err != nil {
		return fmt.Errorf("replay history: %w", err)
	}
	return nil
}
