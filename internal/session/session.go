// Package session is the wire form of the kernel's event ingress: the input
// layer connects one editor per sketch over a websocket, streams events in,
// and receives the post-event state whenever something changed. There is no
// multi-editor merging; a sketch with a live editor refuses further attaches.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/linealab/linea/internal/document"
	"github.com/linealab/linea/internal/engine"
	"github.com/linealab/linea/internal/typeid"
)

// ErrBusy is returned when a sketch already has a live editor.
var ErrBusy = errors.New("sketch already has an editor")

// DocLoader fetches the latest serialised document for a sketch.
type DocLoader func(sketchID string) ([]byte, error)

// DocSaver persists a serialised document for a sketch.
type DocSaver func(sketchID string, doc []byte) error

// Hub tracks the live editing sessions.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*Session // sketchID -> session
	load     DocLoader
	save     DocSaver
}

func NewHub(load DocLoader, save DocSaver) *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
		load:     load,
		save:     save,
	}
}

// Session owns the kernel instance for one attached editor. Events are
// handled on the client's read goroutine; the mutex covers detach racing a
// final event.
type Session struct {
	ID       string
	SketchID string

	mu      sync.Mutex
	hub     *Hub
	drawing *engine.Drawing
	client  *Client
}

// Attach creates a session for the sketch, replaying its latest snapshot
// into a fresh drawing. A sketch with a live editor refuses the attach.
func (h *Hub) Attach(sketchID string, client *Client) (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[sketchID]; ok {
		return nil, ErrBusy
	}

	d := engine.New()
	if h.load != nil {
		doc, err := h.load(sketchID)
		if err != nil {
			return nil, fmt.Errorf("load sketch %s: %w", sketchID, err)
		}
		if err := document.Load(doc, d); err != nil {
			return nil, fmt.Errorf("replay sketch %s: %w", sketchID, err)
		}
	}

	s := &Session{
		ID:       typeid.NewSessionID(),
		SketchID: sketchID,
		hub:      h,
		drawing:  d,
		client:   client,
	}
	h.sessions[sketchID] = s
	client.session = s

	slog.Info("editor attached", "sketch", sketchID, "session", s.ID)
	s.sendState(TypeWelcome)
	return s, nil
}

// Detach saves a snapshot and frees the sketch for the next editor.
func (s *Session) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hub == nil {
		return
	}

	if s.hub.save != nil {
		doc, err := document.Encode(s.drawing)
		if err != nil {
			slog.Error("encode document on detach", "sketch", s.SketchID, "error", err)
		} else if err := s.hub.save(s.SketchID, doc); err != nil {
			slog.Error("save snapshot on detach", "sketch", s.SketchID, "error", err)
		}
	}

	s.hub.mu.Lock()
	delete(s.hub.sessions, s.SketchID)
	s.hub.mu.Unlock()
	s.hub = nil

	slog.Info("editor detached", "sketch", s.SketchID, "session", s.ID)
}

// HandleEvent runs one event through the kernel and pushes the new state to
// the editor when anything changed.
func (s *Session) HandleEvent(ev engine.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hub == nil {
		return
	}

	if s.drawing.SendEvent(ev) {
		s.sendState(TypeState)
	}
}

func (s *Session) sendState(msgType string) {
	payload, err := json.Marshal(StatePayload{
		Tool: s.drawing.ToolState(),
		Data: s.drawing.DataState(),
	})
	if err != nil {
		slog.Error("marshal state", "error", err)
		return
	}
	s.client.Send(&Message{
		Type:      msgType,
		SketchID:  s.SketchID,
		SessionID: s.ID,
		Payload:   payload,
	})
}
