package sketches

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linealab/linea/internal/document"
	"github.com/linealab/linea/internal/typeid"
)

var (
	ErrNotFound  = errors.New("sketch not found")
	ErrForbidden = errors.New("forbidden")
)

type Service struct {
	pool *pgxpool.Pool
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

type Sketch struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Create inserts a sketch and seeds its first snapshot from the sample
// drawing.
func (s *Service) Create(ctx context.Context, name, ownerID string) (*Sketch, error) {
	sketchID := typeid.NewSketchID()

	var created, updated time.Time
	err := s.pool.QueryRow(ctx,
		`INSERT INTO sketches (id, name, owner_id) VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at`,
		sketchID, name, ownerID).Scan(&created, &updated)
	if err != nil {
		return nil, fmt.Errorf("create sketch: %w", err)
	}

	docJSON, err := document.Encode(document.Sample())
	if err != nil {
		return nil, fmt.Errorf("encode sample document: %w", err)
	}
	if err := s.SaveSnapshot(ctx, sketchID, docJSON); err != nil {
		return nil, fmt.Errorf("seed snapshot: %w", err)
	}

	return &Sketch{
		ID:        sketchID,
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: created.UTC().Format(time.RFC3339),
		UpdatedAt: updated.UTC().Format(time.RFC3339),
	}, nil
}

func (s *Service) Get(ctx context.Context, sketchID, userID string) (*Sketch, error) {
	sk, err := s.get(ctx, sketchID)
	if err != nil {
		return nil, err
	}
	if sk.OwnerID != userID {
		return nil, ErrForbidden
	}
	return sk, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Sketch, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, owner_id, created_at, updated_at
		 FROM sketches WHERE owner_id = $1 ORDER BY updated_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list sketches: %w", err)
	}
	defer rows.Close()

	var out []Sketch
	for rows.Next() {
		var sk Sketch
		var created, updated time.Time
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.OwnerID, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan sketch: %w", err)
		}
		sk.CreatedAt = created.UTC().Format(time.RFC3339)
		sk.UpdatedAt = updated.UTC().Format(time.RFC3339)
		out = append(out, sk)
	}
	return out, rows.Err()
}

func (s *Service) Delete(ctx context.Context, sketchID, userID string) error {
	sk, err := s.get(ctx, sketchID)
	if err != nil {
		return err
	}
	if sk.OwnerID != userID {
		return ErrForbidden
	}

	_, err = s.pool.Exec(ctx, `DELETE FROM sketches WHERE id = $1`, sketchID)
	return err
}

// GetLatestSnapshot returns the most recent serialised document for a sketch.
func (s *Service) GetLatestSnapshot(ctx context.Context, sketchID string) (json.RawMessage, error) {
	var doc json.RawMessage
	err := s.pool.QueryRow(ctx,
		`SELECT document FROM sketch_snapshots
		 WHERE sketch_id = $1 ORDER BY version DESC LIMIT 1`,
		sketchID).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return doc, nil
}

// SaveSnapshot appends a new snapshot version holding the serialised
// document.
func (s *Service) SaveSnapshot(ctx context.Context, sketchID string, doc json.RawMessage) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sketch_snapshots (id, sketch_id, version, document)
		 SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3
		 FROM sketch_snapshots WHERE sketch_id = $2`,
		typeid.NewSnapshotID(), sketchID, doc)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE sketches SET updated_at = now() WHERE id = $1`, sketchID)
	return err
}

func (s *Service) get(ctx context.Context, sketchID string) (*Sketch, error) {
	var sk Sketch
	var created, updated time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, owner_id, created_at, updated_at FROM sketches WHERE id = $1`,
		sketchID).Scan(&sk.ID, &sk.Name, &sk.OwnerID, &created, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get sketch: %w", err)
	}
	sk.CreatedAt = created.UTC().Format(time.RFC3339)
	sk.UpdatedAt = updated.UTC().Format(time.RFC3339)
	return &sk, nil
}
