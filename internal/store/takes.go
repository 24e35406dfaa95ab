package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Take is one recorded media unit. Metadata accumulates analysis stage
// outputs; Reasoning holds the human-readable notes shown alongside scores.
type Take struct {
	ID              uuid.UUID
	FileName        string
	FilePath        string
	Duration        float64
	Metadata        map[string]any
	Reasoning       map[string]any
	ConfidenceScore float64
	CreatedAt       time.Time
}

// GetTake loads one take by id.
func (s *Store) GetTake(ctx context.Context, id uuid.UUID) (*Take, error) {
	var (
		t            Take
		metadataRaw  []byte
		reasoningRaw []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, file_name, file_path, COALESCE(duration, 0),
		       COALESCE(ai_metadata, '{}'::jsonb), COALESCE(ai_reasoning, '{}'::jsonb),
		       COALESCE(confidence_score, 0), created_at
		FROM takes WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.FileName, &t.FilePath, &t.Duration, &metadataRaw, &reasoningRaw, &t.ConfidenceScore, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("take %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query take: %w", err)
	}

	if err := json.Unmarshal(metadataRaw, &t.Metadata); err != nil {
		return nil, fmt.Errorf("parse take metadata: %w", err)
	}
	if err := json.Unmarshal(reasoningRaw, &t.Reasoning); err != nil {
		return nil, fmt.Errorf("parse take reasoning: %w", err)
	}
	return &t, nil
}

// MergeMetadata merges patch into the take's metadata. Keys outside the
// patch are preserved, so each stage commit is a partial update.
func (s *Store) MergeMetadata(ctx context.Context, id uuid.UUID, patch map[string]any) error {
	data, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("marshal metadata patch: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE takes
		SET ai_metadata = COALESCE(ai_metadata, '{}'::jsonb) || $2::jsonb
		WHERE id = $1`,
		id, data,
	)
	if err != nil {
		return fmt.Errorf("merge metadata: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("take %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetReasoning replaces the take's reasoning map.
func (s *Store) SetReasoning(ctx context.Context, id uuid.UUID, reasoning map[string]any) error {
	data, err := json.Marshal(reasoning)
	if err != nil {
		return fmt.Errorf("marshal reasoning: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `UPDATE takes SET ai_reasoning = $2::jsonb WHERE id = $1`, id, data)
	if err != nil {
		return fmt.Errorf("set reasoning: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("take %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetConfidence stores the take's overall confidence score.
func (s *Store) SetConfidence(ctx context.Context, id uuid.UUID, score float64) error {
	tag, err := s.pool.Exec(ctx, `UPDATE takes SET confidence_score = $2 WHERE id = $1`, id, score)
	if err != nil {
		return fmt.Errorf("set confidence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("take %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetDuration stores the take's measured duration in seconds.
func (s *Store) SetDuration(ctx context.Context, id uuid.UUID, seconds float64) error {
	tag, err := s.pool.Exec(ctx, `UPDATE takes SET duration = $2 WHERE id = $1`, id, seconds)
	if err != nil {
		return fmt.Errorf("set duration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("take %s: %w", id, ErrNotFound)
	}
	return nil
}
