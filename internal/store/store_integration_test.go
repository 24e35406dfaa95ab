//go:build integration

package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func insertTestTake(t *testing.T, s *Store) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO takes (id, file_name, file_path, created_at)
		VALUES ($1, $2, $3, now())`,
		id, "integration_take.mp4", "/media/integration_take.mp4",
	)
	if err != nil {
		t.Fatalf("insert test take failed: %v", err)
	}
	t.Cleanup(func() {
		s.pool.Exec(ctx, "DELETE FROM takes WHERE id = $1", id)
	})
	return id
}

func TestIntegration_TakeStageCommits(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	id := insertTestTake(t, s)

	// First stage commit
	err := s.MergeMetadata(ctx, id, map[string]any{"cv": map[string]any{"technical_score": 85.0}})
	if err != nil {
		t.Fatalf("MergeMetadata (cv) failed: %v", err)
	}

	// Second stage commit must not overwrite the first
	err = s.MergeMetadata(ctx, id, map[string]any{"audio": map[string]any{"quality_score": 78.0}})
	if err != nil {
		t.Fatalf("MergeMetadata (audio) failed: %v", err)
	}

	if err := s.SetDuration(ctx, id, 23.5); err != nil {
		t.Fatalf("SetDuration failed: %v", err)
	}
	if err := s.SetConfidence(ctx, id, 81.2); err != nil {
		t.Fatalf("SetConfidence failed: %v", err)
	}
	if err := s.SetReasoning(ctx, id, map[string]any{"summary": "Director's rating: 81.2%."}); err != nil {
		t.Fatalf("SetReasoning failed: %v", err)
	}

	take, err := s.GetTake(ctx, id)
	if err != nil {
		t.Fatalf("GetTake failed: %v", err)
	}
	if _, ok := take.Metadata["cv"]; !ok {
		t.Error("cv metadata lost after later merge")
	}
	if _, ok := take.Metadata["audio"]; !ok {
		t.Error("audio metadata missing")
	}
	if take.Duration != 23.5 {
		t.Errorf("expected duration 23.5, got %f", take.Duration)
	}
	if take.ConfidenceScore != 81.2 {
		t.Errorf("expected confidence 81.2, got %f", take.ConfidenceScore)
	}
	if take.Reasoning["summary"] == "" {
		t.Error("reasoning summary missing")
	}
}

func TestIntegration_TakeNotFound(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.GetTake(ctx, uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	err = s.MergeMetadata(ctx, uuid.New(), map[string]any{"cv": map[string]any{}})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on merge, got %v", err)
	}
}

func TestIntegration_SearchFeedback(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	takeID := insertTestTake(t, s)

	id, err := s.InsertSearchFeedback(ctx, Feedback{
		TakeID:  takeID,
		Query:   "integration-hesitant-query",
		Helpful: true,
		Note:    "found the right beat",
	})
	if err != nil {
		t.Fatalf("InsertSearchFeedback failed: %v", err)
	}
	if id == uuid.Nil {
		t.Fatal("expected non-nil feedback ID")
	}
	t.Cleanup(func() {
		s.pool.Exec(ctx, "DELETE FROM search_feedback WHERE id = $1", id)
	})

	stats, err := s.SearchFeedbackStats(ctx, "integration-hesitant")
	if err != nil {
		t.Fatalf("SearchFeedbackStats failed: %v", err)
	}
	if stats.Total < 1 {
		t.Errorf("expected at least 1 feedback row, got %d", stats.Total)
	}
	if stats.Helpful < 1 {
		t.Errorf("expected at least 1 helpful row, got %d", stats.Helpful)
	}
}
