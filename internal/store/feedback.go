package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Feedback records whether a search result was useful for a query. It feeds
// later tuning of the retrieval weights.
type Feedback struct {
	TakeID  uuid.UUID
	Query   string
	Helpful bool
	Note    string
}

// InsertSearchFeedback records one piece of relevance feedback.
func (s *Store) InsertSearchFeedback(ctx context.Context, fb Feedback) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO search_feedback (id, take_id, query, helpful, note, created_at)
		VALUES ($1, $2, $3, $4, $5, now())`,
		id, fb.TakeID, fb.Query, fb.Helpful, fb.Note,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert search feedback: %w", err)
	}
	return id, nil
}

// FeedbackStats summarises recorded feedback for a query prefix.
type FeedbackStats struct {
	Total   int
	Helpful int
}

// SearchFeedbackStats counts feedback rows, optionally filtered by query substring.
func (s *Store) SearchFeedbackStats(ctx context.Context, queryContains string) (FeedbackStats, error) {
	var stats FeedbackStats
	err := s.pool.QueryRow(ctx, `
		SELECT count(*), count(*) FILTER (WHERE helpful)
		FROM search_feedback
		WHERE $1 = '' OR query ILIKE '%' || $1 || '%'`,
		queryContains,
	).Scan(&stats.Total, &stats.Helpful)
	if err != nil {
		return FeedbackStats{}, fmt.Errorf("query feedback stats: %w", err)
	}
	return stats, nil
}
