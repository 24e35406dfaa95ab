// Package search executes intent queries against the moment index and
// attaches a human-readable justification to every result.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/Prajwal-Personal/cineai/internal/expansion"
	"github.com/Prajwal-Personal/cineai/internal/index"
	"github.com/Prajwal-Personal/cineai/internal/intent"
)

// Filters restricts a search to one take and/or one emotion label.
// Zero values mean no restriction.
type Filters struct {
	TakeID  uuid.UUID `json:"take_id,omitempty"`
	Emotion string    `json:"emotion,omitempty"`
}

// Reasoning explains why a result matched the query.
type Reasoning struct {
	MatchedBecause  []string      `json:"matched_because"`
	EmotionDetected string        `json:"emotion_detected"`
	TimingPattern   string        `json:"timing_pattern"`
	ConfidenceScore float64       `json:"confidence_score"`
	QueryIntent     intent.Intent `json:"query_intent"`
	QueryExpansion  []string      `json:"query_expansion,omitempty"`
}

// Result is one ranked search hit. ResultID is the moment's stable position
// in the index and can be passed back to Explain.
type Result struct {
	ResultID          int       `json:"result_id"`
	TakeID            uuid.UUID `json:"take_id"`
	MomentID          uuid.UUID `json:"moment_id"`
	StartTime         float64   `json:"start_time"`
	EndTime           float64   `json:"end_time"`
	Confidence        float64   `json:"confidence"`
	TranscriptSnippet string    `json:"transcript_snippet"`
	EmotionLabel      string    `json:"emotion_label"`
	FileName          string    `json:"file_name"`
	FilePath          string    `json:"file_path"`
	Reasoning         Reasoning `json:"reasoning"`
}

type Searcher struct {
	index    *index.Index
	embedder *intent.Generator
	logger   *slog.Logger
}

func New(ix *index.Index, embedder *intent.Generator, logger *slog.Logger) *Searcher {
	return &Searcher{index: ix, embedder: embedder, logger: logger}
}

const defaultTopK = 10

// SearchByIntent retrieves the moments best matching an editorial intent
// query. With a loaded embedding backend it runs vector search; without one
// the deterministic pseudo-embeddings would make similarity meaningless, so
// it switches to keyword scoring over the moment metadata instead. An empty
// corpus yields an empty list, never an error.
func (s *Searcher) SearchByIntent(ctx context.Context, query string, topK int, filters Filters) []Result {
	if topK <= 0 {
		topK = defaultTopK
	}
	if s.index.Count() == 0 {
		return []Result{}
	}

	exp := expansion.Expand(query)
	parsed := intent.ParseIntent(query)

	if s.embedder.State() != intent.StateLoaded {
		s.logger.Info("embedding backend unavailable, using keyword search", "query", query)
		return s.keywordSearch(exp, parsed, topK, filters)
	}

	vec := s.embedder.EmbedQuery(ctx, query)

	// Over-fetch so post-filtering doesn't starve topK.
	k := topK * 3
	if n := s.index.Count(); k > n {
		k = n
	}
	hits, err := s.index.Search(vec, k)
	if err != nil {
		s.logger.Warn("vector search failed, using keyword search", "error", err)
		return s.keywordSearch(exp, parsed, topK, filters)
	}

	results := make([]Result, 0, topK)
	for _, hit := range hits {
		if !matchesFilters(hit.Moment, filters) {
			continue
		}
		conf := rescale(hit.Score)
		results = append(results, buildResult(hit.Pos, hit.Moment, conf, parsed, exp.Reasoning))
		if len(results) >= topK {
			break
		}
	}
	return results
}

func matchesFilters(m index.Moment, f Filters) bool {
	if f.TakeID != uuid.Nil && m.TakeID != f.TakeID {
		return false
	}
	if f.Emotion != "" && m.EmotionLabel != f.Emotion {
		return false
	}
	return true
}

// rescale maps a raw inner-product score over unit vectors (cosine, [-1, 1])
// into [0, 1] so callers never see an unnormalized index score.
func rescale(score float64) float64 {
	c := (score + 1) / 2
	return math.Max(0, math.Min(1, c))
}

func buildResult(pos int, m index.Moment, confidence float64, parsed intent.Intent, expansionLines []string) Result {
	return Result{
		ResultID:          pos,
		TakeID:            m.TakeID,
		MomentID:          m.MomentID,
		StartTime:         m.StartTime,
		EndTime:           m.EndTime,
		Confidence:        confidence,
		TranscriptSnippet: m.TranscriptSnippet,
		EmotionLabel:      m.EmotionLabel,
		FileName:          m.FileName,
		FilePath:          m.FilePath,
		Reasoning:         buildReasoning(parsed, m, confidence, expansionLines),
	}
}

const pauseNoteThreshold = 0.5

// buildReasoning assembles the ordered justification list for one result:
// emotion match or mismatch, timing pattern, notable pauses, then either the
// dialogue snippet or a silent-moment note.
func buildReasoning(parsed intent.Intent, m index.Moment, confidence float64, expansionLines []string) Reasoning {
	var matched []string

	emotion := m.EmotionLabel
	if emotion == "" {
		emotion = "neutral"
	}
	if containsString(parsed.Emotions, emotion) {
		matched = append(matched, "Emotion matches: "+emotion)
	} else {
		matched = append(matched, "Detected emotion: "+emotion)
	}

	if m.TimingPattern != "" {
		matched = append(matched, "Timing pattern: "+strings.ReplaceAll(m.TimingPattern, "_", " "))
	}
	if m.PauseBefore > pauseNoteThreshold {
		matched = append(matched, fmt.Sprintf("%.1fs pause before speaking", m.PauseBefore))
	}
	if m.PauseAfter > pauseNoteThreshold {
		matched = append(matched, fmt.Sprintf("%.1fs pause after speaking", m.PauseAfter))
	}

	if m.TranscriptSnippet != "" {
		matched = append(matched, "Dialogue: \""+truncate(m.TranscriptSnippet, 50)+"\"")
	} else {
		matched = append(matched, "Silent moment / non-verbal reaction")
	}

	pattern := m.TimingPattern
	if pattern == "" {
		pattern = "normal"
	}
	return Reasoning{
		MatchedBecause:  matched,
		EmotionDetected: emotion,
		TimingPattern:   pattern,
		ConfidenceScore: math.Round(confidence*1000) / 10,
		QueryIntent:     parsed,
		QueryExpansion:  expansionLines,
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
