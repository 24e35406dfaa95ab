// Package index stores moment embeddings alongside their metadata and
// answers exact nearest-neighbor queries over L2-normalized vectors, so the
// inner product is the cosine similarity.
package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// ErrDimensionMismatch is returned when a vector does not match the index's
// configured dimensionality. Ingestion must stop rather than truncate or pad.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Moment is one indexed retrieval unit: a time-bounded excerpt of a take
// with its descriptive metadata. The embedding itself lives in the vector
// store at the same position.
type Moment struct {
	MomentID          uuid.UUID `json:"moment_id"`
	TakeID            uuid.UUID `json:"take_id"`
	StartTime         float64   `json:"start_time"`
	EndTime           float64   `json:"end_time"`
	TranscriptSnippet string    `json:"transcript_snippet"`
	EmotionLabel      string    `json:"emotion_label"`
	FileName          string    `json:"file_name"`
	FilePath          string    `json:"file_path"`
	TimingPattern     string    `json:"timing_pattern"`
	ReactionDelay     float64   `json:"reaction_delay"`
	PauseBefore       float64   `json:"pause_before"`
	PauseAfter        float64   `json:"pause_after"`
	LaughterDetected  bool      `json:"laughter_detected"`
	SpeechRate        string    `json:"speech_rate"`
}

// Hit is one ranked search result: a moment, its similarity score and its
// position in the index (usable as a stable result identifier).
type Hit struct {
	Pos    int
	Score  float64
	Moment Moment
}

// Backend accelerates vector search. Implementations must preserve insertion
// order: position i in the backend corresponds to metadata entry i.
type Backend interface {
	Name() string
	Add(vector []float32) error
	Search(query []float32, k int) ([]int, []float64, error)
	Reset() error
}

// Index pairs a vector backend with parallel moment metadata. The invariant
// len(vectors) == len(moments) holds atomically from a reader's perspective.
type Index struct {
	mu      sync.RWMutex
	dim     int
	backend Backend
	vectors [][]float32
	moments []Moment
	logger  *slog.Logger
}

// New creates an empty index for vectors of the given dimensionality.
func New(dim int, backend Backend, logger *slog.Logger) *Index {
	return &Index{dim: dim, backend: backend, logger: logger}
}

// Dimension returns the configured vector dimensionality.
func (ix *Index) Dimension() int { return ix.dim }

// BackendName reports which search tier is active.
func (ix *Index) BackendName() string { return ix.backend.Name() }

// Count returns the number of indexed moments.
func (ix *Index) Count() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.moments)
}

// Add appends a vector and its moment metadata. The metadata entry is only
// appended after the vector add succeeds, so readers never observe a
// half-applied pair.
func (ix *Index) Add(vector []float32, m Moment) error {
	if len(vector) != ix.dim {
		return fmt.Errorf("%w: got %d, index configured for %d", ErrDimensionMismatch, len(vector), ix.dim)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if err := ix.backend.Add(vector); err != nil {
		return fmt.Errorf("backend add: %w", err)
	}
	ix.vectors = append(ix.vectors, vector)
	ix.moments = append(ix.moments, m)
	return nil
}

// Search returns the top-k moments by descending inner-product score. Ties
// break by insertion order. An empty index returns an empty slice, never an
// error.
func (ix *Index) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != ix.dim {
		return nil, fmt.Errorf("%w: query has %d, index configured for %d", ErrDimensionMismatch, len(query), ix.dim)
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(ix.moments) == 0 {
		return []Hit{}, nil
	}
	if k > len(ix.moments) {
		k = len(ix.moments)
	}

	positions, scores, err := ix.backend.Search(query, k)
	if err != nil {
		// Degrade to the local exact scan rather than failing the query.
		ix.logger.Warn("backend search failed, scanning locally", "error", err)
		positions, scores = exactSearch(ix.vectors, query, k)
	}

	hits := make([]Hit, 0, len(positions))
	for i, pos := range positions {
		if pos < 0 || pos >= len(ix.moments) {
			continue
		}
		hits = append(hits, Hit{Pos: pos, Score: scores[i], Moment: ix.moments[pos]})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Pos < hits[j].Pos
	})
	return hits, nil
}

// Get returns the moment at position pos.
func (ix *Index) Get(pos int) (Moment, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if pos < 0 || pos >= len(ix.moments) {
		return Moment{}, false
	}
	return ix.moments[pos], true
}

// Moments returns a copy of all indexed metadata in insertion order. The
// keyword fallback tier scans this.
func (ix *Index) Moments() []Moment {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]Moment, len(ix.moments))
	copy(out, ix.moments)
	return out
}

// Clear drops all vectors and metadata.
func (ix *Index) Clear() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if err := ix.backend.Reset(); err != nil {
		return fmt.Errorf("backend reset: %w", err)
	}
	ix.vectors = nil
	ix.moments = nil
	return nil
}

// Stats summarizes the index for diagnostics.
type Stats struct {
	Count     int            `json:"count"`
	Dimension int            `json:"dimension"`
	Backend   string         `json:"backend"`
	Emotions  map[string]int `json:"emotions"`
}

// Stats returns the current index statistics.
func (ix *Index) Stats() Stats {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	emotions := make(map[string]int)
	for _, m := range ix.moments {
		emotions[m.EmotionLabel]++
	}
	return Stats{
		Count:     len(ix.moments),
		Dimension: ix.dim,
		Backend:   ix.backend.Name(),
		Emotions:  emotions,
	}
}

// snapshot is the on-disk persistence format: one full JSON document holding
// vectors and metadata in matching order.
type snapshot struct {
	Dimension int         `json:"dimension"`
	Vectors   [][]float32 `json:"vectors"`
	Moments   []Moment    `json:"moments"`
}

// Persist writes a full snapshot of the index to path. Invoke it after a
// batch of additions rather than per-add; there is no incremental format.
func (ix *Index) Persist(path string) error {
	ix.mu.RLock()
	snap := snapshot{Dimension: ix.dim, Vectors: ix.vectors, Moments: ix.moments}
	data, err := json.Marshal(snap)
	ix.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	ix.logger.Info("index persisted", "path", path, "moments", len(snap.Moments))
	return nil
}

// Load replaces the index contents with the snapshot at path. A missing file
// leaves the index empty and is not an error.
func (ix *Index) Load(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}
	if snap.Dimension != ix.dim {
		return fmt.Errorf("%w: snapshot has %d, index configured for %d", ErrDimensionMismatch, snap.Dimension, ix.dim)
	}
	if len(snap.Vectors) != len(snap.Moments) {
		return fmt.Errorf("corrupt snapshot: %d vectors, %d moments", len(snap.Vectors), len(snap.Moments))
	}
	for i, v := range snap.Vectors {
		if len(v) != ix.dim {
			return fmt.Errorf("%w: snapshot vector %d has %d, index configured for %d", ErrDimensionMismatch, i, len(v), ix.dim)
		}
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if err := ix.backend.Reset(); err != nil {
		return fmt.Errorf("backend reset: %w", err)
	}
	for _, v := range snap.Vectors {
		if err := ix.backend.Add(v); err != nil {
			return fmt.Errorf("backend add: %w", err)
		}
	}
	ix.vectors = snap.Vectors
	ix.moments = snap.Moments
	ix.logger.Info("index loaded", "path", path, "moments", len(snap.Moments))
	return nil
}
