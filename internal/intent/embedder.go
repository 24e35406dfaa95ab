package intent

import (
	"context"
	"hash/fnv"
	"log/slog"
	"math"
	"math/rand"
	"sync"
)

// ModelState tracks the embedding model resource handle. Transitions are
// explicit: Probe moves Unloaded to Loaded or Unavailable exactly once.
type ModelState int

const (
	StateUnloaded ModelState = iota
	StateLoaded
	StateUnavailable
)

func (s ModelState) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateUnavailable:
		return "unavailable"
	default:
		return "unloaded"
	}
}

// RemoteEmbedder is a text-embedding model backend.
type RemoteEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator produces unit vectors of a fixed dimension for moment
// descriptions and search queries. When no model backend is available it
// derives a deterministic pseudo-random vector keyed by a hash of the text,
// so the same description always yields the same vector.
type Generator struct {
	dim    int
	remote RemoteEmbedder
	logger *slog.Logger

	mu    sync.Mutex
	state ModelState
}

// NewGenerator builds a generator for the given dimension. remote may be nil,
// in which case the generator stays in the deterministic fallback path.
func NewGenerator(dim int, remote RemoteEmbedder, logger *slog.Logger) *Generator {
	return &Generator{dim: dim, remote: remote, logger: logger, state: StateUnloaded}
}

// Dimension returns the configured vector dimensionality.
func (g *Generator) Dimension() int { return g.dim }

// State returns the current model-handle state.
func (g *Generator) State() ModelState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Probe checks the model backend once and latches the handle state. A model
// returning the wrong dimensionality counts as unavailable: silently
// truncating or padding would corrupt the index.
func (g *Generator) Probe(ctx context.Context) ModelState {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateUnloaded {
		return g.state
	}
	if g.remote == nil {
		g.state = StateUnavailable
		g.logger.Warn("no embedding backend configured, using deterministic fallback vectors")
		return g.state
	}

	vec, err := g.remote.Embed(ctx, "probe")
	if err != nil {
		g.state = StateUnavailable
		g.logger.Warn("embedding backend unavailable, using deterministic fallback vectors", "error", err)
		return g.state
	}
	if len(vec) != g.dim {
		g.state = StateUnavailable
		g.logger.Error("embedding backend dimension mismatch, refusing to use it",
			"got", len(vec), "want", g.dim)
		return g.state
	}

	g.state = StateLoaded
	g.logger.Info("embedding backend ready", "dimension", g.dim)
	return g.state
}

// EmbedMoment embeds a moment description into a unit vector. Missing
// backends are recovered locally and never surfaced as an error.
func (g *Generator) EmbedMoment(ctx context.Context, description string) []float32 {
	return g.embed(ctx, description)
}

// EmbedQuery embeds a search query, first augmenting it with parsed
// emotion and timing cues.
func (g *Generator) EmbedQuery(ctx context.Context, query string) []float32 {
	return g.embed(ctx, AugmentQuery(query))
}

func (g *Generator) embed(ctx context.Context, text string) []float32 {
	if g.State() == StateLoaded {
		vec, err := g.remote.Embed(ctx, text)
		if err == nil && len(vec) == g.dim {
			return normalize(vec)
		}
		if err != nil {
			g.logger.Warn("embedding call failed, falling back to deterministic vector", "error", err)
		} else {
			g.logger.Warn("embedding has wrong dimensionality, falling back to deterministic vector", "got", len(vec), "want", g.dim)
		}
	}
	return g.fallbackVector(text)
}

// fallbackVector derives a reproducible unit vector by seeding a generator
// with the FNV-64a hash of the text.
func (g *Generator) fallbackVector(text string) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	vec := make([]float32, g.dim)
	for i := range vec {
		vec[i] = float32(rng.NormFloat64())
	}
	return normalize(vec)
}

func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}
