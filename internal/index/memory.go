package index

import "sort"

// MemoryBackend is the degraded-mode search tier: vectors concatenated into a
// slice of rows, searched by computing the dot product against every row and
// taking the top-k by descending score. Functionally equivalent to an exact
// inner-product index, O(n·D) per query.
type MemoryBackend struct {
	dim     int
	vectors [][]float32
}

// NewMemoryBackend creates an empty in-memory matrix backend.
func NewMemoryBackend(dim int) *MemoryBackend {
	return &MemoryBackend{dim: dim}
}

func (b *MemoryBackend) Name() string { return "memory" }

func (b *MemoryBackend) Add(vector []float32) error {
	b.vectors = append(b.vectors, vector)
	return nil
}

func (b *MemoryBackend) Search(query []float32, k int) ([]int, []float64, error) {
	positions, scores := exactSearch(b.vectors, query, k)
	return positions, scores, nil
}

func (b *MemoryBackend) Reset() error {
	b.vectors = nil
	return nil
}

// exactSearch scores query against every row and returns the top-k positions
// by descending score, ties broken by insertion order.
func exactSearch(vectors [][]float32, query []float32, k int) ([]int, []float64) {
	scores := make([]float64, len(vectors))
	for i, row := range vectors {
		scores[i] = dot(row, query)
	}

	positions := make([]int, len(vectors))
	for i := range positions {
		positions[i] = i
	}
	sort.SliceStable(positions, func(a, b int) bool {
		return scores[positions[a]] > scores[positions[b]]
	})

	if k > len(positions) {
		k = len(positions)
	}
	outPos := make([]int, k)
	outScores := make([]float64, k)
	for i := 0; i < k; i++ {
		outPos[i] = positions[i]
		outScores[i] = scores[positions[i]]
	}
	return outPos, outScores
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
