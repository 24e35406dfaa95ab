package index

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// QdrantBackend is the primary search tier: a minimal REST client against a
// Qdrant collection configured for inner-product distance. Point IDs are the
// insertion positions, so results map straight onto the metadata slice.
type QdrantBackend struct {
	url        string
	apiKey     string
	collection string
	dim        int
	count      int
	client     *http.Client
}

// QdrantConfig holds connection details for the Qdrant backend.
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// NewQdrantBackend connects to Qdrant and ensures the collection exists. An
// unreachable server returns an error so the caller can select the in-memory
// tier instead.
func NewQdrantBackend(cfg QdrantConfig, dim int) (*QdrantBackend, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	b := &QdrantBackend{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dim:        dim,
		client:     &http.Client{Timeout: timeout},
	}
	if err := b.ensureCollection(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *QdrantBackend) Name() string { return "qdrant" }

func (b *QdrantBackend) ensureCollection() error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     b.dim,
			"distance": "Dot",
		},
	}
	return b.putJSON(fmt.Sprintf("%s/collections/%s", b.url, b.collection), body)
}

func (b *QdrantBackend) Add(vector []float32) error {
	point := map[string]any{
		"id":     b.count,
		"vector": vector,
	}
	body := map[string]any{"points": []map[string]any{point}}
	if err := b.putJSON(fmt.Sprintf("%s/collections/%s/points?wait=true", b.url, b.collection), body); err != nil {
		return err
	}
	b.count++
	return nil
}

func (b *QdrantBackend) Search(query []float32, k int) ([]int, []float64, error) {
	req := map[string]any{
		"vector": query,
		"limit":  k,
	}
	var resp struct {
		Result []struct {
			ID    int     `json:"id"`
			Score float64 `json:"score"`
		} `json:"result"`
	}
	if err := b.postJSON(fmt.Sprintf("%s/collections/%s/points/search", b.url, b.collection), req, &resp); err != nil {
		return nil, nil, err
	}
	positions := make([]int, 0, len(resp.Result))
	scores := make([]float64, 0, len(resp.Result))
	for _, r := range resp.Result {
		positions = append(positions, r.ID)
		scores = append(scores, r.Score)
	}
	return positions, scores, nil
}

func (b *QdrantBackend) Reset() error {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/collections/%s", b.url, b.collection), nil)
	if err != nil {
		return err
	}
	if b.apiKey != "" {
		req.Header.Set("api-key", b.apiKey)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	b.count = 0
	return b.ensureCollection()
}

func (b *QdrantBackend) putJSON(url string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		req.Header.Set("api-key", b.apiKey)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant PUT %s: %s", url, resp.Status)
	}
	return nil
}

func (b *QdrantBackend) postJSON(url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if b.apiKey != "" {
		req.Header.Set("api-key", b.apiKey)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
