package intent

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// OllamaEmbedder embeds text through a local Ollama instance.
type OllamaEmbedder struct {
	client *ollama.Client
	model  string
}

// NewOllamaEmbedder builds a client against host (e.g. http://localhost:11434).
func NewOllamaEmbedder(host, model string) (*OllamaEmbedder, error) {
	u, err := url.Parse(host)
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = "nomic-embed-text"
	}
	httpClient := &http.Client{Timeout: 60 * time.Second}
	return &OllamaEmbedder{client: ollama.NewClient(u, httpClient), model: model}, nil
}

// Embed returns the raw model embedding for text.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := e.client.Embed(ctx, &ollama.EmbedRequest{
		Model: e.model,
		Input: text,
	})
	if err != nil {
		return nil, err
	}
	if res == nil || len(res.Embeddings) == 0 || len(res.Embeddings[0]) == 0 {
		return nil, errors.New("empty embedding response")
	}
	return res.Embeddings[0], nil
}
