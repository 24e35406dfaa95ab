// Package analyzers holds the HTTP clients for the external frame, audio and
// linguistic analyzers the pipeline consumes. The analyzers are opaque
// collaborators: this package only knows their request/response shapes.
package analyzers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the analyzer services.
type Client struct {
	http *http.Client
}

// NewClient builds a client with a generous timeout: model inference behind
// these endpoints can be slow.
func NewClient() *Client {
	return &Client{http: &http.Client{Timeout: 120 * time.Second}}
}

func (c *Client) postJSON(ctx context.Context, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s returned %s: %s", url, resp.Status, string(raw))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
