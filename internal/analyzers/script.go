package analyzers

import (
	"context"
	"fmt"
)

// AlignmentResult compares a transcript against the reference script.
type AlignmentResult struct {
	Similarity float64  `json:"similarity"` // 0..1
	ExtraWords []string `json:"extra_words"`
}

type alignRequest struct {
	Transcript string `json:"transcript"`
	Script     string `json:"script"`
}

// AlignScript measures how closely the spoken transcript follows the
// reference script and lists detected ad-libs.
func (c *Client) AlignScript(ctx context.Context, baseURL, transcript, script string) (*AlignmentResult, error) {
	var out AlignmentResult
	if err := c.postJSON(ctx, baseURL+"/align", alignRequest{Transcript: transcript, Script: script}, &out); err != nil {
		return nil, fmt.Errorf("script align: %w", err)
	}
	return &out, nil
}
