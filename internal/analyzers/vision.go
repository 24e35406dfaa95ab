package analyzers

import (
	"context"
	"fmt"
)

// VisionResult is the object/scene analyzer's view of one take.
type VisionResult struct {
	Objects        []string `json:"objects"`
	EnergyLevel    string   `json:"energy_level"` // "calm", "dynamic", "high-intensity"
	Complexity     string   `json:"complexity"`   // "simple", "intricate"
	TechnicalScore float64  `json:"technical_score"`
	Description    string   `json:"description"`
	Duration       float64  `json:"duration"`
}

type visionRequest struct {
	FilePath string `json:"file_path"`
}

// AnalyzeVision runs frame and composition analysis on the take's media file.
func (c *Client) AnalyzeVision(ctx context.Context, baseURL, filePath string) (*VisionResult, error) {
	var out VisionResult
	if err := c.postJSON(ctx, baseURL+"/analyze", visionRequest{FilePath: filePath}, &out); err != nil {
		return nil, fmt.Errorf("vision analyze: %w", err)
	}
	return &out, nil
}
