package analyzers

import (
	"context"
	"fmt"
)

// VocalCue is a notable on-set vocal event ("PRINT IT", "ACTION") with its
// timestamp inside the take.
type VocalCue struct {
	Cue       string  `json:"cue"`
	Text      string  `json:"text"`
	Timestamp float64 `json:"timestamp"`
}

// BehavioralMarkers are the timing and delivery signals the audio analyzer
// extracts alongside the transcript.
type BehavioralMarkers struct {
	LaughterDetected   bool       `json:"laughter_detected"`
	HesitationDuration float64    `json:"hesitation_duration"`
	SpeechSpeed        string     `json:"speech_speed"` // "slow", "normal", "fast"
	PauseBefore        float64    `json:"pause_before_duration"`
	PauseAfter         float64    `json:"pause_after_duration"`
	VocalCues          []VocalCue `json:"vocal_cues"`
}

// AudioResult is the audio analyzer's view of one take.
type AudioResult struct {
	Transcript   string            `json:"transcript"`
	Language     string            `json:"language"`
	QualityScore float64           `json:"quality_score"`
	Duration     float64           `json:"duration"`
	Behavioral   BehavioralMarkers `json:"behavioral_markers"`
	Description  string            `json:"description"`
}

type audioRequest struct {
	FilePath string `json:"file_path"`
}

// AnalyzeAudio transcribes the take and extracts behavioral markers.
func (c *Client) AnalyzeAudio(ctx context.Context, baseURL, filePath string) (*AudioResult, error) {
	var out AudioResult
	if err := c.postJSON(ctx, baseURL+"/analyze", audioRequest{FilePath: filePath}, &out); err != nil {
		return nil, fmt.Errorf("audio analyze: %w", err)
	}
	return &out, nil
}
