package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrResultNotFound is returned by Explain for an unknown result id.
var ErrResultNotFound = errors.New("result not found")

// suggestionPool holds the editorial queries offered for autocomplete.
var suggestionPool = []string{
	"hesitant reaction before answering",
	"tense pause before dialogue",
	"awkward silence after confession",
	"relieved smile after conflict",
	"angry interruption mid-sentence",
	"thoughtful pause while listening",
	"surprised reaction to news",
	"nervous laughter",
	"confident delivery",
	"emotional breakdown",
	"subtle facial reaction",
	"dramatic silence",
}

const maxSuggestions = 5

// Suggestions returns up to five pool entries containing the partial query,
// case-insensitively. An empty partial matches everything.
func (s *Searcher) Suggestions(partial string) []string {
	lower := strings.ToLower(partial)
	out := make([]string, 0, maxSuggestions)
	for _, sg := range suggestionPool {
		if strings.Contains(strings.ToLower(sg), lower) {
			out = append(out, sg)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out
}

// Explanation is the detailed breakdown of one indexed moment.
type Explanation struct {
	ResultID         int       `json:"result_id"`
	TakeID           uuid.UUID `json:"take_id"`
	MomentID         uuid.UUID `json:"moment_id"`
	StartTime        float64   `json:"start_time"`
	EndTime          float64   `json:"end_time"`
	Emotion          string    `json:"emotion"`
	Transcript       string    `json:"transcript"`
	TimingPattern    string    `json:"timing_pattern"`
	PauseBefore      float64   `json:"pause_before"`
	PauseAfter       float64   `json:"pause_after"`
	LaughterDetected bool      `json:"laughter_detected"`
	Text             string    `json:"explanation_text"`
}

// Explain produces a narrative explanation for an indexed moment by its
// stable result id.
func (s *Searcher) Explain(resultID int) (Explanation, error) {
	m, ok := s.index.Get(resultID)
	if !ok {
		return Explanation{}, fmt.Errorf("result %d: %w", resultID, ErrResultNotFound)
	}

	parts := []string{}
	emotion := m.EmotionLabel
	if emotion == "" {
		emotion = "neutral"
	}
	parts = append(parts, "This moment shows a "+emotion+" emotional state")

	if m.TranscriptSnippet != "" {
		parts = append(parts, "with dialogue: \""+m.TranscriptSnippet+"\"")
	} else {
		parts = append(parts, "without verbal dialogue (non-verbal reaction)")
	}
	if m.PauseBefore > pauseNoteThreshold {
		parts = append(parts, fmt.Sprintf("There is a notable %.1fs pause before speaking", m.PauseBefore))
	}
	if m.TimingPattern != "" {
		parts = append(parts, "The timing pattern suggests "+strings.ReplaceAll(m.TimingPattern, "_", " "))
	}

	return Explanation{
		ResultID:         resultID,
		TakeID:           m.TakeID,
		MomentID:         m.MomentID,
		StartTime:        m.StartTime,
		EndTime:          m.EndTime,
		Emotion:          emotion,
		Transcript:       m.TranscriptSnippet,
		TimingPattern:    m.TimingPattern,
		PauseBefore:      m.PauseBefore,
		PauseAfter:       m.PauseAfter,
		LaughterDetected: m.LaughterDetected,
		Text:             strings.Join(parts, ". ") + ".",
	}, nil
}
