// Package intent turns per-take signals into natural-language intent
// descriptions and embeds them as fixed-length unit vectors for retrieval.
package intent

import (
	"fmt"
	"strings"
)

// MomentSignals is the distilled multimodal view of one indexed moment.
type MomentSignals struct {
	Transcript       string
	Emotion          string
	Intensity        int // percent
	LaughterDetected bool
	SpeechRate       string
	TimingPattern    string
}

// BuildDescription assembles a sentence-like description of a moment's intent.
// The same signals always produce the same string, which in turn keys the
// deterministic fallback embedding.
func BuildDescription(sig MomentSignals) string {
	var parts []string

	if s := strings.TrimSpace(sig.Transcript); s != "" {
		parts = append(parts, "Dialogue: "+s)
	} else {
		parts = append(parts, "No dialogue, silent moment")
	}

	if sig.Emotion != "" {
		parts = append(parts, fmt.Sprintf("Emotion: %s (intensity %d%%)", sig.Emotion, sig.Intensity))
	}
	if sig.LaughterDetected {
		parts = append(parts, "Laughter detected during this moment")
	}
	if sig.SpeechRate != "" {
		parts = append(parts, "Speech rate: "+sig.SpeechRate)
	}
	if sig.TimingPattern != "" {
		parts = append(parts, "Timing: "+strings.ReplaceAll(sig.TimingPattern, "_", " "))
	}

	return strings.Join(parts, ". ")
}
