// Package fusion combines linguistic, acoustic and visual emotion signals
// into a single label plus a confidence distribution via weighted voting.
package fusion

import (
	"sort"
	"strings"
)

// Base contribution weights. They sum to 1; the linguistic-winner bonus and
// the behavior/energy votes are additions on top of the weighted base.
const (
	linguisticWeight = 0.40
	acousticWeight   = 0.30
	visualWeight     = 0.30

	linguisticWinnerBonus = 0.20
	filenameHintWeight    = 2.0
	screenRecordingBonus  = 3.0

	// Occurrences of a single keyword beyond this count add no weight, so a
	// repeated catchphrase cannot dominate the vote.
	keywordOccurrenceCap = 3

	// Hesitation longer than this reads as a deliberate, thoughtful pause.
	hesitationThreshold = 1.2

	// Normalized shares above this are reported as additional detected
	// emotions for multi-label display.
	multiLabelThreshold = 0.12
)

// AcousticSignals are the behavioral markers delivered by the audio analyzer.
type AcousticSignals struct {
	LaughterDetected   bool
	HesitationDuration float64
	SpeechSpeed        string
}

// VisualSignals summarize motion and composition from the scene analyzer.
type VisualSignals struct {
	EnergyLevel string // "calm", "dynamic", "high-intensity"
	Complexity  string // "simple", "intricate"
}

// Input carries everything the fusion engine votes over for one take.
type Input struct {
	Transcript        string
	Filename          string
	VisualDescription string
	DetectedObjects   []string
	Acoustic          AcousticSignals
	Visual            VisualSignals
}

// Detected is one emotion with its normalized share, for multi-label display.
type Detected struct {
	Label string  `json:"label"`
	Share float64 `json:"share"`
}

// Result is the fused emotion decision for one take.
type Result struct {
	Label        string             `json:"label"`
	Confidence   float64            `json:"confidence"`
	Distribution map[string]float64 `json:"distribution"`
	Detected     []Detected         `json:"detected_emotions"`
	FallbackUsed bool               `json:"fallback_used"`
}

// Fuse runs the weighted vote and returns the winning label, its confidence
// and the normalized score distribution. It is a pure function: identical
// inputs always produce identical results.
func Fuse(in Input) Result {
	weights := make(map[string]float64, len(Categories))
	for _, c := range Categories {
		weights[c] = 0
	}

	// Linguistic contribution: capped keyword occurrence counts over the
	// transcript, scene description and detected objects, plus filename hints
	// at a higher fixed weight.
	text := strings.ToLower(in.Transcript + " " + in.VisualDescription + " " + strings.Join(in.DetectedObjects, " "))
	fname := strings.ToLower(in.Filename)

	linguistic := make(map[string]float64, len(emotionVocabulary))
	for emotion, vocab := range emotionVocabulary {
		score := 0.0
		for _, kw := range vocab.keywords {
			n := strings.Count(text, kw)
			if n > keywordOccurrenceCap {
				n = keywordOccurrenceCap
			}
			score += float64(n)
		}
		for _, hint := range vocab.filenameHints {
			if strings.Contains(fname, hint) {
				score += filenameHintWeight
			}
		}
		linguistic[emotion] = score
	}
	if isScreenRecording(fname) {
		linguistic["analytical"] += screenRecordingBonus
	}

	for emotion, score := range linguistic {
		weights[emotion] += score * linguisticWeight
	}
	if winner, score := argmax(linguistic); score > 0 {
		weights[winner] += linguisticWinnerBonus
	}

	// Acoustic vote. Neutral abstains: silence about behavior is not evidence
	// of a neutral take.
	switch {
	case in.Acoustic.LaughterDetected:
		weights["joy"] += acousticWeight
	case in.Acoustic.HesitationDuration > hesitationThreshold:
		weights["thoughtful"] += acousticWeight
	}

	// Visual energy vote.
	switch {
	case in.Visual.EnergyLevel == "high-intensity" && in.Visual.Complexity == "intricate":
		weights["surprise"] += visualWeight
	case in.Visual.EnergyLevel == "high-intensity":
		weights["anger"] += visualWeight
	case in.Visual.EnergyLevel == "dynamic":
		weights["joy"] += visualWeight
	case in.Visual.Complexity == "intricate":
		weights["thoughtful"] += visualWeight
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}

	if total == 0 {
		return Result{
			Label:        fallbackLabel(in.Filename),
			Confidence:   0,
			Distribution: weights,
			FallbackUsed: true,
		}
	}

	// Label comes from raw scores, not the normalized distribution, so ties
	// cannot be re-resolved by normalization rounding.
	label, top := argmax(weights)

	distribution := make(map[string]float64, len(weights))
	for emotion, w := range weights {
		distribution[emotion] = w / total
	}

	var detected []Detected
	for emotion, share := range distribution {
		if share > multiLabelThreshold {
			detected = append(detected, Detected{Label: emotion, Share: share})
		}
	}
	sort.Slice(detected, func(i, j int) bool {
		wi, wj := weights[detected[i].Label], weights[detected[j].Label]
		if wi != wj {
			return wi > wj
		}
		return detected[i].Label < detected[j].Label
	})

	confidence := top
	if confidence > 1 {
		confidence = 1
	}

	return Result{
		Label:        label,
		Confidence:   confidence,
		Distribution: distribution,
		Detected:     detected,
	}
}

// FallbackLabel selects a label from the rotation pool keyed by a stable
// fingerprint of the filename: sum of byte values mod pool size.
func fallbackLabel(filename string) string {
	sum := 0
	for _, b := range []byte(filename) {
		sum += int(b)
	}
	return fallbackPool[sum%len(fallbackPool)]
}

func isScreenRecording(fname string) bool {
	return strings.Contains(fname, "screen") ||
		strings.Contains(fname, "recording") ||
		strings.Contains(fname, "capture")
}

// argmax returns the highest-scoring category, iterating the canonical order
// so equal scores resolve deterministically.
func argmax(scores map[string]float64) (string, float64) {
	best := ""
	top := -1.0
	for _, c := range Categories {
		if s, ok := scores[c]; ok && s > top {
			best, top = c, s
		}
	}
	return best, top
}
