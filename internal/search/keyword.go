package search

import (
	"sort"
	"strings"

	"github.com/Prajwal-Personal/cineai/internal/expansion"
	"github.com/Prajwal-Personal/cineai/internal/intent"
)

// Per-field match weights. Dialogue and behavioral signals outrank the
// emotion label and filename.
const (
	transcriptWeight = 5
	emotionWeight    = 3
	fileNameWeight   = 2
	timingWeight     = 4
	laughterWeight   = 6
)

// keywordSearch is the last-resort retrieval tier: expanded query terms are
// matched against each moment's metadata fields with fixed weights and the
// summed match count is mapped into [0.5, 0.95]. Deterministic; ties keep
// insertion order.
func (s *Searcher) keywordSearch(exp expansion.Result, parsed intent.Intent, topK int, filters Filters) []Result {
	terms := exp.Terms
	if len(terms) == 0 {
		terms = strings.Fields(strings.ToLower(exp.Original))
	}

	var results []Result
	for i, m := range s.index.Moments() {
		if !matchesFilters(m, filters) {
			continue
		}

		transcript := strings.ToLower(m.TranscriptSnippet)
		emotion := strings.ToLower(m.EmotionLabel)
		fname := strings.ToLower(m.FileName)
		timing := strings.ToLower(strings.ReplaceAll(m.TimingPattern, "_", " "))
		laughter := ""
		if m.LaughterDetected {
			laughter = "laughter"
		}

		matches := 0
		transcriptHit := false
		for _, term := range terms {
			if strings.Contains(transcript, term) {
				matches += transcriptWeight
				transcriptHit = true
			}
			if strings.Contains(emotion, term) {
				matches += emotionWeight
			}
			if strings.Contains(fname, term) {
				matches += fileNameWeight
			}
			if timing != "" && strings.Contains(timing, term) {
				matches += timingWeight
			}
			if laughter != "" && strings.Contains(laughter, term) {
				matches += laughterWeight
			}
		}
		if matches == 0 && len(terms) > 0 {
			continue
		}

		score := 0.5 + float64(matches)*0.1
		if score > 0.95 {
			score = 0.95
		}

		r := buildResult(i, m, score, parsed, exp.Reasoning)
		source := "metadata"
		if transcriptHit {
			source = "transcript"
		}
		r.Reasoning.MatchedBecause = append(
			[]string{"Keyword match found in " + source},
			r.Reasoning.MatchedBecause...,
		)
		results = append(results, r)
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Confidence > results[b].Confidence
	})
	if len(results) > topK {
		results = results[:topK]
	}
	if results == nil {
		results = []Result{}
	}
	return results
}
