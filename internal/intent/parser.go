package intent

import "strings"

// Intent is the parsed editorial intent of a search query.
type Intent struct {
	RawQuery     string   `json:"raw_query"`
	Emotions     []string `json:"emotions"`
	TemporalCues []string `json:"temporal_cues"`
}

// emotionCues maps emotion labels to the query phrasings that imply them.
var emotionCues = map[string][]string{
	"joy":        {"joy", "happy", "joyful", "elated", "pleased", "smiling", "laughing", "laughter"},
	"sadness":    {"sad", "sadness", "melancholy", "tearful", "crying", "grief"},
	"anger":      {"angry", "anger", "furious", "irritated", "frustrated", "rage", "confrontation"},
	"fear":       {"fearful", "fear", "afraid", "scared", "terrified", "panic"},
	"disgust":    {"disgust", "disgusted", "revolted", "loathing"},
	"surprise":   {"surprised", "surprise", "shocked", "startled", "amazed"},
	"analytical": {"analytical", "calculated", "technical", "screen recording"},
	"thoughtful": {"thoughtful", "pensive", "contemplating", "considering", "listening"},
	"tense":      {"tense", "tension", "strained", "stressed", "uncomfortable"},
	"relieved":   {"relieved", "relief", "relaxed"},
	"awkward":    {"awkward", "nervous", "hesitant"},
	"confident":  {"confident", "assured", "bold"},
}

// temporalCues maps timing hints to the phrasings that imply them.
var temporalCues = map[string][]string{
	"before": {"before", "prior to", "leading up to"},
	"after":  {"after", "following"},
	"during": {"during", "while", "mid-"},
	"pause":  {"pause", "silence", "quiet", "still"},
}

// cueOrder makes parsed slices deterministic regardless of map iteration.
var (
	emotionCueOrder  = []string{"joy", "sadness", "anger", "fear", "disgust", "surprise", "analytical", "thoughtful", "tense", "relieved", "awkward", "confident"}
	temporalCueOrder = []string{"before", "after", "during", "pause"}
)

// ParseIntent extracts emotion and temporal keywords from a raw query via a
// lightweight vocabulary lookup. It never fails; unknown queries produce an
// Intent with empty cue lists.
func ParseIntent(query string) Intent {
	lower := strings.ToLower(query)
	out := Intent{RawQuery: query}

	for _, emotion := range emotionCueOrder {
		for _, cue := range emotionCues[emotion] {
			if strings.Contains(lower, cue) {
				out.Emotions = append(out.Emotions, emotion)
				break
			}
		}
	}
	for _, temporal := range temporalCueOrder {
		for _, cue := range temporalCues[temporal] {
			if strings.Contains(lower, cue) {
				out.TemporalCues = append(out.TemporalCues, temporal)
				break
			}
		}
	}

	return out
}

// AugmentQuery rewrites a raw query with its parsed emotion and timing cues so
// differently phrased but equivalent intents embed to nearby vectors.
func AugmentQuery(query string) string {
	parsed := ParseIntent(query)
	augmented := query
	if len(parsed.Emotions) > 0 {
		augmented += ". Emotion: " + strings.Join(parsed.Emotions, ", ")
	}
	if len(parsed.TemporalCues) > 0 {
		augmented += ". Timing: " + strings.Join(parsed.TemporalCues, ", ")
	}
	return augmented
}
