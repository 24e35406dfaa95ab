// Package scoring rates a processed take against the director's seven-pillar
// framework and produces per-pillar critique notes.
package scoring

import "fmt"

// Pillar weights. They sum to 1.
const (
	weightPerformance     = 0.25
	weightStoryClarity    = 0.20
	weightCoverage        = 0.15
	weightTechnical       = 0.15
	weightToneRhythm      = 0.10
	weightInstinct        = 0.05
	weightEditImagination = 0.10
)

// reshootThreshold: pillars scoring below this produce a reshoot note.
const reshootThreshold = 70

// Signals are the per-take inputs the scorer reads, gathered from the
// analyzer outputs accumulated during processing.
type Signals struct {
	ScriptSimilarity  float64 // 0..1
	EmotionIntensity  float64 // 0..1
	TechnicalScore    float64 // 0..100
	AudioQualityScore float64 // 0..100
	Duration          float64 // seconds
	ObjectCount       int
}

// Result carries the weighted total, the per-pillar scores and critiques,
// and the reshoot notes for weak pillars.
type Result struct {
	TotalScore   float64            `json:"total_score"`
	Pillars      map[string]float64 `json:"pillars"`
	Critiques    map[string]string  `json:"critiques"`
	ReshootNotes []string           `json:"reshoot_notes"`
	Summary      string             `json:"summary"`
}

// Score computes the seven-pillar weighted take score.
func Score(sig Signals) Result {
	sim := sig.ScriptSimilarity * 100
	intensity := sig.EmotionIntensity * 100
	hasCoverage := sig.ObjectCount > 3

	// Performance: truthfulness and emotional beats.
	perf := sim*0.4 + intensity*0.4 + 10
	if sim > 80 {
		perf += 10
	}

	// Story clarity: would a first-time viewer follow it.
	clarity := sim * 0.7
	if hasCoverage {
		clarity += 30
	} else {
		clarity += 10
	}

	// Coverage: angles and blocking read from scene density.
	coverage := sig.TechnicalScore*0.5 + float64(sig.ObjectCount)*8
	if coverage > 100 {
		coverage = 100
	}

	// Technical: focus, light and sound.
	technical := sig.TechnicalScore*0.6 + sig.AudioQualityScore*0.4

	// Tone and rhythm: pacing sweet spot between 10 and 40 seconds.
	pacing := 60.0
	if sig.Duration > 10 && sig.Duration < 40 {
		pacing = 90
	}
	tone := pacing*0.7 + sig.TechnicalScore*0.3

	// Instinct: does the scene land.
	instinct := (perf + technical + clarity) / 3

	// Edit imagination: how much room the cut leaves.
	edit := coverage*0.6 + technical*0.4

	pillars := map[string]float64{
		"performance":      round1(perf),
		"story_clarity":    round1(clarity),
		"coverage":         round1(coverage),
		"technical":        round1(technical),
		"tone_rhythm":      round1(tone),
		"instinct":         round1(instinct),
		"edit_imagination": round1(edit),
	}

	critiques := map[string]string{
		"performance":      pick(perf > 75, "Emotional beats read clearly; performance feels truthful.", "Performance feels forced or flat. The subtext or timing is being missed."),
		"story_clarity":    pick(clarity > 75, "Key story points are visually clear and obvious.", "Story intent is muddied. A first-time viewer might find the scene confusing."),
		"coverage":         pick(coverage > 70, "Strong coverage with clear eyeline matches.", "Possible coverage gaps. Eyelines or blocking may limit editing options."),
		"technical":        pick(technical > 80, "Technical quality is broadcast-ready.", "Technical failures in focus, lighting, or acoustic clarity."),
		"tone_rhythm":      pick(tone > 80, "Pacing and tone are consistent with the narrative arc.", "Tone feels off; the rhythm drags or rushes the emotional beat."),
		"instinct":         pick(instinct > 80, "The scene lands. It has the right feeling.", "Something feels off instinctively; the scene doesn't quite land."),
		"edit_imagination": pick(edit > 75, "The editor has multiple options to shape the performance.", "Limited options; this will be hard to save in post."),
	}

	total := perf*weightPerformance +
		clarity*weightStoryClarity +
		coverage*weightCoverage +
		technical*weightTechnical +
		tone*weightToneRhythm +
		instinct*weightInstinct +
		edit*weightEditImagination

	var notes []string
	if pillars["performance"] < reshootThreshold {
		notes = append(notes, "PERFORMANCE: the emotional beats feel flat or forced; a more authentic delivery is needed.")
	}
	if pillars["story_clarity"] < reshootThreshold {
		notes = append(notes, "CLARITY: key story points may confuse a first-time viewer.")
	}
	if pillars["technical"] < reshootThreshold {
		notes = append(notes, "TECHNICAL: focus or audio issues are significant enough to be deal-breakers.")
	}
	if pillars["tone_rhythm"] < reshootThreshold {
		notes = append(notes, "RHYTHM: the pacing feels disconnected from the surrounding emotional arc.")
	}
	if pillars["edit_imagination"] < reshootThreshold {
		notes = append(notes, "EDITABILITY: limited coverage will restrict editing options.")
	}
	if len(notes) == 0 {
		notes = append(notes, "DIRECTOR'S CHOICE: the take lands. Tone, performance and technicals are in sync.")
	}

	totalRounded := round1(total)
	return Result{
		TotalScore:   totalRounded,
		Pillars:      pillars,
		Critiques:    critiques,
		ReshootNotes: notes,
		Summary:      fmt.Sprintf("Director's rating: %.1f%%. %s", totalRounded, worstCritique(pillars, critiques)),
	}
}

// worstCritique selects the most critical note, scanning pillars in fault
// priority order and returning the first one under 80.
func worstCritique(pillars map[string]float64, critiques map[string]string) string {
	order := []string{"technical", "performance", "story_clarity", "coverage", "edit_imagination", "tone_rhythm", "instinct"}
	for _, p := range order {
		if pillars[p] < 80 {
			return critiques[p]
		}
	}
	return critiques["instinct"]
}

func pick(ok bool, good, bad string) string {
	if ok {
		return good
	}
	return bad
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
