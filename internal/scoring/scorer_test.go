package scoring

import (
	"math"
	"testing"
)

func strongSignals() Signals {
	return Signals{
		ScriptSimilarity:  0.92,
		EmotionIntensity:  0.8,
		TechnicalScore:    88,
		AudioQualityScore: 85,
		Duration:          22,
		ObjectCount:       6,
	}
}

func weakSignals() Signals {
	return Signals{
		ScriptSimilarity:  0.2,
		EmotionIntensity:  0.1,
		TechnicalScore:    35,
		AudioQualityScore: 40,
		Duration:          3,
		ObjectCount:       1,
	}
}

func TestScore_StrongTake(t *testing.T) {
	res := Score(strongSignals())

	if res.TotalScore < 75 {
		t.Errorf("expected strong take to score at least 75, got %.1f", res.TotalScore)
	}
	if len(res.ReshootNotes) != 1 || res.ReshootNotes[0][:8] != "DIRECTOR" {
		t.Errorf("expected the director's-choice note for a strong take, got %v", res.ReshootNotes)
	}
}

func TestScore_WeakTake(t *testing.T) {
	res := Score(weakSignals())

	if res.TotalScore > 60 {
		t.Errorf("expected weak take to score under 60, got %.1f", res.TotalScore)
	}
	if len(res.ReshootNotes) < 2 {
		t.Errorf("expected multiple reshoot notes for a weak take, got %v", res.ReshootNotes)
	}
}

func TestScore_AllPillarsPresent(t *testing.T) {
	res := Score(strongSignals())

	for _, pillar := range []string{
		"performance", "story_clarity", "coverage", "technical",
		"tone_rhythm", "instinct", "edit_imagination",
	} {
		if _, ok := res.Pillars[pillar]; !ok {
			t.Errorf("missing pillar %q", pillar)
		}
		if _, ok := res.Critiques[pillar]; !ok {
			t.Errorf("missing critique for pillar %q", pillar)
		}
	}
}

func TestScore_CoverageCapped(t *testing.T) {
	sig := strongSignals()
	sig.ObjectCount = 50

	res := Score(sig)
	if res.Pillars["coverage"] > 100 {
		t.Errorf("coverage must be capped at 100, got %.1f", res.Pillars["coverage"])
	}
}

func TestScore_Deterministic(t *testing.T) {
	a := Score(strongSignals())
	b := Score(strongSignals())

	if math.Abs(a.TotalScore-b.TotalScore) > 1e-9 {
		t.Errorf("expected identical scores, got %.3f vs %.3f", a.TotalScore, b.TotalScore)
	}
	if a.Summary != b.Summary {
		t.Errorf("expected identical summaries")
	}
}

func TestScore_PacingSweetSpot(t *testing.T) {
	inRange := strongSignals()
	inRange.Duration = 20
	outOfRange := strongSignals()
	outOfRange.Duration = 90

	if Score(inRange).Pillars["tone_rhythm"] <= Score(outOfRange).Pillars["tone_rhythm"] {
		t.Error("expected better rhythm score inside the 10-40s pacing window")
	}
}
