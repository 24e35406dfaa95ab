package pipeline

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/Prajwal-Personal/cineai/internal/fusion"
	"github.com/Prajwal-Personal/cineai/internal/index"
	"github.com/Prajwal-Personal/cineai/internal/intent"
	"github.com/Prajwal-Personal/cineai/internal/scoring"
)

const (
	snippetMaxChars          = 200
	hesitantPatternThreshold = 1.0
)

func (o *Orchestrator) runVision(ctx context.Context, pc *Context) error {
	res, err := o.deps.Analyzer.AnalyzeVision(ctx, pc.Take.FilePath)
	if err != nil {
		return err
	}
	pc.Vision = res

	if err := o.deps.Takes.SetDuration(ctx, pc.Take.ID, res.Duration); err != nil {
		return err
	}
	return o.deps.Takes.MergeMetadata(ctx, pc.Take.ID, map[string]any{"cv": res})
}

func (o *Orchestrator) runAudio(ctx context.Context, pc *Context) error {
	res, err := o.deps.Analyzer.AnalyzeAudio(ctx, pc.Take.FilePath)
	if err != nil {
		return err
	}
	pc.Audio = res
	return o.deps.Takes.MergeMetadata(ctx, pc.Take.ID, map[string]any{"audio": res})
}

func (o *Orchestrator) runAlignment(ctx context.Context, pc *Context) error {
	res, err := o.deps.Analyzer.AlignScript(ctx, pc.Audio.Transcript, o.cfg.Script)
	if err != nil {
		return err
	}
	pc.Alignment = res
	return o.deps.Takes.MergeMetadata(ctx, pc.Take.ID, map[string]any{"nlp": res})
}

// runScoring fuses the multimodal emotion signals, computes the director
// score and commits both, together with the pacing signature.
func (o *Orchestrator) runScoring(ctx context.Context, pc *Context) error {
	emo := fusion.Fuse(fusion.Input{
		Transcript:        pc.Audio.Transcript,
		Filename:          pc.Take.FileName,
		VisualDescription: pc.Vision.Description,
		DetectedObjects:   pc.Vision.Objects,
		Acoustic: fusion.AcousticSignals{
			LaughterDetected:   pc.Audio.Behavioral.LaughterDetected,
			HesitationDuration: pc.Audio.Behavioral.HesitationDuration,
			SpeechSpeed:        pc.Audio.Behavioral.SpeechSpeed,
		},
		Visual: fusion.VisualSignals{
			EnergyLevel: pc.Vision.EnergyLevel,
			Complexity:  pc.Vision.Complexity,
		},
	})
	pc.Emotion = &emo
	o.progress.log(pc.Take.ID, fmt.Sprintf("Fused emotion: %s (confidence %.2f)", emo.Label, emo.Confidence))

	sc := scoring.Score(scoring.Signals{
		ScriptSimilarity:  pc.Alignment.Similarity,
		EmotionIntensity:  emo.Confidence,
		TechnicalScore:    pc.Vision.TechnicalScore,
		AudioQualityScore: pc.Audio.QualityScore,
		Duration:          pc.Vision.Duration,
		ObjectCount:       len(pc.Vision.Objects),
	})
	pc.Score = &sc

	patch := map[string]any{
		"emotion":            emo.Label,
		"emotion_confidence": emo.Confidence,
		"detected_emotions":  emo.Detected,
		"vocal_cues":         pc.Audio.Behavioral.VocalCues,
		"pacing_signature":   pacingSignature(pc.Audio.Transcript, pc.Audio.Duration),
		"score_breakdown":    sc.Pillars,
	}
	if err := o.deps.Takes.MergeMetadata(ctx, pc.Take.ID, patch); err != nil {
		return err
	}
	if err := o.deps.Takes.SetConfidence(ctx, pc.Take.ID, sc.TotalScore); err != nil {
		return err
	}
	return o.deps.Takes.SetReasoning(ctx, pc.Take.ID, map[string]any{
		"summary":        sc.Summary,
		"director_notes": sc.ReshootNotes,
		"pillars":        sc.Pillars,
		"critiques":      sc.Critiques,
	})
}

// runIndexing embeds the take as a single moment and adds it to the search
// index. A dimension mismatch stops ingestion; it is a configuration error,
// not a degradable one.
func (o *Orchestrator) runIndexing(ctx context.Context, pc *Context) error {
	behav := pc.Audio.Behavioral
	pattern := "normal"
	if behav.HesitationDuration > hesitantPatternThreshold {
		pattern = "hesitant"
	}
	snippet := truncateRunes(pc.Audio.Transcript, snippetMaxChars)

	desc := intent.BuildDescription(intent.MomentSignals{
		Transcript:       snippet,
		Emotion:          pc.Emotion.Label,
		Intensity:        int(math.Round(pc.Emotion.Confidence * 100)),
		LaughterDetected: behav.LaughterDetected,
		SpeechRate:       behav.SpeechSpeed,
		TimingPattern:    pattern,
	})
	o.progress.log(pc.Take.ID, "Generating semantic embedding vectors...")
	vec := o.deps.Embedder.EmbedMoment(ctx, desc)

	duration := pc.Vision.Duration
	if duration <= 0 {
		duration = 10
	}
	moment := index.Moment{
		MomentID:          uuid.New(),
		TakeID:            pc.Take.ID,
		StartTime:         0,
		EndTime:           duration,
		TranscriptSnippet: snippet,
		EmotionLabel:      pc.Emotion.Label,
		FileName:          pc.Take.FileName,
		FilePath:          pc.Take.FilePath,
		TimingPattern:     pattern,
		ReactionDelay:     behav.HesitationDuration,
		PauseBefore:       behav.PauseBefore,
		PauseAfter:        behav.PauseAfter,
		LaughterDetected:  behav.LaughterDetected,
		SpeechRate:        behav.SpeechSpeed,
	}
	if err := o.deps.Index.Add(vec, moment); err != nil {
		return fmt.Errorf("index moment: %w", err)
	}
	pc.MomentPos = o.deps.Index.Count() - 1
	o.progress.log(pc.Take.ID, "Moment added to similarity index")

	if o.cfg.SnapshotPath != "" {
		if err := o.deps.Index.Persist(o.cfg.SnapshotPath); err != nil {
			return fmt.Errorf("persist index: %w", err)
		}
	}
	return nil
}

// pacingSignature is the take's words-per-second rate.
func pacingSignature(transcript string, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	words := len(strings.Fields(transcript))
	return math.Round(float64(words)/duration*100) / 100
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
