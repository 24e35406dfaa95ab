package intent

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildDescription(t *testing.T) {
	tests := []struct {
		name string
		sig  MomentSignals
		want []string
	}{
		{
			"full signals",
			MomentSignals{
				Transcript:       "We need to leave now.",
				Emotion:          "fear",
				Intensity:        70,
				LaughterDetected: false,
				SpeechRate:       "fast",
				TimingPattern:    "quick_response",
			},
			[]string{"Dialogue: We need to leave now.", "Emotion: fear (intensity 70%)", "Speech rate: fast", "Timing: quick response"},
		},
		{
			"silent moment",
			MomentSignals{Emotion: "thoughtful", Intensity: 40},
			[]string{"No dialogue, silent moment", "Emotion: thoughtful (intensity 40%)"},
		},
		{
			"laughter",
			MomentSignals{Transcript: "haha okay", Emotion: "joy", LaughterDetected: true},
			[]string{"Laughter detected during this moment"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildDescription(tt.sig)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("description %q missing %q", got, want)
				}
			}
		})
	}
}

func TestParseIntent(t *testing.T) {
	parsed := ParseIntent("hesitant reaction before answering")

	if len(parsed.Emotions) == 0 || parsed.Emotions[0] != "awkward" {
		t.Errorf("expected awkward from hesitant, got %v", parsed.Emotions)
	}
	found := false
	for _, cue := range parsed.TemporalCues {
		if cue == "before" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected temporal cue before, got %v", parsed.TemporalCues)
	}
}

func TestAugmentQuery_EquivalentPhrasings(t *testing.T) {
	a := AugmentQuery("a happy laughing moment")
	b := AugmentQuery("joyful laughter")

	if !strings.Contains(a, "Emotion: joy") || !strings.Contains(b, "Emotion: joy") {
		t.Errorf("expected both phrasings to carry the joy cue: %q / %q", a, b)
	}
}

func TestGenerator_FallbackDeterministic(t *testing.T) {
	g := NewGenerator(384, nil, discard())
	g.Probe(context.Background())

	if g.State() != StateUnavailable {
		t.Fatalf("expected unavailable state without backend, got %s", g.State())
	}

	a := g.EmbedMoment(context.Background(), "Dialogue: hello. Emotion: joy (intensity 60%)")
	b := g.EmbedMoment(context.Background(), "Dialogue: hello. Emotion: joy (intensity 60%)")

	if len(a) != 384 {
		t.Fatalf("expected dimension 384, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("fallback vectors differ at %d: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestGenerator_UnitNorm(t *testing.T) {
	g := NewGenerator(128, nil, discard())

	for _, text := range []string{"a", "hesitant pause", "Dialogue: the perimeter is compromised"} {
		vec := g.EmbedMoment(context.Background(), text)
		var sum float64
		for _, v := range vec {
			sum += float64(v) * float64(v)
		}
		if math.Abs(math.Sqrt(sum)-1.0) > 1e-5 {
			t.Errorf("embedding of %q has norm %f, want 1.0", text, math.Sqrt(sum))
		}
	}
}

func TestGenerator_DistinctTexts(t *testing.T) {
	g := NewGenerator(64, nil, discard())

	a := g.EmbedMoment(context.Background(), "angry confrontation")
	b := g.EmbedMoment(context.Background(), "quiet thoughtful pause")

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("expected different fallback vectors for different texts")
	}
}

type stubRemote struct {
	dim  int
	fail bool
}

func (s stubRemote) Embed(_ context.Context, text string) ([]float32, error) {
	if s.fail {
		return nil, errors.New("connection refused")
	}
	vec := make([]float32, s.dim)
	for i, c := range []byte(text) {
		vec[i%s.dim] += float32(c)
	}
	return vec, nil
}

func TestGenerator_ProbeStates(t *testing.T) {
	tests := []struct {
		name   string
		remote RemoteEmbedder
		want   ModelState
	}{
		{"healthy backend", stubRemote{dim: 32}, StateLoaded},
		{"failing backend", stubRemote{dim: 32, fail: true}, StateUnavailable},
		{"wrong dimension", stubRemote{dim: 16}, StateUnavailable},
		{"nil backend", nil, StateUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(32, tt.remote, discard())
			if got := g.Probe(context.Background()); got != tt.want {
				t.Errorf("Probe() = %s, want %s", got, tt.want)
			}
			// Probing again must not change the latched state.
			if got := g.Probe(context.Background()); got != tt.want {
				t.Errorf("second Probe() = %s, want %s", got, tt.want)
			}
		})
	}
}

// shrinkingRemote answers the first call with the right dimensionality and
// every later call with a shorter vector.
type shrinkingRemote struct {
	dim   int
	calls *int
}

func (s shrinkingRemote) Embed(_ context.Context, _ string) ([]float32, error) {
	*s.calls++
	if *s.calls == 1 {
		return make([]float32, s.dim), nil
	}
	return make([]float32, s.dim/2), nil
}

func TestGenerator_WrongDimensionAtCallTime(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	calls := 0
	g := NewGenerator(32, shrinkingRemote{dim: 32, calls: &calls}, logger)
	if got := g.Probe(context.Background()); got != StateLoaded {
		t.Fatalf("Probe() = %s, want loaded", got)
	}

	vec := g.EmbedMoment(context.Background(), "tense pause")
	if len(vec) != 32 {
		t.Fatalf("expected fallback vector of dimension 32, got %d", len(vec))
	}
	if want := g.fallbackVector("tense pause"); !equalVectors(vec, want) {
		t.Error("short backend vector should yield the deterministic fallback")
	}

	logged := buf.String()
	if !strings.Contains(logged, "wrong dimensionality") {
		t.Errorf("expected dimensionality warning, got log %q", logged)
	}
	if !strings.Contains(logged, "got=16") || !strings.Contains(logged, "want=32") {
		t.Errorf("expected got/want dimensions in log, got %q", logged)
	}
}

func equalVectors(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestGenerator_LoadedPathNormalizes(t *testing.T) {
	g := NewGenerator(32, stubRemote{dim: 32}, discard())
	g.Probe(context.Background())

	vec := g.EmbedQuery(context.Background(), "tense pause")
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(sum)-1.0) > 1e-5 {
		t.Errorf("loaded-path embedding norm %f, want 1.0", math.Sqrt(sum))
	}
}
