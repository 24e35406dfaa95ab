package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/Prajwal-Personal/cineai/internal/analyzers"
	"github.com/Prajwal-Personal/cineai/internal/index"
	"github.com/Prajwal-Personal/cineai/internal/intent"
	"github.com/Prajwal-Personal/cineai/internal/store"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeStore struct {
	take       *store.Take
	metadata   map[string]any
	reasoning  map[string]any
	confidence float64
	duration   float64
}

func newFakeStore(take *store.Take) *fakeStore {
	return &fakeStore{take: take, metadata: map[string]any{}}
}

func (f *fakeStore) GetTake(_ context.Context, id uuid.UUID) (*store.Take, error) {
	if f.take == nil || f.take.ID != id {
		return nil, fmt.Errorf("take %s: %w", id, store.ErrNotFound)
	}
	cp := *f.take
	return &cp, nil
}

func (f *fakeStore) MergeMetadata(_ context.Context, _ uuid.UUID, patch map[string]any) error {
	for k, v := range patch {
		f.metadata[k] = v
	}
	return nil
}

func (f *fakeStore) SetReasoning(_ context.Context, _ uuid.UUID, reasoning map[string]any) error {
	f.reasoning = reasoning
	return nil
}

func (f *fakeStore) SetConfidence(_ context.Context, _ uuid.UUID, score float64) error {
	f.confidence = score
	return nil
}

func (f *fakeStore) SetDuration(_ context.Context, _ uuid.UUID, seconds float64) error {
	f.duration = seconds
	return nil
}

type fakeAnalyzer struct {
	vision   *analyzers.VisionResult
	audio    *analyzers.AudioResult
	align    *analyzers.AlignmentResult
	audioErr error
}

func (f *fakeAnalyzer) AnalyzeVision(context.Context, string) (*analyzers.VisionResult, error) {
	return f.vision, nil
}

func (f *fakeAnalyzer) AnalyzeAudio(context.Context, string) (*analyzers.AudioResult, error) {
	if f.audioErr != nil {
		return nil, f.audioErr
	}
	return f.audio, nil
}

func (f *fakeAnalyzer) AlignScript(context.Context, string, string) (*analyzers.AlignmentResult, error) {
	return f.align, nil
}

type recordingPublisher struct {
	indexed []uuid.UUID
	failed  []string
}

func (r *recordingPublisher) TakeIndexed(_ context.Context, takeID uuid.UUID) error {
	r.indexed = append(r.indexed, takeID)
	return nil
}

func (r *recordingPublisher) TakeFailed(_ context.Context, _ uuid.UUID, stage, _ string) error {
	r.failed = append(r.failed, stage)
	return nil
}

func defaultAnalyzer() *fakeAnalyzer {
	return &fakeAnalyzer{
		vision: &analyzers.VisionResult{
			Objects:        []string{"person", "desk", "window", "lamp"},
			EnergyLevel:    "calm",
			Complexity:     "simple",
			TechnicalScore: 85,
			Description:    "A person at a desk near a window",
			Duration:       24,
		},
		audio: &analyzers.AudioResult{
			Transcript:   "I told you we shouldn't have come here",
			QualityScore: 80,
			Duration:     24,
			Behavioral: analyzers.BehavioralMarkers{
				HesitationDuration: 1.6,
				SpeechSpeed:        "normal",
				PauseBefore:        0.8,
			},
		},
		align: &analyzers.AlignmentResult{Similarity: 0.9},
	}
}

func newTestOrchestrator(t *testing.T, takes TakeStore, analyzer Analyzer, pub Publisher, ix *index.Index) *Orchestrator {
	t.Helper()
	gen := intent.NewGenerator(8, nil, discard())
	o, err := New(Config{Script: "I told you we shouldn't have come here."}, Deps{
		Takes:     takes,
		Analyzer:  analyzer,
		Embedder:  gen,
		Index:     ix,
		Publisher: pub,
		Logger:    discard(),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return o
}

func TestProcess_CompletesAllStages(t *testing.T) {
	takeID := uuid.New()
	fs := newFakeStore(&store.Take{ID: takeID, FileName: "scene12_take03.mp4", FilePath: "/media/scene12_take03.mp4"})
	pub := &recordingPublisher{}
	ix := index.New(8, index.NewMemoryBackend(8), discard())
	o := newTestOrchestrator(t, fs, defaultAnalyzer(), pub, ix)

	if err := o.Process(context.Background(), takeID); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	status := o.Status(takeID)
	if status.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", status.Status)
	}
	if status.Percent != 100 {
		t.Errorf("progress = %d, want 100", status.Percent)
	}
	for name, st := range status.Stages {
		if st != "completed" {
			t.Errorf("stage %q = %s, want completed", name, st)
		}
	}

	for _, key := range []string{"cv", "audio", "nlp", "emotion", "pacing_signature", "score_breakdown"} {
		if _, ok := fs.metadata[key]; !ok {
			t.Errorf("metadata missing %q", key)
		}
	}
	if fs.confidence <= 0 {
		t.Errorf("confidence not committed: %v", fs.confidence)
	}
	if fs.duration != 24 {
		t.Errorf("duration = %v, want 24", fs.duration)
	}
	if fs.reasoning == nil || fs.reasoning["summary"] == "" {
		t.Error("reasoning summary not committed")
	}

	if ix.Count() != 1 {
		t.Fatalf("index count = %d, want 1", ix.Count())
	}
	m, _ := ix.Get(0)
	if m.TakeID != takeID {
		t.Errorf("indexed moment take = %s, want %s", m.TakeID, takeID)
	}
	// Hesitation above 1.0s maps to the hesitant timing pattern.
	if m.TimingPattern != "hesitant" {
		t.Errorf("timing pattern = %q, want hesitant", m.TimingPattern)
	}

	if len(pub.indexed) != 1 || pub.indexed[0] != takeID {
		t.Errorf("indexed event not published: %v", pub.indexed)
	}
}

func TestProcess_StageFailureRetainsPartialResults(t *testing.T) {
	takeID := uuid.New()
	fs := newFakeStore(&store.Take{ID: takeID, FileName: "take.mp4", FilePath: "/media/take.mp4"})
	analyzer := defaultAnalyzer()
	analyzer.audioErr = errors.New("transcription backend down")
	pub := &recordingPublisher{}
	ix := index.New(8, index.NewMemoryBackend(8), discard())
	o := newTestOrchestrator(t, fs, analyzer, pub, ix)

	err := o.Process(context.Background(), takeID)
	if err == nil {
		t.Fatal("expected stage failure")
	}

	status := o.Status(takeID)
	if status.Status != StatusError {
		t.Errorf("status = %s, want error", status.Status)
	}
	var hasErrLog bool
	for _, line := range status.Logs {
		if strings.HasPrefix(line, "ERROR:") {
			hasErrLog = true
		}
	}
	if !hasErrLog {
		t.Errorf("no ERROR log line: %v", status.Logs)
	}

	// The vision commit survives; nothing after the failed stage ran.
	if _, ok := fs.metadata["cv"]; !ok {
		t.Error("pre-failure stage result lost")
	}
	if _, ok := fs.metadata["nlp"]; ok {
		t.Error("post-failure stage ran")
	}
	if status.Stages["Script Alignment"] != string(StatusPending) {
		t.Errorf("later stage state = %q, want pending", status.Stages["Script Alignment"])
	}
	if ix.Count() != 0 {
		t.Errorf("index grew despite failure: %d", ix.Count())
	}

	if len(pub.failed) != 1 || pub.failed[0] != "Audio Processing" {
		t.Errorf("failure event = %v, want Audio Processing", pub.failed)
	}
}

func TestProcess_UnknownTake(t *testing.T) {
	fs := newFakeStore(nil)
	ix := index.New(8, index.NewMemoryBackend(8), discard())
	o := newTestOrchestrator(t, fs, defaultAnalyzer(), nil, ix)

	id := uuid.New()
	if err := o.Process(context.Background(), id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := o.Status(id).Status; got != StatusError {
		t.Errorf("status = %s, want error", got)
	}
}

func TestStatus_UnknownSentinel(t *testing.T) {
	ix := index.New(8, index.NewMemoryBackend(8), discard())
	o := newTestOrchestrator(t, newFakeStore(nil), defaultAnalyzer(), nil, ix)

	status := o.Status(uuid.New())
	if status.Status != StatusUnknown {
		t.Errorf("status = %s, want unknown", status.Status)
	}
	if status.Percent != 0 {
		t.Errorf("progress = %d, want 0", status.Percent)
	}
}

func TestProgressStore_Remove(t *testing.T) {
	ps := NewProgressStore()
	id := uuid.New()
	ps.begin(id, []string{"a"})
	ps.complete(id)

	if ps.Get(id).Status != StatusCompleted {
		t.Fatal("expected completed entry")
	}
	ps.Remove(id)
	if ps.Get(id).Status != StatusUnknown {
		t.Error("entry not removed")
	}
}

func TestValidateStages(t *testing.T) {
	bad := []Stage{
		{Name: "needs-first", Needs: []Key{KeyAudio}},
		{Name: "provider", Provides: []Key{KeyAudio}},
	}
	if err := validateStages(bad); err == nil {
		t.Error("expected composition error for unmet need")
	}

	good := []Stage{
		{Name: "provider", Provides: []Key{KeyAudio}},
		{Name: "consumer", Needs: []Key{KeyAudio}},
	}
	if err := validateStages(good); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPacingSignature(t *testing.T) {
	if got := pacingSignature("one two three four", 2); got != 2 {
		t.Errorf("pacing = %v, want 2", got)
	}
	if got := pacingSignature("words", 0); got != 0 {
		t.Errorf("zero duration pacing = %v, want 0", got)
	}
}
