// Package pipeline sequences the per-take analysis stages, tracks progress
// and commits each stage's results before the next one runs.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Prajwal-Personal/cineai/internal/analyzers"
	"github.com/Prajwal-Personal/cineai/internal/fusion"
	"github.com/Prajwal-Personal/cineai/internal/index"
	"github.com/Prajwal-Personal/cineai/internal/intent"
	"github.com/Prajwal-Personal/cineai/internal/scoring"
	"github.com/Prajwal-Personal/cineai/internal/store"
)

// Key names one slot of the processing context. Stages declare which keys
// they need and which they fill; the orchestrator rejects a stage order
// where a need precedes its provider.
type Key string

const (
	KeyVision    Key = "cv"
	KeyAudio     Key = "audio"
	KeyAlignment Key = "nlp"
	KeyScore     Key = "score"
	KeyMoment    Key = "moment"
)

// Context is the ephemeral per-take accumulator. It is created at the start
// of Process and discarded at the end; nothing in it is persisted directly.
type Context struct {
	Take      *store.Take
	Vision    *analyzers.VisionResult
	Audio     *analyzers.AudioResult
	Alignment *analyzers.AlignmentResult
	Emotion   *fusion.Result
	Score     *scoring.Result
	MomentPos int
}

// Stage is one typed pipeline step. Weight sets its share of the overall
// progress percentage.
type Stage struct {
	Name     string
	Weight   float64
	Needs    []Key
	Provides []Key
	Run      func(ctx context.Context, pc *Context) error
}

// TakeStore is the slice of the persistence layer the pipeline writes
// through. Every stage commit is a partial update.
type TakeStore interface {
	GetTake(ctx context.Context, id uuid.UUID) (*store.Take, error)
	MergeMetadata(ctx context.Context, id uuid.UUID, patch map[string]any) error
	SetReasoning(ctx context.Context, id uuid.UUID, reasoning map[string]any) error
	SetConfidence(ctx context.Context, id uuid.UUID, score float64) error
	SetDuration(ctx context.Context, id uuid.UUID, seconds float64) error
}

// Analyzer is the external analyzer surface the stages call.
type Analyzer interface {
	AnalyzeVision(ctx context.Context, filePath string) (*analyzers.VisionResult, error)
	AnalyzeAudio(ctx context.Context, filePath string) (*analyzers.AudioResult, error)
	AlignScript(ctx context.Context, transcript, script string) (*analyzers.AlignmentResult, error)
}

// Publisher notifies downstream consumers about processing outcomes. A nil
// publisher disables eventing.
type Publisher interface {
	TakeIndexed(ctx context.Context, takeID uuid.UUID) error
	TakeFailed(ctx context.Context, takeID uuid.UUID, stage, reason string) error
}

// AnalyzerSet binds the shared HTTP client to the three analyzer endpoints.
type AnalyzerSet struct {
	Client    *analyzers.Client
	VisionURL string
	AudioURL  string
	ScriptURL string
}

func (a AnalyzerSet) AnalyzeVision(ctx context.Context, filePath string) (*analyzers.VisionResult, error) {
	return a.Client.AnalyzeVision(ctx, a.VisionURL, filePath)
}

func (a AnalyzerSet) AnalyzeAudio(ctx context.Context, filePath string) (*analyzers.AudioResult, error) {
	return a.Client.AnalyzeAudio(ctx, a.AudioURL, filePath)
}

func (a AnalyzerSet) AlignScript(ctx context.Context, transcript, script string) (*analyzers.AlignmentResult, error) {
	return a.Client.AlignScript(ctx, a.ScriptURL, transcript, script)
}

type Config struct {
	// Script is the reference text takes are aligned against.
	Script string
	// SnapshotPath, when set, receives an index snapshot after each
	// successful indexing stage.
	SnapshotPath string
}

type Deps struct {
	Takes     TakeStore
	Analyzer  Analyzer
	Embedder  *intent.Generator
	Index     *index.Index
	Publisher Publisher
	Logger    *slog.Logger
}

type Orchestrator struct {
	cfg      Config
	deps     Deps
	stages   []Stage
	progress *ProgressStore
	logger   *slog.Logger
}

// New builds the orchestrator with its fixed stage list and validates the
// stage dependency order.
func New(cfg Config, deps Deps) (*Orchestrator, error) {
	o := &Orchestrator{
		cfg:      cfg,
		deps:     deps,
		progress: NewProgressStore(),
		logger:   deps.Logger,
	}
	o.stages = []Stage{
		{Name: "Frame & Data Analysis", Weight: 2.0, Provides: []Key{KeyVision}, Run: o.runVision},
		{Name: "Audio Processing", Weight: 2.0, Provides: []Key{KeyAudio}, Run: o.runAudio},
		{Name: "Script Alignment", Weight: 1.0, Needs: []Key{KeyAudio}, Provides: []Key{KeyAlignment}, Run: o.runAlignment},
		{Name: "Intelligence Scoring", Weight: 0.5, Needs: []Key{KeyVision, KeyAudio, KeyAlignment}, Provides: []Key{KeyScore}, Run: o.runScoring},
		{Name: "Intent Indexing", Weight: 0.5, Needs: []Key{KeyAudio, KeyScore}, Provides: []Key{KeyMoment}, Run: o.runIndexing},
	}
	if err := validateStages(o.stages); err != nil {
		return nil, err
	}
	return o, nil
}

// validateStages checks at composition time that every stage's needs are
// provided by an earlier stage.
func validateStages(stages []Stage) error {
	provided := make(map[Key]bool)
	for _, s := range stages {
		for _, need := range s.Needs {
			if !provided[need] {
				return fmt.Errorf("stage %q needs %q, which no earlier stage provides", s.Name, need)
			}
		}
		for _, p := range s.Provides {
			provided[p] = true
		}
	}
	return nil
}

// Progress exposes the orchestrator-owned progress store.
func (o *Orchestrator) Progress() *ProgressStore {
	return o.progress
}

// Status returns the take's current progress, or the unknown sentinel.
func (o *Orchestrator) Status(takeID uuid.UUID) Progress {
	return o.progress.Get(takeID)
}

// Process runs every stage against one take, committing after each. A stage
// failure aborts the rest, marks the take errored and keeps the results
// committed so far. Two different takes may be processed concurrently; the
// stages of one take always run sequentially.
func (o *Orchestrator) Process(ctx context.Context, takeID uuid.UUID) error {
	names := make([]string, len(o.stages))
	var totalWeight float64
	for i, s := range o.stages {
		names[i] = s.Name
		totalWeight += s.Weight
	}
	o.progress.begin(takeID, names)

	take, err := o.deps.Takes.GetTake(ctx, takeID)
	if err != nil {
		o.progress.fail(takeID, err.Error())
		return fmt.Errorf("load take: %w", err)
	}

	pc := &Context{Take: take}
	var completedWeight float64
	for _, stage := range o.stages {
		o.progress.startStage(takeID, stage.Name)
		o.logger.Info("stage started", "take_id", takeID, "stage", stage.Name)

		if err := stage.Run(ctx, pc); err != nil {
			o.progress.fail(takeID, err.Error())
			o.logger.Error("stage failed", "take_id", takeID, "stage", stage.Name, "error", err)
			if o.deps.Publisher != nil {
				if perr := o.deps.Publisher.TakeFailed(ctx, takeID, stage.Name, err.Error()); perr != nil {
					o.logger.Warn("publish failure event", "error", perr)
				}
			}
			return fmt.Errorf("stage %s: %w", stage.Name, err)
		}

		completedWeight += stage.Weight
		o.progress.completeStage(takeID, stage.Name, int(completedWeight/totalWeight*100))
	}

	o.progress.complete(takeID)
	o.logger.Info("take processed", "take_id", takeID)
	if o.deps.Publisher != nil {
		if perr := o.deps.Publisher.TakeIndexed(ctx, takeID); perr != nil {
			o.logger.Warn("publish indexed event", "error", perr)
		}
	}
	return nil
}
