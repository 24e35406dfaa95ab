package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/Prajwal-Personal/cineai/internal/analyzers"
	"github.com/Prajwal-Personal/cineai/internal/api"
	"github.com/Prajwal-Personal/cineai/internal/bus"
	"github.com/Prajwal-Personal/cineai/internal/config"
	"github.com/Prajwal-Personal/cineai/internal/index"
	"github.com/Prajwal-Personal/cineai/internal/intent"
	"github.com/Prajwal-Personal/cineai/internal/pipeline"
	"github.com/Prajwal-Personal/cineai/internal/search"
	"github.com/Prajwal-Personal/cineai/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("cineai starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database connected")

	// Embedding generator: remote model when configured, deterministic
	// fallback vectors otherwise.
	var remote intent.RemoteEmbedder
	if cfg.OllamaHost != "" {
		emb, err := intent.NewOllamaEmbedder(cfg.OllamaHost, cfg.EmbeddingModel)
		if err != nil {
			slog.Error("invalid ollama host", "error", err)
			os.Exit(1)
		}
		remote = emb
	}
	embedder := intent.NewGenerator(cfg.EmbeddingDim, remote, slog.Default())
	slog.Info("embedding backend probed", "state", embedder.Probe(ctx).String(), "dimension", cfg.EmbeddingDim)

	// Vector index: qdrant when reachable, in-memory matrix otherwise.
	// Selected once here; the keyword heuristic inside search is the third tier.
	var backend index.Backend
	if cfg.QdrantURL != "" {
		qb, err := index.NewQdrantBackend(index.QdrantConfig{
			URL:        cfg.QdrantURL,
			APIKey:     cfg.QdrantAPIKey,
			Collection: cfg.QdrantCollection,
		}, cfg.EmbeddingDim)
		if err != nil {
			slog.Warn("qdrant unavailable, using in-memory vector search", "error", err)
		} else {
			backend = qb
		}
	}
	if backend == nil {
		backend = index.NewMemoryBackend(cfg.EmbeddingDim)
	}
	ix := index.New(cfg.EmbeddingDim, backend, slog.Default())
	if err := ix.Load(cfg.IndexSnapshotPath); err != nil {
		slog.Error("failed to load index snapshot", "error", err)
		os.Exit(1)
	}
	slog.Info("vector index ready", "backend", ix.BackendName(), "moments", ix.Count())

	// NATS is optional; without it, processing is triggered over HTTP only.
	var events *bus.Client
	if cfg.NatsURL != "" {
		events, err = bus.NewClient(cfg.NatsURL, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer events.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured, take events disabled")
	}

	// Pipeline orchestrator
	deps := pipeline.Deps{
		Takes: db,
		Analyzer: pipeline.AnalyzerSet{
			Client:    analyzers.NewClient(),
			VisionURL: cfg.VisionURL,
			AudioURL:  cfg.AudioURL,
			ScriptURL: cfg.ScriptURL,
		},
		Embedder: embedder,
		Index:    ix,
		Logger:   slog.Default(),
	}
	if events != nil {
		deps.Publisher = events
	}
	orch, err := pipeline.New(pipeline.Config{Script: cfg.Script, SnapshotPath: cfg.IndexSnapshotPath}, deps)
	if err != nil {
		slog.Error("invalid pipeline composition", "error", err)
		os.Exit(1)
	}

	// Uploaded takes trigger processing
	if events != nil {
		err := events.OnTakeUploaded(func(takeID uuid.UUID) {
			go func() {
				if err := orch.Process(context.Background(), takeID); err != nil {
					slog.Error("event-triggered processing failed", "take_id", takeID, "error", err)
				}
			}()
		})
		if err != nil {
			slog.Error("failed to subscribe to upload events", "error", err)
			os.Exit(1)
		}
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, api.Deps{
		Orchestrator: orch,
		Searcher:     search.New(ix, embedder, slog.Default()),
		Index:        ix,
		Feedback:     db,
		SnapshotPath: cfg.IndexSnapshotPath,
		Logger:       slog.Default(),
	})
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	if events != nil {
		if err := events.Register(cfg.Port); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	slog.Info("cineai ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("server shutdown", "error", err)
	}
	if err := ix.Persist(cfg.IndexSnapshotPath); err != nil {
		slog.Warn("final index persist failed", "error", err)
	}
	cancel()
	slog.Info("cineai stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
