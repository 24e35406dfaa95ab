package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        int
	DatabaseURL string
	NatsURL     string
	LogLevel    string
	Script      string

	VisionURL string
	AudioURL  string
	ScriptURL string

	OllamaHost     string
	EmbeddingModel string
	EmbeddingDim   int

	QdrantURL        string
	QdrantAPIKey     string
	QdrantCollection string

	IndexSnapshotPath string
}

func Load() Config {
	return Config{
		Port:        envInt("CINEAI_PORT", 8080),
		DatabaseURL: envStr("DATABASE_URL", ""),
		NatsURL:     envStr("NATS_URL", ""),
		LogLevel:    envStr("LOG_LEVEL", "info"),
		Script:      envStr("CINEAI_SCRIPT", "I told you we shouldn't have come here, Marcus. The perimeter is compromised."),

		VisionURL: envStr("VISION_ANALYZER_URL", "http://localhost:8091"),
		AudioURL:  envStr("AUDIO_ANALYZER_URL", "http://localhost:8092"),
		ScriptURL: envStr("SCRIPT_ANALYZER_URL", "http://localhost:8093"),

		OllamaHost:     envStr("OLLAMA_HOST", ""),
		EmbeddingModel: envStr("EMBEDDING_MODEL", "nomic-embed-text"),
		EmbeddingDim:   envInt("EMBEDDING_DIM", 384),

		QdrantURL:        envStr("QDRANT_URL", ""),
		QdrantAPIKey:     envStr("QDRANT_API_KEY", ""),
		QdrantCollection: envStr("QDRANT_COLLECTION", "cineai_moments"),

		IndexSnapshotPath: envStr("INDEX_SNAPSHOT_PATH", "./storage/index_snapshot.json"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
