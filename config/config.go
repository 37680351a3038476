package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                     string
	StoreBackend             string
	StorePath                string
	VocabPath                string
	MemoryPath               string
	SnapshotDir              string
	DatabaseURL              string
	ReviewPolicy             string
	IntroductionGraceMinutes int
	AnthropicAPIKey          string
	OpenAIAPIKey             string
	PineconeAPIKey           string
	PineconeIndexName        string
}

// Load reads configuration from the environment, preferring a local .env
// file when one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[INFO] No .env file found, reading configuration from environment")
	}

	return &Config{
		Port:                     getEnv("PORT", "8080"),
		StoreBackend:             getEnv("STORE_BACKEND", "csv"),
		StorePath:                getEnv("STORE_PATH", "data/word_stats.csv"),
		VocabPath:                getEnv("VOCAB_PATH", "data/vocabulary.csv"),
		MemoryPath:               getEnv("MEMORY_PATH", "data/learner_memory.txt"),
		SnapshotDir:              getEnv("SNAPSHOT_DIR", "data/snapshots"),
		DatabaseURL:              os.Getenv("DB_URL"),
		ReviewPolicy:             getEnv("REVIEW_POLICY", "due"),
		IntroductionGraceMinutes: getEnvInt("INTRODUCTION_GRACE_MINUTES", 5),
		AnthropicAPIKey:          os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:             os.Getenv("OPENAI_API_KEY"),
		PineconeAPIKey:           os.Getenv("PINECONE_API_KEY"),
		PineconeIndexName:        getEnv("PINECONE_INDEX_NAME", "vocabtutor-words-index"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[WARN] Invalid value %q for %s, using default %d", value, key, fallback)
		return fallback
	}

	return parsed
}
