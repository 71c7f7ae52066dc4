package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Addr                  string
	DatabasePath          string
	SimilarityThreshold   float64
	SimilarityLimit       int
	RatingCacheTTLSeconds int
	LogLevel              string
}

func Default() Config {
	return Config{
		Addr:                  ":8080",
		DatabasePath:          "truthordare.db",
		SimilarityThreshold:   0.7,
		SimilarityLimit:       5,
		RatingCacheTTLSeconds: 60,
		LogLevel:              "info",
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("ADDR"); raw != "" {
		cfg.Addr = raw
	}
	if raw := os.Getenv("DATABASE_PATH"); raw != "" {
		cfg.DatabasePath = raw
	}
	if raw := os.Getenv("SIMILARITY_THRESHOLD"); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil && value > 0 && value <= 1 {
			cfg.SimilarityThreshold = value
		}
	}
	if raw := os.Getenv("SIMILARITY_LIMIT"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.SimilarityLimit = value
		}
	}
	if raw := os.Getenv("RATING_CACHE_TTL_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.RatingCacheTTLSeconds = value
		}
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		cfg.LogLevel = raw
	}
	return cfg
}
