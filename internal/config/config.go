package config

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	return Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: getEnvDefault("MIGRATIONS_DIR", "./migrations"),
		Port:          getEnv("PORT"),
		Database: DatabaseConfig{
			PrimaryURL: getEnvDefault("DATABASE_URL", ""),
			AuthToken:  getEnvDefault("TURSO_AUTH_TOKEN", ""),
		},
		Slack: SlackConfig{
			Token:         getEnvDefault("SLACK_BOT_TOKEN", ""),
			ChannelID:     getEnvDefault("SLACK_CHANNEL_ID", ""),
			SigningSecret: getEnvDefault("SLACK_SIGNING_SECRET", ""),
		},
		ProjectID: getEnvDefault("GCP_PROJECT", ""),
		Redis: RedisConfig{
			URL:      getEnvDefault("REDIS_URL", ""),
			CacheTTL: getDurationDefault("LEADERBOARD_CACHE_TTL", 5*time.Minute),
		},
		Rating: RatingConfig{
			StartingElo:          getIntDefault("STARTING_ELO", 1200),
			KFactor:              getIntDefault("K_FACTOR", 32),
			MinMatchesForRanking: getIntDefault("MIN_MATCHES_FOR_RANKING", 5),
		},
	}
}

func getEnvDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getIntDefault(key string, fallback int) int {
	raw := getEnvDefault(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn("Invalid integer in environment, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return n
}

func getDurationDefault(key string, fallback time.Duration) time.Duration {
	raw := getEnvDefault(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Warn("Invalid duration in environment, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return d
}
