package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Database      DatabaseConfig
	Slack         SlackConfig
	ProjectID     string
	Redis         RedisConfig
	Rating        RatingConfig
}

// DatabaseConfig points at a remote database. An empty PrimaryURL means a local SQLite file.
type DatabaseConfig struct {
	PrimaryURL string
	AuthToken  string
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

type RedisConfig struct {
	URL      string
	CacheTTL time.Duration
}

// RatingConfig holds the ladder's rating rules.
type RatingConfig struct {
	StartingElo          int
	KFactor              int
	MinMatchesForRanking int
}
