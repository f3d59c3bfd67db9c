package notifier

import (
	"github.com/mauv0809/pong-ladder/internal/club"
	"github.com/mauv0809/pong-ladder/internal/stats"
)

// Notifier defines a high-level interface for sending notifications about ladder events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For recorded matches
	SendMatchResult(result *club.MatchResult, dryRun bool) error
	// For slash commands
	SendLeaderboard(entries []stats.LeaderboardEntry, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(entries []stats.LeaderboardEntry) (any, error)
	FormatPlayerStatsResponse(profile stats.PlayerProfile) (any, error)
	FormatPlayerNotFoundResponse(query string, suggestions []club.PlayerSuggestion) (any, error)
}
