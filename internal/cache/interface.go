package cache

import (
	"context"

	"github.com/mauv0809/pong-ladder/internal/stats"
)

// LeaderboardCache holds the computed leaderboard between match recordings.
type LeaderboardCache interface {
	// Get returns the cached leaderboard and whether there was one.
	Get(ctx context.Context) ([]stats.LeaderboardEntry, bool, error)
	Set(ctx context.Context, entries []stats.LeaderboardEntry) error
	Invalidate(ctx context.Context) error
	Close() error
}
