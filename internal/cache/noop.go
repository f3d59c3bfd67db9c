package cache

import (
	"context"

	"github.com/mauv0809/pong-ladder/internal/stats"
)

// Noop is used when no Redis server is configured. It never holds anything.
type Noop struct{}

var _ LeaderboardCache = Noop{}

func (Noop) Get(context.Context) ([]stats.LeaderboardEntry, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, []stats.LeaderboardEntry) error         { return nil }
func (Noop) Invalidate(context.Context) error                           { return nil }
func (Noop) Close() error                                               { return nil }
