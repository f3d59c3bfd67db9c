package processor

import (
	"github.com/mauv0809/pong-ladder/internal/cache"
	"github.com/mauv0809/pong-ladder/internal/clock"
	"github.com/mauv0809/pong-ladder/internal/config"
	"github.com/mauv0809/pong-ladder/internal/match"
	"github.com/mauv0809/pong-ladder/internal/metrics"
	"github.com/mauv0809/pong-ladder/internal/pubsub"
)

// Processor handles the business logic of recording matches.
type Processor struct {
	store        Store
	pubsub       pubsub.PubSubClient
	notifier     Notifier
	metrics      metrics.Metrics
	counters     metrics.MetricsStore
	cache        cache.LeaderboardCache
	clock        clock.Clock
	orchestrator *match.Orchestrator
	rating       config.RatingConfig
}

// Option configures optional Processor dependencies.
type Option func(*Processor)

// WithCache invalidates the given leaderboard cache after each recorded match.
func WithCache(c cache.LeaderboardCache) Option {
	return func(p *Processor) { p.cache = c }
}

// WithCounters records lifetime counters in the given store.
func WithCounters(s metrics.MetricsStore) Option {
	return func(p *Processor) { p.counters = s }
}

// WithClock replaces the system clock.
func WithClock(c clock.Clock) Option {
	return func(p *Processor) { p.clock = c }
}

// WithRating overrides the default rating rules.
func WithRating(r config.RatingConfig) Option {
	return func(p *Processor) { p.rating = r }
}
