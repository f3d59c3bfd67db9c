package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/pong-ladder/internal/cache"
	"github.com/mauv0809/pong-ladder/internal/clock"
	"github.com/mauv0809/pong-ladder/internal/club"
	"github.com/mauv0809/pong-ladder/internal/config"
	"github.com/mauv0809/pong-ladder/internal/match"
	"github.com/mauv0809/pong-ladder/internal/metrics"
	"github.com/mauv0809/pong-ladder/internal/pubsub"
	"github.com/mauv0809/pong-ladder/internal/rating"
)

// New creates a new Processor.
func New(store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient, opts ...Option) *Processor {
	p := &Processor{
		store:    store,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
		cache:    cache.Noop{},
		clock:    clock.New(),
		rating: config.RatingConfig{
			StartingElo:          rating.StartingElo,
			KFactor:              rating.DefaultKFactor,
			MinMatchesForRanking: rating.MinimumMatchesForRanking,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.orchestrator = match.NewOrchestrator(p.clock, p.rating.StartingElo)
	return p
}

// RecordMatch validates a submitted match, registers new players, applies the rating changes
// and stores the result. In dry-run mode nothing is written and new players get temporary ids.
func (p *Processor) RecordMatch(ctx context.Context, input match.CreationInput, dryRun bool) (*club.MatchResult, error) {
	start := time.Now()
	defer func() {
		p.metrics.ObserveProcessingDuration(time.Since(start).Seconds())
	}()

	result, err := p.recordMatch(ctx, input, dryRun)
	if err != nil {
		reason := match.Reason(err)
		p.metrics.IncMatchRejected(reason)
		p.increment(metrics.KeyMatchesRejected)
		if reason != "" {
			log.Info("Match rejected", "reason", reason, "error", err)
		} else {
			log.Error("Failed to record match", "error", err)
		}
		return nil, err
	}
	return result, nil
}

func (p *Processor) recordMatch(ctx context.Context, input match.CreationInput, dryRun bool) (*club.MatchResult, error) {
	players, err := p.store.GetAllPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}

	result, err := p.orchestrator.ProcessMatchCreation(ctx, input, players, p.createPlayerFunc(dryRun))
	if err != nil {
		return nil, err
	}

	elo := rating.CalculateEloChanges(result.Winner.EloRating, result.Loser.EloRating, p.rating.KFactor)
	now := p.clock.Now()
	winnerUpdate := rating.CalculatePlayerUpdates(result.Winner, true, elo.WinnerNewRating, now)
	loserUpdate := rating.CalculatePlayerUpdates(result.Loser, false, elo.LoserNewRating, now)

	result.Match.EloChanges[result.Winner.ID] = elo.WinnerChange
	result.Match.EloChanges[result.Loser.ID] = elo.LoserChange
	result.Winner = winnerUpdate.Apply(result.Winner)
	result.Loser = loserUpdate.Apply(result.Loser)

	if dryRun {
		result.Match.ID = "dry-run-" + uuid.NewString()
		log.Info("[Dry Run] Would record match", "matchID", result.Match.ID, "winner", result.Winner.Name, "loser", result.Loser.Name, "elo", elo)
		return result, nil
	}

	stored, err := p.store.RecordMatch(ctx, result.Match, winnerUpdate, loserUpdate)
	if err != nil {
		return nil, err
	}
	result.Match = stored
	log.Info("Recorded match", "matchID", result.Match.ID, "winner", result.Winner.Name, "loser", result.Loser.Name,
		"winner_change", elo.WinnerChange, "loser_change", elo.LoserChange)

	if err := p.cache.Invalidate(ctx); err != nil {
		log.Warn("Failed to invalidate leaderboard cache", "error", err)
	}
	if err := p.pubsub.SendMessage(pubsub.EventMatchRecorded, result); err != nil {
		log.Error("Failed to publish match recorded event", "error", err, "matchID", result.Match.ID)
	}
	p.metrics.IncMatchesRecorded()
	p.increment(metrics.KeyMatchesRecorded)

	return result, nil
}

// createPlayerFunc returns the function used to register players mentioned by name.
func (p *Processor) createPlayerFunc(dryRun bool) match.CreatePlayerFunc {
	return func(ctx context.Context, draft club.PlayerDraft) (club.Player, error) {
		if dryRun {
			player := draft.WithID("dry-run-" + uuid.NewString())
			log.Info("[Dry Run] Would register player", "name", player.Name)
			return player, nil
		}

		player, err := p.store.AddPlayer(ctx, draft)
		if err != nil {
			return club.Player{}, err
		}
		p.metrics.IncPlayersCreated()
		p.increment(metrics.KeyPlayersCreated)
		if err := p.pubsub.SendMessage(pubsub.EventPlayerCreated, player); err != nil {
			log.Error("Failed to publish player created event", "error", err, "playerID", player.ID)
		}
		return player, nil
	}
}

// NotifyResult posts a recorded match to Slack.
func (p *Processor) NotifyResult(result *club.MatchResult, dryRun bool) error {
	log.Info("Sending result notification", "matchID", result.Match.ID)
	if err := p.notifier.SendMatchResult(result, dryRun); err != nil {
		p.increment(metrics.KeySlackNotifFailed)
		return fmt.Errorf("failed to send result notification: %w", err)
	}
	if !dryRun {
		p.increment(metrics.KeySlackNotifSent)
	}
	return nil
}

func (p *Processor) increment(key string) {
	if p.counters != nil {
		p.counters.Increment(key)
	}
}
