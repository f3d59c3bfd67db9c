package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pong-ladder/internal/cache"
	"github.com/mauv0809/pong-ladder/internal/club"
	"github.com/mauv0809/pong-ladder/internal/stats"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
)

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

// respondJSON writes v as a JSON body with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// respondWithSlackMsg writes a formatted Slack response. The notifier decides the payload shape.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	respondJSON(w, http.StatusOK, msg)
}

// loadLeaderboard serves the leaderboard from cache when possible and fills the cache on a miss.
// Cache failures are logged and never fail the request.
func loadLeaderboard(ctx context.Context, store club.ClubStore, lc cache.LeaderboardCache, minMatches int) ([]stats.LeaderboardEntry, error) {
	entries, ok, err := lc.Get(ctx)
	if err != nil {
		log.Warn("Failed to read leaderboard cache", "error", err)
	}
	if ok {
		log.Debug("Leaderboard served from cache", "entries", len(entries))
		return entries, nil
	}

	players, err := store.GetAllPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}
	entries = stats.CreateLeaderboardEntries(players, minMatches)
	if err := lc.Set(ctx, entries); err != nil {
		log.Warn("Failed to cache leaderboard", "error", err)
	}
	return entries, nil
}
