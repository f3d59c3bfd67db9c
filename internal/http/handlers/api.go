package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pong-ladder/internal/cache"
	"github.com/mauv0809/pong-ladder/internal/club"
	"github.com/mauv0809/pong-ladder/internal/config"
	"github.com/mauv0809/pong-ladder/internal/match"
	"github.com/mauv0809/pong-ladder/internal/metrics"
	"github.com/mauv0809/pong-ladder/internal/rating"
	"github.com/mauv0809/pong-ladder/internal/stats"
	"golang.org/x/sync/errgroup"
)

// MatchRecorder records a submitted match.
type MatchRecorder interface {
	RecordMatch(ctx context.Context, input match.CreationInput, dryRun bool) (*club.MatchResult, error)
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func ListPlayersHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := store.GetAllPlayers(r.Context())
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}
		respondJSON(w, http.StatusOK, players)
	}
}

// PlayerProfileHandler serves the full profile of the player named by the {id} path segment.
func PlayerProfileHandler(store club.ClubStore, rules config.RatingConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		var (
			player  *club.Player
			matches []club.Match
			players []club.Player
		)
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() (err error) {
			player, err = store.GetPlayer(ctx, id)
			return err
		})
		g.Go(func() (err error) {
			matches, err = store.GetMatchesForPlayer(ctx, id)
			return err
		})
		g.Go(func() (err error) {
			players, err = store.GetAllPlayers(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			if errors.Is(err, club.ErrPlayerNotFound) {
				http.Error(w, "Player not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to get player profile", http.StatusInternalServerError)
			log.Error("Failed to load player profile", "player_id", id, "error", err)
			return
		}

		profile := stats.BuildProfile(*player, matches, players, rules.StartingElo, rules.MinMatchesForRanking)
		respondJSON(w, http.StatusOK, profile)
	}
}

func GetMatchHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		m, err := store.GetMatch(r.Context(), id)
		if errors.Is(err, club.ErrMatchNotFound) {
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to get match", http.StatusInternalServerError)
			log.Error("Failed to get match from store", "match_id", id, "error", err)
			return
		}
		respondJSON(w, http.StatusOK, m)
	}
}

func ListMatchesHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			matches []club.Match
			err     error
		)
		if playerID := r.URL.Query().Get("player"); playerID != "" {
			matches, err = store.GetMatchesForPlayer(r.Context(), playerID)
		} else {
			matches, err = store.GetAllMatches(r.Context())
		}
		if err != nil {
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			log.Error("Failed to get matches from store", "error", err)
			return
		}
		respondJSON(w, http.StatusOK, matches)
	}
}

// RecordMatchHandler records a match submitted as JSON.
// Rejected submissions get a 422 naming the reason; any other failure is a 500.
func RecordMatchHandler(recorder MatchRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input match.CreationInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			log.Warn("Failed to decode match submission", "error", err)
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}

		isDryRun := IsDryRunFromContext(r)
		result, err := recorder.RecordMatch(r.Context(), input, isDryRun)
		// The recorder logs the failure.
		if err != nil {
			if reason := match.Reason(err); reason != "" {
				respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Reason: reason})
				return
			}
			respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to record match"})
			return
		}

		status := http.StatusCreated
		if isDryRun {
			status = http.StatusOK
		}
		respondJSON(w, status, result)
	}
}

// TiersHandler lists the rating tiers from highest to lowest.
func TiersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, rating.Tiers())
	}
}

func LeaderboardHandler(store club.ClubStore, lc cache.LeaderboardCache, counters metrics.MetricsStore, minMatches int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := loadLeaderboard(r.Context(), store, lc, minMatches)
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to build leaderboard", "error", err)
			return
		}
		counters.Increment(metrics.KeyLeaderboardQueries)
		respondJSON(w, http.StatusOK, entries)
	}
}
