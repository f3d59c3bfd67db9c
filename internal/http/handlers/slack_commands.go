package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pong-ladder/internal/cache"
	"github.com/mauv0809/pong-ladder/internal/club"
	"github.com/mauv0809/pong-ladder/internal/config"
	"github.com/mauv0809/pong-ladder/internal/metrics"
	"github.com/mauv0809/pong-ladder/internal/notifier"
	"github.com/mauv0809/pong-ladder/internal/stats"
)

func LeaderboardCommandHandler(store club.ClubStore, lc cache.LeaderboardCache, counters metrics.MetricsStore, notifier notifier.Notifier, minMatches int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := loadLeaderboard(r.Context(), store, lc, minMatches)
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to build leaderboard", "error", err)
			return
		}
		counters.Increment(metrics.KeyLeaderboardQueries)

		msg, err := notifier.FormatLeaderboardResponse(entries)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// PlayerStatsCommandHandler answers /player-stats <name>. Unknown names get a reply suggesting similar players.
func PlayerStatsCommandHandler(store club.ClubStore, notifier notifier.Notifier, rules config.RatingConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		playerName := strings.TrimSpace(r.FormValue("text"))
		if playerName == "" {
			http.Error(w, "Player name is required.", http.StatusBadRequest)
			return
		}
		log.Info("Received player stats command", "player", playerName)

		ctx := r.Context()
		players, err := store.GetAllPlayers(ctx)
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}

		var msg any
		player, err := store.GetPlayerByName(ctx, playerName)
		switch {
		case errors.Is(err, club.ErrPlayerNotFound):
			log.Warn("Could not find player", "player", playerName)
			msg, err = notifier.FormatPlayerNotFoundResponse(playerName, club.SuggestPlayers(players, playerName))
		case err != nil:
			http.Error(w, "Failed to get player", http.StatusInternalServerError)
			log.Error("Failed to look up player", "player", playerName, "error", err)
			return
		default:
			var matches []club.Match
			matches, err = store.GetMatchesForPlayer(ctx, player.ID)
			if err != nil {
				http.Error(w, "Failed to get matches", http.StatusInternalServerError)
				log.Error("Failed to get matches for player", "player_id", player.ID, "error", err)
				return
			}
			profile := stats.BuildProfile(*player, matches, players, rules.StartingElo, rules.MinMatchesForRanking)
			msg, err = notifier.FormatPlayerStatsResponse(profile)
		}
		if err != nil {
			http.Error(w, "Failed to format player stats", http.StatusInternalServerError)
			log.Error("Failed to format player stats", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}
