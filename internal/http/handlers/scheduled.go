package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pong-ladder/internal/cache"
	"github.com/mauv0809/pong-ladder/internal/club"
	"github.com/mauv0809/pong-ladder/internal/notifier"
)

// PostLeaderboardHandler posts the current leaderboard to the Slack channel.
// It is meant to be triggered on a schedule, e.g. every Monday morning.
func PostLeaderboardHandler(store club.ClubStore, lc cache.LeaderboardCache, notifier notifier.Notifier, minMatches int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := loadLeaderboard(r.Context(), store, lc, minMatches)
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to build leaderboard", "error", err)
			return
		}

		isDryRun := IsDryRunFromContext(r)
		if err := notifier.SendLeaderboard(entries, isDryRun); err != nil {
			http.Error(w, "Failed to post leaderboard", http.StatusInternalServerError)
			log.Error("Failed to post leaderboard", "error", err)
			return
		}
		log.Info("Posted leaderboard", "entries", len(entries), "dry_run", isDryRun)
		w.Write([]byte("OK"))
	}
}
