package handlers

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pong-ladder/internal/cache"
	"github.com/mauv0809/pong-ladder/internal/club"
	"github.com/mauv0809/pong-ladder/internal/metrics"
)

func HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// StatsHandler returns the lifetime counters kept in the database.
// Unlike the Prometheus metrics these survive restarts.
func StatsHandler(counters metrics.MetricsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, err := counters.GetAll()
		if err != nil {
			http.Error(w, "Failed to get stats", http.StatusInternalServerError)
			log.Error("Failed to get counters from store", "error", err)
			return
		}
		respondJSON(w, http.StatusOK, values)
	}
}

// ClearStoreHandler wipes every player and match. Honours dry_run.
func ClearStoreHandler(store club.ClubStore, lc cache.LeaderboardCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if IsDryRunFromContext(r) {
			log.Info("[Dry Run] Would clear the store")
			fmt.Fprint(w, "Dry run: store not cleared")
			return
		}
		log.Info("Received request to clear entire store")
		if err := store.Clear(r.Context()); err != nil {
			http.Error(w, "Failed to clear store", http.StatusInternalServerError)
			log.Error("Failed to clear store", "error", err)
			return
		}
		if err := lc.Invalidate(r.Context()); err != nil {
			log.Warn("Failed to invalidate leaderboard cache", "error", err)
		}
		fmt.Fprint(w, "Store cleared!")
		log.Info("Store cleared successfully")
	}
}
