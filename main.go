package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/pong-ladder/internal/cache"
	"github.com/mauv0809/pong-ladder/internal/club"
	"github.com/mauv0809/pong-ladder/internal/config"
	"github.com/mauv0809/pong-ladder/internal/database"
	server "github.com/mauv0809/pong-ladder/internal/http"
	"github.com/mauv0809/pong-ladder/internal/metrics"
	"github.com/mauv0809/pong-ladder/internal/notifier/slack"
	"github.com/mauv0809/pong-ladder/internal/processor"
	"github.com/mauv0809/pong-ladder/internal/pubsub"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Database.PrimaryURL, cfg.Database.AuthToken, cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	log.Info("Database initialization time recorded", "duration_ms", time.Since(startTime).Milliseconds())
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()
	dialect := database.DetectDialect(cfg.Database.PrimaryURL)

	clubStore := club.New(db, dialect)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	counters := metrics.New(db, dialect)
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	pubsub := pubsub.New(cfg.ProjectID)
	defer pubsub.Close()

	// Leaderboard cache is optional
	var leaderboardCache cache.LeaderboardCache = cache.Noop{}
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedis(cfg.Redis.URL, cfg.Redis.CacheTTL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %s", err)
		}
		leaderboardCache = redisCache
		log.Info("Leaderboard cache enabled", "ttl", cfg.Redis.CacheTTL)
	}
	defer leaderboardCache.Close()

	processor := processor.New(clubStore, notifier, metricsSvc, pubsub,
		processor.WithCache(leaderboardCache),
		processor.WithCounters(counters),
		processor.WithRating(cfg.Rating),
	)

	s := server.NewServer(
		clubStore,
		metricsSvc,
		metricsHandler,
		counters,
		cfg,
		notifier,
		processor,
		leaderboardCache,
		pubsub,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
