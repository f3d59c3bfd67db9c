package http

import (
	"net/http"

	"github.com/mauv0809/pong-ladder/internal/cache"
	"github.com/mauv0809/pong-ladder/internal/club"
	"github.com/mauv0809/pong-ladder/internal/config"
	"github.com/mauv0809/pong-ladder/internal/http/handlers"
	"github.com/mauv0809/pong-ladder/internal/metrics"
	"github.com/mauv0809/pong-ladder/internal/notifier"
	"github.com/mauv0809/pong-ladder/internal/processor"
	"github.com/mauv0809/pong-ladder/internal/pubsub"
)

func NewServer(
	store club.ClubStore,
	metricsSvc metrics.Metrics,
	metricsHandler http.Handler,
	counters metrics.MetricsStore,
	cfg config.Config,
	notifier notifier.Notifier,
	processor *processor.Processor,
	leaderboardCache cache.LeaderboardCache,
	pubsub pubsub.PubSubClient,
) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Counters:       counters,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Cache:          leaderboardCache,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(handler, paramsMiddleware, authMiddleware)
	rules := s.Cfg.Rating
	verifySlack := slackVerifier(s.Cfg.Slack.SigningSecret)

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(handlers.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("GET /stats", Chain(handlers.StatsHandler(s.Counters), paramsMiddleware))
	s.Router.Handle("GET /players", Chain(handlers.ListPlayersHandler(s.Store), paramsMiddleware))
	s.Router.Handle("GET /players/{id}", Chain(handlers.PlayerProfileHandler(s.Store, rules), paramsMiddleware))
	s.Router.Handle("POST /clear", Chain(handlers.ClearStoreHandler(s.Store, s.Cache), paramsMiddleware))
	s.Router.Handle("GET /tiers", Chain(handlers.TiersHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches", Chain(handlers.ListMatchesHandler(s.Store), paramsMiddleware))
	s.Router.Handle("GET /matches/{id}", Chain(handlers.GetMatchHandler(s.Store), paramsMiddleware))
	s.Router.Handle("POST /matches", Chain(handlers.RecordMatchHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("GET /leaderboard", Chain(handlers.LeaderboardHandler(s.Store, s.Cache, s.Counters, rules.MinMatchesForRanking), paramsMiddleware))
	s.Router.Handle("POST /post-leaderboard", Chain(handlers.PostLeaderboardHandler(s.Store, s.Cache, s.Notifier, rules.MinMatchesForRanking), paramsMiddleware))
	s.Router.Handle("POST /notify-result", Chain(handlers.NotifyResultHandler(s.Processor, s.pubsub), paramsMiddleware))
	s.Router.Handle("POST /slack/command/leaderboard", Chain(handlers.LeaderboardCommandHandler(s.Store, s.Cache, s.Counters, s.Notifier, rules.MinMatchesForRanking), paramsMiddleware, verifySlack))
	s.Router.Handle("POST /slack/command/player-stats", Chain(handlers.PlayerStatsCommandHandler(s.Store, s.Notifier, rules), paramsMiddleware, verifySlack))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
