package http

import (
	"net/http"

	"github.com/mauv0809/pong-ladder/internal/cache"
	"github.com/mauv0809/pong-ladder/internal/club"
	"github.com/mauv0809/pong-ladder/internal/config"
	"github.com/mauv0809/pong-ladder/internal/metrics"
	"github.com/mauv0809/pong-ladder/internal/notifier"
	"github.com/mauv0809/pong-ladder/internal/processor"
	"github.com/mauv0809/pong-ladder/internal/pubsub"
)

type Server struct {
	Store          club.ClubStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Counters       metrics.MetricsStore
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Cache          cache.LeaderboardCache
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
