package metrics

import (
	"database/sql"
	"sync"

	"github.com/mauv0809/pong-ladder/internal/database"
	"github.com/prometheus/client_golang/prometheus"
)

// Service holds all the Prometheus metrics for the application.
type Service struct {
	MatchesRecorded    prometheus.Counter
	MatchRejections    *prometheus.CounterVec
	PlayersCreated     prometheus.Counter
	ProcessingDuration prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}

// store handles metric-related database operations.
type store struct {
	db      *sql.DB
	dialect database.Dialect
	mu      sync.Mutex
}
