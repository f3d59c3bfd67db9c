package metrics

// Metrics defines the interface for collecting application metrics.
type Metrics interface {
	IncMatchesRecorded()
	IncMatchRejected(reason string)
	IncPlayersCreated()
	ObserveProcessingDuration(duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// MetricsStore keeps lifetime counters that survive restarts.
type MetricsStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}

// Keys used with MetricsStore.
const (
	KeyMatchesRecorded    = "matches_recorded"
	KeyMatchesRejected    = "matches_rejected"
	KeyPlayersCreated     = "players_created"
	KeySlackNotifSent     = "slack_notifications_sent"
	KeySlackNotifFailed   = "slack_notifications_failed"
	KeyLeaderboardQueries = "leaderboard_queries"
)
