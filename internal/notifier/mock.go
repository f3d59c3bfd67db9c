package notifier

import (
	"sync"

	"github.com/mauv0809/pong-ladder/internal/club"
	"github.com/mauv0809/pong-ladder/internal/stats"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendMatchResultFunc func(result *club.MatchResult, dryRun bool) error

	// Call records
	SendMatchResultCalls []struct {
		Result *club.MatchResult
		DryRun bool
	}
	SendLeaderboardCalls [][]stats.LeaderboardEntry
	PlayerNotFoundCalls  []string

	// Last formatted responses
	LastLeaderboardResponse []stats.LeaderboardEntry
	LastPlayerStatsResponse *stats.PlayerProfile
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = nil
	m.SendLeaderboardCalls = nil
	m.PlayerNotFoundCalls = nil
	m.LastLeaderboardResponse = nil
	m.LastPlayerStatsResponse = nil
}

func (m *Mock) SendMatchResult(result *club.MatchResult, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, struct {
		Result *club.MatchResult
		DryRun bool
	}{result, dryRun})
	if m.SendMatchResultFunc != nil {
		return m.SendMatchResultFunc(result, dryRun)
	}
	return nil
}

func (m *Mock) SendLeaderboard(entries []stats.LeaderboardEntry, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, entries)
	return nil
}

func (m *Mock) FormatLeaderboardResponse(entries []stats.LeaderboardEntry) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastLeaderboardResponse = entries
	return map[string]any{"text": "formatted_leaderboard"}, nil
}

func (m *Mock) FormatPlayerStatsResponse(profile stats.PlayerProfile) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastPlayerStatsResponse = &profile
	return map[string]any{"text": "formatted_player_stats"}, nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string, suggestions []club.PlayerSuggestion) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlayerNotFoundCalls = append(m.PlayerNotFoundCalls, query)
	return map[string]any{"text": "formatted_player_not_found"}, nil
}
