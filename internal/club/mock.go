package club

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MockStore is a mock implementation of the ClubStore interface for testing.
// It is safe for concurrent use. Without spies it behaves like a small in-memory store.
type MockStore struct {
	mu sync.Mutex

	Players map[string]Player
	Matches []Match

	// Spies for method calls
	GetAllPlayersFunc       func(ctx context.Context) ([]Player, error)
	GetPlayerFunc           func(ctx context.Context, id string) (*Player, error)
	GetPlayerByNameFunc     func(ctx context.Context, name string) (*Player, error)
	AddPlayerFunc           func(ctx context.Context, draft PlayerDraft) (Player, error)
	GetAllMatchesFunc       func(ctx context.Context) ([]Match, error)
	GetMatchesForPlayerFunc func(ctx context.Context, playerID string) ([]Match, error)
	GetMatchFunc            func(ctx context.Context, id string) (*Match, error)
	RecordMatchFunc         func(ctx context.Context, match Match, winnerUpdate, loserUpdate PlayerUpdate) (Match, error)
	ClearFunc               func(ctx context.Context) error

	// Call records
	AddPlayerCalls   []PlayerDraft
	RecordMatchCalls []struct {
		Match        Match
		WinnerUpdate PlayerUpdate
		LoserUpdate  PlayerUpdate
	}
}

// NewMock creates a new mock instance seeded with the given players.
func NewMock(players ...Player) *MockStore {
	m := &MockStore{Players: map[string]Player{}}
	for _, p := range players {
		m.Players[p.ID] = p
	}
	return m
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddPlayerCalls = nil
	m.RecordMatchCalls = nil
}

func (m *MockStore) GetAllPlayers(ctx context.Context) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc(ctx)
	}
	players := make([]Player, 0, len(m.Players))
	for _, p := range m.Players {
		players = append(players, p)
	}
	return players, nil
}

func (m *MockStore) GetPlayer(ctx context.Context, id string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(ctx, id)
	}
	p, ok := m.Players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return &p, nil
}

func (m *MockStore) GetPlayerByName(ctx context.Context, name string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerByNameFunc != nil {
		return m.GetPlayerByNameFunc(ctx, name)
	}
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, p := range m.Players {
		if needle != "" && strings.Contains(strings.ToLower(p.Name), needle) {
			return &p, nil
		}
	}
	return nil, ErrPlayerNotFound
}

func (m *MockStore) AddPlayer(ctx context.Context, draft PlayerDraft) (Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddPlayerCalls = append(m.AddPlayerCalls, draft)
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(ctx, draft)
	}
	p := draft.WithID(uuid.NewString())
	m.Players[p.ID] = p
	return p, nil
}

func (m *MockStore) GetAllMatches(ctx context.Context) ([]Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllMatchesFunc != nil {
		return m.GetAllMatchesFunc(ctx)
	}
	return append([]Match{}, m.Matches...), nil
}

func (m *MockStore) GetMatchesForPlayer(ctx context.Context, playerID string) ([]Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchesForPlayerFunc != nil {
		return m.GetMatchesForPlayerFunc(ctx, playerID)
	}
	matches := []Match{}
	for _, match := range m.Matches {
		if match.Player1ID == playerID || match.Player2ID == playerID {
			matches = append(matches, match)
		}
	}
	return matches, nil
}

func (m *MockStore) GetMatch(ctx context.Context, id string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(ctx, id)
	}
	for _, match := range m.Matches {
		if match.ID == id {
			return &match, nil
		}
	}
	return nil, ErrMatchNotFound
}

func (m *MockStore) RecordMatch(ctx context.Context, match Match, winnerUpdate, loserUpdate PlayerUpdate) (Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordMatchCalls = append(m.RecordMatchCalls, struct {
		Match        Match
		WinnerUpdate PlayerUpdate
		LoserUpdate  PlayerUpdate
	}{match, winnerUpdate, loserUpdate})
	if m.RecordMatchFunc != nil {
		return m.RecordMatchFunc(ctx, match, winnerUpdate, loserUpdate)
	}
	winner, ok := m.Players[match.WinnerID]
	if !ok {
		return Match{}, ErrPlayerNotFound
	}
	loser, ok := m.Players[match.LoserID]
	if !ok {
		return Match{}, ErrPlayerNotFound
	}
	match.ID = uuid.NewString()
	m.Players[winner.ID] = winnerUpdate.Apply(winner)
	m.Players[loser.ID] = loserUpdate.Apply(loser)
	m.Matches = append([]Match{match}, m.Matches...)
	return match, nil
}

func (m *MockStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	m.Players = map[string]Player{}
	m.Matches = nil
	return nil
}

var _ ClubStore = (*MockStore)(nil)
