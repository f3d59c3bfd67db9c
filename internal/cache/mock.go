package cache

import (
	"context"
	"sync"

	"github.com/mauv0809/pong-ladder/internal/stats"
)

// Mock is an in-memory LeaderboardCache for testing.
// It is safe for concurrent use.
type Mock struct {
	mu      sync.Mutex
	entries []stats.LeaderboardEntry
	present bool

	InvalidateFunc func(ctx context.Context) error

	GetCalls        int
	SetCalls        int
	InvalidateCalls int
}

var _ LeaderboardCache = (*Mock)(nil)

// NewMock creates an empty Mock.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Get(ctx context.Context) ([]stats.LeaderboardEntry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	return m.entries, m.present, nil
}

func (m *Mock) Set(ctx context.Context, entries []stats.LeaderboardEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	m.entries, m.present = entries, true
	return nil
}

func (m *Mock) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InvalidateCalls++
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx)
	}
	m.entries, m.present = nil, false
	return nil
}

func (m *Mock) Close() error {
	return nil
}
