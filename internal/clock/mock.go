package clock

import (
	"sync"
	"time"
)

var _ Clock = (*Mock)(nil)

// Mock is a settable Clock for tests. It is safe for concurrent use.
type Mock struct {
	mu      sync.Mutex
	current time.Time
}

// NewMock creates a Mock frozen at t.
func NewMock(t time.Time) *Mock {
	return &Mock{current: t}
}

func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Advance moves the clock forward by d.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}

// Set moves the clock to t.
func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = t
}
