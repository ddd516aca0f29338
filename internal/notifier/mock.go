package notifier

import (
	"sync"

	"github.com/mauv0809/keiths-skittles/internal/stats"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendGameResultFunc func(st *stats.GameStats, dryRun bool) error

	// Call records
	SendGameResultCalls []struct {
		Stats  *stats.GameStats
		DryRun bool
	}
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
	m.SendGameResultCalls = nil
}

func (m *Mock) SendGameResult(st *stats.GameStats, dryRun bool) error {
	m.mu.Lock()
	m.SendGameResultCalls = append(m.SendGameResultCalls, struct {
		Stats  *stats.GameStats
		DryRun bool
	}{st, dryRun})
	m.mu.Unlock()
	if m.SendGameResultFunc != nil {
		return m.SendGameResultFunc(st, dryRun)
	}
	return nil
}

// Calls returns the number of SendGameResult calls.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SendGameResultCalls)
}
