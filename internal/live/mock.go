package live

import "sync"

// Mock records broadcasts instead of sending them.
type Mock struct {
	mu sync.Mutex

	BroadcastFunc  func(gameID int64, kind MessageType, payload any) error
	BroadcastCalls []Message
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Broadcast(gameID int64, kind MessageType, payload any) error {
	m.mu.Lock()
	m.BroadcastCalls = append(m.BroadcastCalls, Message{Type: kind, GameID: gameID, Payload: payload})
	m.mu.Unlock()
	if m.BroadcastFunc != nil {
		return m.BroadcastFunc(gameID, kind, payload)
	}
	return nil
}

// Calls returns a copy of the recorded broadcasts.
func (m *Mock) Calls() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.BroadcastCalls...)
}
