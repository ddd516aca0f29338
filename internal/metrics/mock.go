package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	gamesCreated     int
	gamesEnded       int
	turnsRecorded    int
	turnsRejected    int
	roundsCompleted  int
	liveClients      int
	slackNotifSent   int
	slackNotifFailed int
	requestRoutes    []string
	startupTime      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) IncGamesCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gamesCreated++
}

func (m *Mock) IncGamesEnded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gamesEnded++
}

func (m *Mock) IncTurnsRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turnsRecorded++
}

func (m *Mock) IncTurnsRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turnsRejected++
}

func (m *Mock) IncRoundsCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundsCompleted++
}

func (m *Mock) SetLiveClients(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.liveClients = n
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) ObserveRequestDuration(route string, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestRoutes = append(m.requestRoutes, route)
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// GamesCreated returns the number of times IncGamesCreated was called.
func (m *Mock) GamesCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gamesCreated
}

// GamesEnded returns the number of times IncGamesEnded was called.
func (m *Mock) GamesEnded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gamesEnded
}

// TurnsRecorded returns the number of times IncTurnsRecorded was called.
func (m *Mock) TurnsRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turnsRecorded
}

// TurnsRejected returns the number of times IncTurnsRejected was called.
func (m *Mock) TurnsRejected() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turnsRejected
}

// RoundsCompleted returns the number of times IncRoundsCompleted was called.
func (m *Mock) RoundsCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roundsCompleted
}

// LiveClients returns the last value passed to SetLiveClients.
func (m *Mock) LiveClients() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liveClients
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// RequestRoutes returns the routes passed to ObserveRequestDuration.
func (m *Mock) RequestRoutes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requestRoutes...)
}
