package game

import (
	"sync"

	"github.com/mauv0809/keiths-skittles/internal/scoring"
)

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use. Unset funcs return zero values.
type MockStore struct {
	mu sync.Mutex

	CreateGameFunc        func(in GameInput) (*Game, error)
	GetGameFunc           func(id int64) (*Game, error)
	DeleteGameFunc        func(id int64) error
	ListGamesFunc         func(filter GameFilter) ([]Game, error)
	SetCurrentRoundFunc   func(gameID int64, round int) error
	AddPlayerFunc         func(name string) (*Player, error)
	GetPlayerFunc         func(id int64) (*Player, error)
	GetOrCreatePlayerFunc func(name string) (*Player, error)
	ListPlayersFunc       func() ([]Player, error)
	AddLookupFunc         func(kind LookupKind, name string) (*Lookup, error)
	GetLookupFunc         func(kind LookupKind, id int64) (*Lookup, error)
	ListLookupsFunc       func(kind LookupKind) ([]Lookup, error)
	AssignRoundFunc       func(gameID int64, round int, playerIDs []int64, teamFirst scoring.Team) error
	RoundPlayersFunc      func(gameID int64, round int) ([]GamePlayer, error)
	GamePlayersFunc       func(gameID int64) ([]GamePlayer, error)
	RoundTeamFirstFunc    func(gameID int64, round int) (scoring.Team, error)
	HasOwnPlayersFunc     func(gameID int64, round int) (bool, error)
	LatestRoundFunc       func(gameID int64) (int, error)
	AddScoreFunc          func(score *Score) error
	CountScoresFunc       func(gameID int64, round int) (int, error)
	RoundScoresFunc       func(gameID int64, round int) ([]Score, error)
	GameScoresFunc        func(gameID int64) ([]Score, error)

	// Call records
	AddScoreCalls    []Score
	DeleteGameCalls  []int64
	AssignRoundCalls []struct {
		GameID    int64
		Round     int
		PlayerIDs []int64
		TeamFirst scoring.Team
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddScoreCalls = nil
	m.DeleteGameCalls = nil
	m.AssignRoundCalls = nil
}

func (m *MockStore) CreateGame(in GameInput) (*Game, error) {
	if m.CreateGameFunc != nil {
		return m.CreateGameFunc(in)
	}
	return &Game{}, nil
}

func (m *MockStore) GetGame(id int64) (*Game, error) {
	if m.GetGameFunc != nil {
		return m.GetGameFunc(id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) DeleteGame(id int64) error {
	m.mu.Lock()
	m.DeleteGameCalls = append(m.DeleteGameCalls, id)
	m.mu.Unlock()
	if m.DeleteGameFunc != nil {
		return m.DeleteGameFunc(id)
	}
	return nil
}

func (m *MockStore) ListGames(filter GameFilter) ([]Game, error) {
	if m.ListGamesFunc != nil {
		return m.ListGamesFunc(filter)
	}
	return nil, nil
}

func (m *MockStore) SetCurrentRound(gameID int64, round int) error {
	if m.SetCurrentRoundFunc != nil {
		return m.SetCurrentRoundFunc(gameID, round)
	}
	return nil
}

func (m *MockStore) AddPlayer(name string) (*Player, error) {
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(name)
	}
	return &Player{Name: name}, nil
}

func (m *MockStore) GetPlayer(id int64) (*Player, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) GetOrCreatePlayer(name string) (*Player, error) {
	if m.GetOrCreatePlayerFunc != nil {
		return m.GetOrCreatePlayerFunc(name)
	}
	return &Player{Name: name}, nil
}

func (m *MockStore) ListPlayers() ([]Player, error) {
	if m.ListPlayersFunc != nil {
		return m.ListPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) AddLookup(kind LookupKind, name string) (*Lookup, error) {
	if m.AddLookupFunc != nil {
		return m.AddLookupFunc(kind, name)
	}
	return &Lookup{Name: name}, nil
}

func (m *MockStore) GetLookup(kind LookupKind, id int64) (*Lookup, error) {
	if m.GetLookupFunc != nil {
		return m.GetLookupFunc(kind, id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) ListLookups(kind LookupKind) ([]Lookup, error) {
	if m.ListLookupsFunc != nil {
		return m.ListLookupsFunc(kind)
	}
	return nil, nil
}

func (m *MockStore) AssignRound(gameID int64, round int, playerIDs []int64, teamFirst scoring.Team) error {
	m.mu.Lock()
	m.AssignRoundCalls = append(m.AssignRoundCalls, struct {
		GameID    int64
		Round     int
		PlayerIDs []int64
		TeamFirst scoring.Team
	}{gameID, round, playerIDs, teamFirst})
	m.mu.Unlock()
	if m.AssignRoundFunc != nil {
		return m.AssignRoundFunc(gameID, round, playerIDs, teamFirst)
	}
	return nil
}

func (m *MockStore) RoundPlayers(gameID int64, round int) ([]GamePlayer, error) {
	if m.RoundPlayersFunc != nil {
		return m.RoundPlayersFunc(gameID, round)
	}
	return nil, nil
}

func (m *MockStore) GamePlayers(gameID int64) ([]GamePlayer, error) {
	if m.GamePlayersFunc != nil {
		return m.GamePlayersFunc(gameID)
	}
	return nil, nil
}

func (m *MockStore) RoundTeamFirst(gameID int64, round int) (scoring.Team, error) {
	if m.RoundTeamFirstFunc != nil {
		return m.RoundTeamFirstFunc(gameID, round)
	}
	return scoring.TeamOwn, nil
}

func (m *MockStore) HasOwnPlayers(gameID int64, round int) (bool, error) {
	if m.HasOwnPlayersFunc != nil {
		return m.HasOwnPlayersFunc(gameID, round)
	}
	return false, nil
}

func (m *MockStore) LatestRound(gameID int64) (int, error) {
	if m.LatestRoundFunc != nil {
		return m.LatestRoundFunc(gameID)
	}
	return 0, nil
}

func (m *MockStore) AddScore(score *Score) error {
	m.mu.Lock()
	m.AddScoreCalls = append(m.AddScoreCalls, *score)
	m.mu.Unlock()
	if m.AddScoreFunc != nil {
		return m.AddScoreFunc(score)
	}
	return nil
}

func (m *MockStore) CountScores(gameID int64, round int) (int, error) {
	if m.CountScoresFunc != nil {
		return m.CountScoresFunc(gameID, round)
	}
	return 0, nil
}

func (m *MockStore) RoundScores(gameID int64, round int) ([]Score, error) {
	if m.RoundScoresFunc != nil {
		return m.RoundScoresFunc(gameID, round)
	}
	return nil, nil
}

func (m *MockStore) GameScores(gameID int64) ([]Score, error) {
	if m.GameScoresFunc != nil {
		return m.GameScoresFunc(gameID)
	}
	return nil, nil
}
