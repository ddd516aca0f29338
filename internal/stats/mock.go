package stats

// Mock is a mock implementation of the Service interface for testing.
type Mock struct {
	GameStatisticsFunc     func(gameID int64) (*GameStats, error)
	PastGamesFunc          func(q PastGamesQuery) (*PastGamesPage, error)
	PlayerStatisticsFunc   func(playerID int64) (*PlayerStats, error)
	PlayerHistoryFunc      func(playerID int64, page int) (*HistoryPage, error)
	TopPlayersFunc         func(limit int) ([]PlayerTotal, error)
	OpponentStatisticsFunc func(opponentID, gameTypeID int64) (*OpponentStats, error)
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) GameStatistics(gameID int64) (*GameStats, error) {
	if m.GameStatisticsFunc != nil {
		return m.GameStatisticsFunc(gameID)
	}
	return &GameStats{Result: ResultDraw}, nil
}

func (m *Mock) PastGames(q PastGamesQuery) (*PastGamesPage, error) {
	if m.PastGamesFunc != nil {
		return m.PastGamesFunc(q)
	}
	return &PastGamesPage{Page: Paginate(0, 5, 1)}, nil
}

func (m *Mock) PlayerStatistics(playerID int64) (*PlayerStats, error) {
	if m.PlayerStatisticsFunc != nil {
		return m.PlayerStatisticsFunc(playerID)
	}
	return &PlayerStats{}, nil
}

func (m *Mock) PlayerHistory(playerID int64, page int) (*HistoryPage, error) {
	if m.PlayerHistoryFunc != nil {
		return m.PlayerHistoryFunc(playerID, page)
	}
	return &HistoryPage{Page: Paginate(0, 5, page)}, nil
}

func (m *Mock) TopPlayers(limit int) ([]PlayerTotal, error) {
	if m.TopPlayersFunc != nil {
		return m.TopPlayersFunc(limit)
	}
	return nil, nil
}

func (m *Mock) OpponentStatistics(opponentID, gameTypeID int64) (*OpponentStats, error) {
	if m.OpponentStatisticsFunc != nil {
		return m.OpponentStatisticsFunc(opponentID, gameTypeID)
	}
	return nil, ErrNoGames
}
