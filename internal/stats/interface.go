package stats

// Service defines the reports available over recorded games.
type Service interface {
	GameStatistics(gameID int64) (*GameStats, error)
	PastGames(q PastGamesQuery) (*PastGamesPage, error)
	PlayerStatistics(playerID int64) (*PlayerStats, error)
	PlayerHistory(playerID int64, page int) (*HistoryPage, error)
	TopPlayers(limit int) ([]PlayerTotal, error)
	OpponentStatistics(opponentID, gameTypeID int64) (*OpponentStats, error)
}
