package game

import "github.com/mauv0809/keiths-skittles/internal/scoring"

// Store defines the interface for interacting with games, players and scores.
type Store interface {
	CreateGame(in GameInput) (*Game, error)
	GetGame(id int64) (*Game, error)
	DeleteGame(id int64) error
	ListGames(filter GameFilter) ([]Game, error)
	SetCurrentRound(gameID int64, round int) error

	AddPlayer(name string) (*Player, error)
	GetPlayer(id int64) (*Player, error)
	GetOrCreatePlayer(name string) (*Player, error)
	// ListPlayers returns club players, leaving out mirrored opponents.
	ListPlayers() ([]Player, error)

	AddLookup(kind LookupKind, name string) (*Lookup, error)
	GetLookup(kind LookupKind, id int64) (*Lookup, error)
	ListLookups(kind LookupKind) ([]Lookup, error)

	// AssignRound puts the given players on the own team for a round, creates
	// their mirrored opponents and records which team throws first.
	AssignRound(gameID int64, round int, playerIDs []int64, teamFirst scoring.Team) error
	RoundPlayers(gameID int64, round int) ([]GamePlayer, error)
	GamePlayers(gameID int64) ([]GamePlayer, error)
	RoundTeamFirst(gameID int64, round int) (scoring.Team, error)
	HasOwnPlayers(gameID int64, round int) (bool, error)
	LatestRound(gameID int64) (int, error)

	AddScore(score *Score) error
	CountScores(gameID int64, round int) (int, error)
	RoundScores(gameID int64, round int) ([]Score, error)
	GameScores(gameID int64) ([]Score, error)
}
