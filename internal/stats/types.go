package stats

import (
	"database/sql"
	"errors"
	"time"

	"github.com/mauv0809/keiths-skittles/internal/game"
)

// ErrNoGames is returned when a report has no games to aggregate.
var ErrNoGames = errors.New("no games found matching the selected criteria")

// service computes reports from the game store and direct aggregate queries.
type service struct {
	db      *sql.DB
	games   game.Store
	perPage int
}

// Result is the outcome of a game from the own team's point of view.
type Result string

const (
	ResultWin  Result = "Win"
	ResultLoss Result = "Loss"
	ResultDraw Result = "Draw"
)

// ResultOf compares the two team totals.
func ResultOf(own, opp int) Result {
	switch {
	case own > opp:
		return ResultWin
	case own < opp:
		return ResultLoss
	}
	return ResultDraw
}

// ParseResult accepts the three result names and returns "" for anything else.
func ParseResult(s string) Result {
	switch r := Result(s); r {
	case ResultWin, ResultLoss, ResultDraw:
		return r
	}
	return ""
}

// Color is the badge colour used on result pages.
func (r Result) Color() string {
	switch r {
	case ResultWin:
		return "green"
	case ResultLoss:
		return "red"
	}
	return "gray"
}

// PlayerTotal is one player's aggregate over a set of turns.
type PlayerTotal struct {
	PlayerID int64   `json:"player_id"`
	Name     string  `json:"name"`
	Total    int     `json:"total"`
	Cycles   int     `json:"cycles"`
	Average  float64 `json:"average"`
}

// PlayerPair lines up an own-team player with their mirrored opponent.
// Either side may be nil.
type PlayerPair struct {
	Own *PlayerTotal `json:"own"`
	Opp *PlayerTotal `json:"opp"`
}

type RoundTotal struct {
	Round int `json:"round"`
	Total int `json:"total"`
}

type CycleTotal struct {
	Cycle int `json:"cycle"`
	Total int `json:"total"`
}

// RoundDiff compares both teams within one round.
type RoundDiff struct {
	Round        int `json:"round"`
	OwnTotal     int `json:"own_total"`
	OppTotal     int `json:"opp_total"`
	Differential int `json:"differential"`
}

// GameStats is the full report for a single game.
type GameStats struct {
	Game           game.Game     `json:"game"`
	OwnTotal       int           `json:"own_total"`
	OppTotal       int           `json:"opp_total"`
	Result         Result        `json:"result"`
	RoundTotals    []RoundTotal  `json:"round_totals"`
	CycleTotals    []CycleTotal  `json:"cycle_totals"`
	Players        []PlayerTotal `json:"players"`
	HighestScorers []int64       `json:"highest_scorers"`
	Pairs          []PlayerPair  `json:"pairs"`
	RoundDiffs     []RoundDiff   `json:"round_diffs"`
}

// IsHighest reports whether the player shares the top total of the game.
func (s *GameStats) IsHighest(playerID int64) bool {
	for _, id := range s.HighestScorers {
		if id == playerID {
			return true
		}
	}
	return false
}

// TopScorers returns the players holding the highest total.
func (s *GameStats) TopScorers() []PlayerTotal {
	var out []PlayerTotal
	for _, p := range s.Players {
		if s.IsHighest(p.PlayerID) {
			out = append(out, p)
		}
	}
	return out
}

// PastGame is a row of the past games list.
type PastGame struct {
	Game     game.Game `json:"game"`
	OwnTotal int       `json:"own_total"`
	OppTotal int       `json:"opp_total"`
	Result   Result    `json:"result"`
}

// PastGamesQuery filters and pages the past games list.
type PastGamesQuery struct {
	OpponentID int64
	LocationID int64
	Result     Result
	Page       int
}

type PastGamesPage struct {
	Games []PastGame `json:"games"`
	Page  Page       `json:"page"`
}

// GameAverage is a player's average turn total in one game.
type GameAverage struct {
	GameID       int64     `json:"game_id"`
	Date         time.Time `json:"date"`
	OpponentName string    `json:"opponent_name"`
	LocationName string    `json:"location_name"`
	Average      float64   `json:"game_avg"`
}

// PlayerStats is the career report of one player.
type PlayerStats struct {
	Player             game.Player   `json:"player"`
	TotalScore         int           `json:"total_score"`
	TotalCycles        int           `json:"total_cycles"`
	TotalRolls         int           `json:"total_rolls"`
	AvgPerCycle        float64       `json:"avg_per_cycle"`
	AvgPerRoll         float64       `json:"avg_per_roll"`
	ZeroCycleCount     int           `json:"zero_cycle_count"`
	TotalZeroRolls     int           `json:"total_zero_rolls"`
	ZeroRollPercentage float64       `json:"zero_roll_percentage"`
	HighestCycleScore  int           `json:"highest_cycle_score"`
	HighestRollScore   int           `json:"highest_roll_score"`
	Strikes            int           `json:"strikes"`
	Spares             int           `json:"spares"`
	GamesParticipated  int           `json:"games_participated"`
	Wins               int           `json:"wins"`
	Losses             int           `json:"losses"`
	Draws              int           `json:"draws"`
	Improvement        []GameAverage `json:"improvement"`
}

// HistoryPage is one page of a player's per-game averages, newest first.
type HistoryPage struct {
	Games []GameAverage `json:"games"`
	Page  Page          `json:"page"`
}

// OpponentGame is one game in an opponent report.
type OpponentGame struct {
	Game     game.Game `json:"game"`
	OwnScore int       `json:"own_score"`
	OppScore int       `json:"opp_score"`
	Diff     int       `json:"diff"`
	Result   Result    `json:"result"`
}

// LocationRecord summarises games against an opponent at one venue.
type LocationRecord struct {
	Name    string  `json:"name"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Draws   int     `json:"draws"`
	Count   int     `json:"count"`
	AvgDiff float64 `json:"avg_diff"`
}

// OpponentStats is the head-to-head report against one opponent.
type OpponentStats struct {
	Opponent       game.Lookup      `json:"opponent"`
	GameType       *game.Lookup     `json:"game_type,omitempty"`
	TotalGames     int              `json:"total_games"`
	Wins           int              `json:"wins"`
	Losses         int              `json:"losses"`
	Draws          int              `json:"draws"`
	WinPercentage  float64          `json:"win_percentage"`
	AvgScoreFor    float64          `json:"avg_score_for"`
	AvgAgainst     float64          `json:"avg_score_against"`
	AvgScoreDiff   float64          `json:"avg_score_diff"`
	HighestFor     int              `json:"highest_score_for"`
	LowestFor      int              `json:"lowest_score_for"`
	HighestAgainst int              `json:"highest_score_against"`
	LowestAgainst  int              `json:"lowest_score_against"`
	Games          []OpponentGame   `json:"games"`
	Locations      []LocationRecord `json:"location_stats"`
	TopPlayers     []PlayerTotal    `json:"top_players"`
}

// teamTotals holds both team totals of one game.
type teamTotals struct {
	own, opp int
}
