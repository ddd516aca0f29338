package game

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mauv0809/keiths-skittles/internal/scoring"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrDuplicate   = errors.New("already exists")
	ErrNoPlayers   = errors.New("no players selected")
	ErrInvalidName = errors.New("name cannot be empty")
)

// OpponentPrefix marks the synthetic players created to mirror an own-team
// player on the opposing side.
const OpponentPrefix = "Opp. "

// DateLayout is how game dates are stored and displayed.
const DateLayout = "2006-01-02"

// store handles all database operations for games.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Game is one fixture against an opponent.
type Game struct {
	ID             int64        `json:"id"`
	Date           time.Time    `json:"date"`
	OpponentID     int64        `json:"opponent_id,omitempty"`
	OpponentName   string       `json:"opponent_name"`
	LocationID     int64        `json:"location_id,omitempty"`
	LocationName   string       `json:"location_name"`
	GameTypeID     int64        `json:"game_type_id,omitempty"`
	GameTypeName   string       `json:"game_type_name"`
	CyclesPerRound int          `json:"cycles_per_round"`
	TeamFirst      scoring.Team `json:"team_first"`
	CurrentRound   int          `json:"current_round"`
	CreatedAt      time.Time    `json:"created_at"`
}

func (g Game) String() string {
	return fmt.Sprintf("%s vs %s", g.Date.Format(DateLayout), g.OpponentName)
}

// GameInput carries the fields of the game setup form.
type GameInput struct {
	Date           time.Time
	OpponentID     int64
	LocationID     int64
	GameTypeID     int64
	CyclesPerRound int
	TeamFirst      scoring.Team
}

// Validate returns field errors keyed by form field name.
func (in GameInput) Validate() map[string]string {
	errs := map[string]string{}
	if in.Date.IsZero() {
		errs["date"] = "This field is required."
	}
	if in.OpponentID == 0 {
		errs["opponent"] = "This field is required."
	}
	if in.LocationID == 0 {
		errs["location"] = "This field is required."
	}
	if in.GameTypeID == 0 {
		errs["game_type"] = "This field is required."
	}
	if in.CyclesPerRound < 1 {
		errs["cycles_per_round"] = "Ensure this value is greater than or equal to 1."
	}
	if in.TeamFirst != "" && !in.TeamFirst.Valid() {
		errs["team_first"] = "Select a valid choice."
	}
	return errs
}

// GameFilter narrows ListGames. Zero values match everything.
type GameFilter struct {
	OpponentID int64
	LocationID int64
	GameTypeID int64
}

// Player is a club member or a mirrored opponent.
type Player struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// IsMirror reports whether the player was generated for the opposing team.
func (p Player) IsMirror() bool {
	return strings.HasPrefix(p.Name, OpponentPrefix)
}

// MirrorName is the opposing-team name paired with an own-team player.
func MirrorName(name string) string {
	return OpponentPrefix + name
}

// LookupKind selects one of the named lookup tables.
type LookupKind string

const (
	KindOpponent LookupKind = "opponents"
	KindLocation LookupKind = "locations"
	KindGameType LookupKind = "game_types"
)

// Label is the singular display name of the kind.
func (k LookupKind) Label() string {
	switch k {
	case KindOpponent:
		return "Opponent"
	case KindLocation:
		return "Location"
	case KindGameType:
		return "Game type"
	}
	return string(k)
}

func (k LookupKind) valid() bool {
	return k == KindOpponent || k == KindLocation || k == KindGameType
}

// Lookup is a row of the opponents, locations or game_types table.
type Lookup struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GamePlayer assigns a player to a team for one round of a game.
type GamePlayer struct {
	ID          int64        `json:"id"`
	GameID      int64        `json:"game_id"`
	PlayerID    int64        `json:"player_id"`
	PlayerName  string       `json:"player_name"`
	RoundNumber int          `json:"round_number"`
	Team        scoring.Team `json:"team"`
}

// Score is one player's turn of three rolls.
type Score struct {
	ID          int64     `json:"id"`
	GameID      int64     `json:"game_id"`
	PlayerID    int64     `json:"player_id"`
	PlayerName  string    `json:"player_name"`
	RoundNumber int       `json:"round_number"`
	CycleNumber int       `json:"cycle_number"`
	Roll1       int       `json:"roll1"`
	Roll2       int       `json:"roll2"`
	Roll3       int       `json:"roll3"`
	Total       int       `json:"total"`
	IsStrike    bool      `json:"is_strike"`
	IsSpare     bool      `json:"is_spare"`
	CreatedAt   time.Time `json:"-"`
}
