// Package tracker runs live scoring: who throws next, recording turns and
// moving a game from round to round until it ends.
package tracker

import (
	"errors"
	"sync"

	"github.com/mauv0809/keiths-skittles/internal/game"
	"github.com/mauv0809/keiths-skittles/internal/live"
	"github.com/mauv0809/keiths-skittles/internal/metrics"
	"github.com/mauv0809/keiths-skittles/internal/pubsub"
	"github.com/mauv0809/keiths-skittles/internal/scoring"
	"github.com/mauv0809/keiths-skittles/internal/stats"
)

var (
	ErrRoundComplete   = errors.New("round is already complete")
	ErrNoCurrentPlayer = errors.New("no player is due to throw")
	ErrRoundInProgress = errors.New("round is still in progress")
	ErrInvalidTurn     = errors.New("invalid turn")
)

// Tracker handles the business logic of scoring a game live.
type Tracker struct {
	games    game.Store
	stats    stats.Service
	notifier Notifier
	metrics  metrics.Metrics
	pubsub   pubsub.PubSubClient
	live     live.Broadcaster

	// mu serializes turn entry so two scorers cannot fill the same slot.
	mu sync.Mutex
}

// State is where a game stands in its current round.
type State struct {
	Game          game.Game         `json:"game"`
	Round         int               `json:"round"`
	TeamFirst     scoring.Team      `json:"team_first"`
	NeedsPlayers  bool              `json:"needs_players"`
	Order         []game.GamePlayer `json:"order"`
	Current       *game.GamePlayer  `json:"current_player"`
	Cycle         int               `json:"cycle"`
	NextIndex     int               `json:"next_index"`
	RoundComplete bool              `json:"round_complete"`
	Scores        []game.Score      `json:"scores"`
	OwnTotal      int               `json:"own_total"`
	OppTotal      int               `json:"opp_total"`
	PlusMinus     int               `json:"plus_minus"`
	Message       string            `json:"message"`
}

// TurnOutcome is the result of submitting a turn. Score is nil when the
// turn was rejected.
type TurnOutcome struct {
	Result scoring.TurnResult `json:"result"`
	Score  *game.Score        `json:"new_score,omitempty"`
	State  *State             `json:"state"`
}

// TurnUpdate is broadcast to live viewers after every recorded turn.
type TurnUpdate struct {
	Score         *game.Score  `json:"new_score"`
	Scores        []game.Score `json:"scores"`
	PlusMinus     int          `json:"plus_minus"`
	RoundComplete bool         `json:"round_complete"`
	Message       string       `json:"message"`
}

// RoundUpdate is broadcast when a round gets its players or a new round starts.
type RoundUpdate struct {
	Round   int    `json:"round"`
	Message string `json:"message"`
}
