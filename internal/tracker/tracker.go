package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/keiths-skittles/internal/game"
	"github.com/mauv0809/keiths-skittles/internal/live"
	"github.com/mauv0809/keiths-skittles/internal/metrics"
	"github.com/mauv0809/keiths-skittles/internal/pubsub"
	"github.com/mauv0809/keiths-skittles/internal/scoring"
	"github.com/mauv0809/keiths-skittles/internal/stats"
)

// New creates a new Tracker.
func New(games game.Store, stats stats.Service, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient, live live.Broadcaster) *Tracker {
	return &Tracker{
		games:    games,
		stats:    stats,
		notifier: notifier,
		metrics:  metrics,
		pubsub:   pubsub,
		live:     live,
	}
}

// StartGame creates a game from the setup form.
func (t *Tracker) StartGame(in game.GameInput) (*game.Game, error) {
	g, err := t.games.CreateGame(in)
	if err != nil {
		return nil, err
	}
	t.metrics.IncGamesCreated()
	log.Info("Game started", "gameID", g.ID, "game", g.String())
	return g, nil
}

// State works out the scoring order and the next turn of the current round.
func (t *Tracker) State(gameID int64) (*State, error) {
	g, err := t.games.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	round, err := t.currentRound(g)
	if err != nil {
		return nil, err
	}

	st := &State{Game: *g, Round: round, TeamFirst: g.TeamFirst, Cycle: 1}
	hasPlayers, err := t.games.HasOwnPlayers(gameID, round)
	if err != nil {
		return nil, err
	}
	if !hasPlayers {
		st.NeedsPlayers = true
		st.Message = fmt.Sprintf("Set up teams for Round %d.", round)
		return st, nil
	}

	if st.TeamFirst, err = t.games.RoundTeamFirst(gameID, round); err != nil {
		return nil, err
	}
	players, err := t.games.RoundPlayers(gameID, round)
	if err != nil {
		return nil, err
	}
	var own, opp []game.GamePlayer
	teams := make(map[int64]scoring.Team, len(players))
	for _, p := range players {
		teams[p.PlayerID] = p.Team
		if p.Team == scoring.TeamOpp {
			opp = append(opp, p)
		} else {
			own = append(own, p)
		}
	}
	st.Order = scoring.ScoringOrder(own, opp, st.TeamFirst)

	if st.Scores, err = t.games.RoundScores(gameID, round); err != nil {
		return nil, err
	}
	for _, s := range st.Scores {
		if teams[s.PlayerID] == scoring.TeamOpp {
			st.OppTotal += s.Total
		} else {
			st.OwnTotal += s.Total
		}
	}
	st.PlusMinus = st.OwnTotal - st.OppTotal

	progress := scoring.Progress(len(st.Scores), len(st.Order), g.CyclesPerRound)
	st.Cycle = progress.Cycle
	st.NextIndex = progress.NextIndex
	st.RoundComplete = progress.Complete
	if st.RoundComplete {
		st.Message = fmt.Sprintf("Round %d Complete!", round)
		return st, nil
	}
	current := st.Order[st.NextIndex]
	st.Current = &current
	st.Message = fmt.Sprintf("Enter score for %s (Cycle %d of Round %d)", current.PlayerName, st.Cycle, round)
	return st, nil
}

// currentRound syncs the stored round upward when scores or players exist
// for a later one.
func (t *Tracker) currentRound(g *game.Game) (int, error) {
	round := g.CurrentRound
	latest, err := t.games.LatestRound(g.ID)
	if err != nil {
		return 0, err
	}
	if latest > round {
		log.Debug("Syncing current round", "gameID", g.ID, "from", round, "to", latest)
		if err := t.games.SetCurrentRound(g.ID, latest); err != nil {
			return 0, err
		}
		round = latest
		g.CurrentRound = latest
	}
	if round < 1 {
		round = 1
	}
	return round, nil
}

// SelectPlayers puts players on the own team for the current round. An
// invalid teamFirst falls back to the game's setting.
func (t *Tracker) SelectPlayers(gameID int64, playerIDs []int64, teamFirst scoring.Team) (*State, error) {
	g, err := t.games.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	round, err := t.currentRound(g)
	if err != nil {
		return nil, err
	}
	if !teamFirst.Valid() {
		teamFirst = g.TeamFirst
	}
	if err := t.games.AssignRound(gameID, round, playerIDs, teamFirst); err != nil {
		return nil, err
	}
	log.Info("Players selected", "gameID", gameID, "round", round, "players", len(playerIDs), "teamFirst", teamFirst)

	st, err := t.State(gameID)
	if err != nil {
		return nil, err
	}
	t.broadcast(gameID, live.MessageRoundStarted, RoundUpdate{Round: round, Message: st.Message})
	return st, nil
}

// RecordTurn validates and stores the next player's turn. A rejected turn
// returns ErrInvalidTurn together with an outcome carrying the field errors.
func (t *Tracker) RecordTurn(gameID int64, raw1, raw2, raw3 string) (*TurnOutcome, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, err := t.State(gameID)
	if err != nil {
		return nil, err
	}
	if st.RoundComplete {
		return &TurnOutcome{State: st}, ErrRoundComplete
	}
	if st.NeedsPlayers || st.Current == nil {
		return &TurnOutcome{State: st}, ErrNoCurrentPlayer
	}

	res := scoring.ParseTurn(raw1, raw2, raw3)
	if !res.OK {
		t.metrics.IncTurnsRejected()
		log.Debug("Turn rejected", "gameID", gameID, "player", st.Current.PlayerName, "errors", res.Errors)
		return &TurnOutcome{Result: res, State: st}, ErrInvalidTurn
	}

	score := &game.Score{
		GameID:      gameID,
		PlayerID:    st.Current.PlayerID,
		PlayerName:  st.Current.PlayerName,
		RoundNumber: st.Round,
		CycleNumber: st.Cycle,
		Roll1:       res.Rolls[0],
		Roll2:       res.Rolls[1],
		Roll3:       res.Rolls[2],
	}
	if err := t.games.AddScore(score); err != nil {
		return nil, fmt.Errorf("failed to save turn: %w", err)
	}
	t.metrics.IncTurnsRecorded()
	log.Info("Turn recorded", "gameID", gameID, "player", score.PlayerName, "round", score.RoundNumber, "cycle", score.CycleNumber, "total", score.Total)

	next, err := t.State(gameID)
	if err != nil {
		return nil, err
	}
	if next.RoundComplete {
		t.metrics.IncRoundsCompleted()
		log.Info("Round complete", "gameID", gameID, "round", next.Round, "plusMinus", next.PlusMinus)
	}

	t.broadcast(gameID, live.MessageTurnRecorded, TurnUpdate{
		Score:         score,
		Scores:        next.Scores,
		PlusMinus:     next.PlusMinus,
		RoundComplete: next.RoundComplete,
		Message:       next.Message,
	})
	return &TurnOutcome{Result: res, Score: score, State: next}, nil
}

// NextRound advances a game whose current round is complete.
func (t *Tracker) NextRound(gameID int64) (int, error) {
	st, err := t.State(gameID)
	if err != nil {
		return 0, err
	}
	if !st.RoundComplete {
		return 0, ErrRoundInProgress
	}

	next := st.Round + 1
	if err := t.games.SetCurrentRound(gameID, next); err != nil {
		return 0, err
	}
	log.Info("Next round", "gameID", gameID, "round", next)
	t.broadcast(gameID, live.MessageRoundStarted, RoundUpdate{Round: next, Message: fmt.Sprintf("Set up teams for Round %d.", next)})
	return next, nil
}

// EndGame publishes the game-ended event. The result notification is sent
// by whoever consumes it.
func (t *Tracker) EndGame(gameID int64, dryRun bool) error {
	g, err := t.games.GetGame(gameID)
	if err != nil {
		return err
	}

	if err := t.pubsub.SendMessage(pubsub.EventGameEnded, pubsub.GameEnded{GameID: g.ID, DryRun: dryRun}); err != nil {
		return fmt.Errorf("failed to publish game ended: %w", err)
	}
	t.metrics.IncGamesEnded()
	log.Info("Game ended", "gameID", gameID, "dryRun", dryRun)
	t.broadcast(gameID, live.MessageGameEnded, RoundUpdate{Round: g.CurrentRound, Message: "Game over."})
	return nil
}

// HandleGameEnded consumes a game-ended event and sends the result notification.
func (t *Tracker) HandleGameEnded(ctx context.Context, data []byte) error {
	var event pubsub.GameEnded
	if err := t.pubsub.ProcessMessage(data, &event); err != nil {
		return fmt.Errorf("failed to decode game ended event: %w", err)
	}

	st, err := t.stats.GameStatistics(event.GameID)
	if errors.Is(err, game.ErrNotFound) {
		log.Warn("Game ended event for unknown game", "gameID", event.GameID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to compute statistics for game %d: %w", event.GameID, err)
	}
	return t.notifier.SendGameResult(st, event.DryRun)
}

func (t *Tracker) broadcast(gameID int64, kind live.MessageType, payload any) {
	if err := t.live.Broadcast(gameID, kind, payload); err != nil {
		log.Error("Failed to broadcast update", "error", err, "gameID", gameID, "type", kind)
	}
}
