package stats

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/keiths-skittles/internal/game"
	"github.com/mauv0809/keiths-skittles/internal/scoring"
)

// New creates a stats Service. perPage sizes the paginated lists.
func New(db *sql.DB, games game.Store, perPage int) Service {
	if perPage < 1 {
		perPage = 5
	}
	return &service{
		db:      db,
		games:   games,
		perPage: perPage,
	}
}

// GameStatistics builds the report for a single game.
func (s *service) GameStatistics(gameID int64) (*GameStats, error) {
	g, err := s.games.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	players, err := s.games.GamePlayers(gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load players of game %d: %w", gameID, err)
	}
	scores, err := s.games.GameScores(gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores of game %d: %w", gameID, err)
	}
	return ComputeGame(*g, players, scores), nil
}

// PastGames lists games newest first. The result filter is applied before
// paging so every page is full.
func (s *service) PastGames(q PastGamesQuery) (*PastGamesPage, error) {
	games, err := s.games.ListGames(game.GameFilter{OpponentID: q.OpponentID, LocationID: q.LocationID})
	if err != nil {
		return nil, err
	}
	totals, err := s.teamTotals()
	if err != nil {
		return nil, err
	}

	var rows []PastGame
	for _, g := range games {
		t := totals[g.ID]
		row := PastGame{Game: g, OwnTotal: t.own, OppTotal: t.opp, Result: ResultOf(t.own, t.opp)}
		if q.Result != "" && row.Result != q.Result {
			continue
		}
		rows = append(rows, row)
	}

	page := Paginate(len(rows), s.perPage, q.Page)
	start, end := page.Bounds()
	return &PastGamesPage{Games: rows[start:end], Page: page}, nil
}

// PlayerStatistics aggregates every turn the player has thrown.
func (s *service) PlayerStatistics(playerID int64) (*PlayerStats, error) {
	p, err := s.games.GetPlayer(playerID)
	if err != nil {
		return nil, err
	}
	st := &PlayerStats{Player: *p}

	err = s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(total), 0),
			COALESCE(SUM(total = 0), 0),
			COALESCE(SUM(roll_1 = 0) + SUM(roll_2 = 0) + SUM(roll_3 = 0), 0),
			COALESCE(MAX(total), 0),
			COALESCE(MAX(MAX(roll_1, roll_2, roll_3)), 0),
			COALESCE(SUM(is_strike), 0), COALESCE(SUM(is_spare), 0)
		FROM scores WHERE player_id = ?`, playerID).Scan(
		&st.TotalCycles, &st.TotalScore, &st.ZeroCycleCount, &st.TotalZeroRolls,
		&st.HighestCycleScore, &st.HighestRollScore, &st.Strikes, &st.Spares)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate scores of player %d: %w", playerID, err)
	}
	st.TotalRolls = st.TotalCycles * 3
	if st.TotalCycles > 0 {
		st.AvgPerCycle = float64(st.TotalScore) / float64(st.TotalCycles)
		st.AvgPerRoll = float64(st.TotalScore) / float64(st.TotalRolls)
		st.ZeroRollPercentage = float64(st.TotalZeroRolls) / float64(st.TotalRolls) * 100
	}

	if err := s.playerRecord(st); err != nil {
		return nil, err
	}

	history, err := s.gameAverages(playerID)
	if err != nil {
		return nil, err
	}
	for i := len(history) - 1; i >= 0; i-- {
		st.Improvement = append(st.Improvement, history[i])
	}
	return st, nil
}

// playerRecord counts participation and, for games played on the own team,
// wins, losses and draws.
func (s *service) playerRecord(st *PlayerStats) error {
	rows, err := s.db.Query(`
		SELECT game_id, MAX(team = ?) FROM game_players WHERE player_id = ? GROUP BY game_id`,
		scoring.TeamOwn, st.Player.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	ownGames := map[int64]bool{}
	for rows.Next() {
		var (
			gameID int64
			isOwn  bool
		)
		if err := rows.Scan(&gameID, &isOwn); err != nil {
			return err
		}
		st.GamesParticipated++
		ownGames[gameID] = isOwn
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(ownGames) == 0 {
		return nil
	}

	totals, err := s.teamTotals()
	if err != nil {
		return err
	}
	for gameID, isOwn := range ownGames {
		if !isOwn {
			continue
		}
		t := totals[gameID]
		switch ResultOf(t.own, t.opp) {
		case ResultWin:
			st.Wins++
		case ResultLoss:
			st.Losses++
		default:
			st.Draws++
		}
	}
	return nil
}

// PlayerHistory returns one page of the player's per-game averages.
func (s *service) PlayerHistory(playerID int64, page int) (*HistoryPage, error) {
	if _, err := s.games.GetPlayer(playerID); err != nil {
		return nil, err
	}
	history, err := s.gameAverages(playerID)
	if err != nil {
		return nil, err
	}
	p := Paginate(len(history), s.perPage, page)
	start, end := p.Bounds()
	return &HistoryPage{Games: history[start:end], Page: p}, nil
}

// gameAverages returns the player's average turn per game, newest first.
func (s *service) gameAverages(playerID int64) ([]GameAverage, error) {
	rows, err := s.db.Query(`
		SELECT g.id, g.date, COALESCE(o.name, ''), COALESCE(l.name, ''), AVG(s.total)
		FROM scores s
		JOIN games g ON g.id = s.game_id
		LEFT JOIN opponents o ON o.id = g.opponent_id
		LEFT JOIN locations l ON l.id = g.location_id
		WHERE s.player_id = ?
		GROUP BY g.id
		ORDER BY g.date DESC, g.id DESC`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GameAverage
	for rows.Next() {
		var (
			ga   GameAverage
			date string
		)
		if err := rows.Scan(&ga.GameID, &date, &ga.OpponentName, &ga.LocationName, &ga.Average); err != nil {
			return nil, err
		}
		if ga.Date, err = time.Parse(game.DateLayout, date); err != nil {
			log.Warn("Skipping game with invalid date", "gameID", ga.GameID, "date", date)
			continue
		}
		out = append(out, ga)
	}
	return out, rows.Err()
}

// TopPlayers ranks players by total pins scored while on the own team.
func (s *service) TopPlayers(limit int) ([]PlayerTotal, error) {
	if limit < 1 {
		limit = 5
	}
	return s.ownPlayerTotals(`WHERE 1 = 1`, nil, limit)
}

func (s *service) ownPlayerTotals(where string, args []any, limit int) ([]PlayerTotal, error) {
	query := `
		SELECT p.id, p.name, COALESCE(SUM(s.total), 0), COUNT(s.id)
		FROM scores s
		JOIN players p ON p.id = s.player_id
		` + where + `
		AND EXISTS (
			SELECT 1 FROM game_players gp
			WHERE gp.game_id = s.game_id AND gp.player_id = s.player_id AND gp.team = ?
		)
		GROUP BY p.id, p.name
		ORDER BY 3 DESC, p.name`
	args = append(args, scoring.TeamOwn)
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerTotal
	for rows.Next() {
		var pt PlayerTotal
		if err := rows.Scan(&pt.PlayerID, &pt.Name, &pt.Total, &pt.Cycles); err != nil {
			return nil, err
		}
		if pt.Cycles > 0 {
			pt.Average = float64(pt.Total) / float64(pt.Cycles)
		}
		out = append(out, pt)
	}
	return out, rows.Err()
}

// OpponentStatistics summarises every game against an opponent, optionally
// restricted to one game type. An unknown game type is ignored.
func (s *service) OpponentStatistics(opponentID, gameTypeID int64) (*OpponentStats, error) {
	opp, err := s.games.GetLookup(game.KindOpponent, opponentID)
	if err != nil {
		return nil, err
	}
	st := &OpponentStats{Opponent: *opp}

	filter := game.GameFilter{OpponentID: opponentID}
	if gameTypeID != 0 {
		gt, err := s.games.GetLookup(game.KindGameType, gameTypeID)
		switch {
		case err == nil:
			st.GameType = gt
			filter.GameTypeID = gameTypeID
		case errors.Is(err, game.ErrNotFound):
			log.Debug("Ignoring unknown game type filter", "gameTypeID", gameTypeID)
		default:
			return nil, err
		}
	}

	games, err := s.games.ListGames(filter)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return st, ErrNoGames
	}
	sort.SliceStable(games, func(i, j int) bool { return games[i].Date.Before(games[j].Date) })

	totals, err := s.teamTotals()
	if err != nil {
		return nil, err
	}

	var sumFor, sumAgainst int
	locations := map[string]*LocationRecord{}
	ids := make([]any, 0, len(games))
	for i, g := range games {
		t := totals[g.ID]
		row := OpponentGame{Game: g, OwnScore: t.own, OppScore: t.opp, Diff: t.own - t.opp, Result: ResultOf(t.own, t.opp)}
		st.Games = append(st.Games, row)
		ids = append(ids, g.ID)
		sumFor += t.own
		sumAgainst += t.opp

		if i == 0 || t.own > st.HighestFor {
			st.HighestFor = t.own
		}
		if i == 0 || t.own < st.LowestFor {
			st.LowestFor = t.own
		}
		if i == 0 || t.opp > st.HighestAgainst {
			st.HighestAgainst = t.opp
		}
		if i == 0 || t.opp < st.LowestAgainst {
			st.LowestAgainst = t.opp
		}

		name := g.LocationName
		if name == "" {
			name = "Unknown Location"
		}
		loc, ok := locations[name]
		if !ok {
			loc = &LocationRecord{Name: name}
			locations[name] = loc
		}
		loc.Count++
		loc.AvgDiff += float64(row.Diff)
		switch row.Result {
		case ResultWin:
			st.Wins++
			loc.Wins++
		case ResultLoss:
			st.Losses++
			loc.Losses++
		default:
			st.Draws++
			loc.Draws++
		}
	}

	st.TotalGames = len(games)
	n := float64(st.TotalGames)
	st.WinPercentage = float64(st.Wins) / n * 100
	st.AvgScoreFor = float64(sumFor) / n
	st.AvgAgainst = float64(sumAgainst) / n
	st.AvgScoreDiff = st.AvgScoreFor - st.AvgAgainst

	for _, loc := range locations {
		loc.AvgDiff /= float64(loc.Count)
		st.Locations = append(st.Locations, *loc)
	}
	sort.Slice(st.Locations, func(i, j int) bool { return st.Locations[i].Name < st.Locations[j].Name })

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	st.TopPlayers, err = s.ownPlayerTotals(`WHERE s.game_id IN (`+placeholders+`)`, ids, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to rank players against opponent %d: %w", opponentID, err)
	}
	return st, nil
}

// teamTotals sums every game's turns per team, using the team each player
// was assigned to in the round of the turn.
func (s *service) teamTotals() (map[int64]teamTotals, error) {
	rows, err := s.db.Query(`
		SELECT s.game_id, gp.team, SUM(s.total)
		FROM scores s
		JOIN game_players gp
			ON gp.game_id = s.game_id AND gp.player_id = s.player_id AND gp.round_number = s.round_number
		GROUP BY s.game_id, gp.team`)
	if err != nil {
		return nil, fmt.Errorf("failed to sum team totals: %w", err)
	}
	defer rows.Close()

	out := map[int64]teamTotals{}
	for rows.Next() {
		var (
			gameID int64
			team   scoring.Team
			total  int
		)
		if err := rows.Scan(&gameID, &team, &total); err != nil {
			return nil, err
		}
		t := out[gameID]
		if team == scoring.TeamOwn {
			t.own += total
		} else {
			t.opp += total
		}
		out[gameID] = t
	}
	return out, rows.Err()
}
