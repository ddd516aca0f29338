package game

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/keiths-skittles/internal/scoring"
)

// New creates a new game Store.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

const gameColumns = `
	g.id, g.date, g.opponent_id, COALESCE(o.name, ''), g.location_id, COALESCE(l.name, ''),
	g.game_type_id, COALESCE(t.name, ''), g.cycles_per_round, g.first_team, g.current_round, g.created_at`

const gameJoins = `
	FROM games g
	LEFT JOIN opponents o ON o.id = g.opponent_id
	LEFT JOIN locations l ON l.id = g.location_id
	LEFT JOIN game_types t ON t.id = g.game_type_id`

// CreateGame stores a new game starting at round 1.
func (s *store) CreateGame(in GameInput) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	teamFirst := in.TeamFirst
	if teamFirst == "" {
		teamFirst = scoring.TeamOwn
	}
	cycles := in.CyclesPerRound
	if cycles < 1 {
		cycles = 3
	}

	res, err := s.db.Exec(`
		INSERT INTO games (date, opponent_id, location_id, game_type_id, cycles_per_round, first_team, current_round, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?)`,
		in.Date.Format(DateLayout), nullID(in.OpponentID), nullID(in.LocationID), nullID(in.GameTypeID),
		cycles, teamFirst, time.Now().Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to insert game: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.getGame(id)
}

// GetGame loads a game with its lookup names.
func (s *store) GetGame(id int64) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getGame(id)
}

func (s *store) getGame(id int64) (*Game, error) {
	row := s.db.QueryRow(`SELECT `+gameColumns+gameJoins+` WHERE g.id = ?`, id)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %d: %w", id, ErrNotFound)
	}
	return g, err
}

// DeleteGame removes a game together with its rounds, players and scores.
func (s *store) DeleteGame(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete game %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("game %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListGames returns games newest first.
func (s *store) ListGames(filter GameFilter) ([]Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		where []string
		args  []any
	)
	if filter.OpponentID != 0 {
		where = append(where, "g.opponent_id = ?")
		args = append(args, filter.OpponentID)
	}
	if filter.LocationID != 0 {
		where = append(where, "g.location_id = ?")
		args = append(args, filter.LocationID)
	}
	if filter.GameTypeID != 0 {
		where = append(where, "g.game_type_id = ?")
		args = append(args, filter.GameTypeID)
	}
	query := `SELECT ` + gameColumns + gameJoins
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY g.date DESC, g.id DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			log.Error("Failed to scan game row", "error", err)
			continue
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

// SetCurrentRound moves the game to the given round.
func (s *store) SetCurrentRound(gameID int64, round int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE games SET current_round = ? WHERE id = ?`, round, gameID)
	if err != nil {
		return fmt.Errorf("failed to set round for game %d: %w", gameID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("game %d: %w", gameID, ErrNotFound)
	}
	return nil
}

// AddPlayer inserts a new player.
func (s *store) AddPlayer(name string) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("player: %w", ErrInvalidName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var existing int64
	err := s.db.QueryRow(`SELECT id FROM players WHERE name = ?`, name).Scan(&existing)
	if err == nil {
		return nil, fmt.Errorf("player %q: %w", name, ErrDuplicate)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	res, err := s.db.Exec(`INSERT INTO players (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to insert player: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Player{ID: id, Name: name}, nil
}

// GetPlayer loads a single player.
func (s *store) GetPlayer(id int64) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p Player
	err := s.db.QueryRow(`SELECT id, name FROM players WHERE id = ?`, id).Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetOrCreatePlayer returns the oldest player with the given name, creating
// one if none exists.
func (s *store) GetOrCreatePlayer(name string) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := getOrCreatePlayer(s.db, name)
	if err != nil {
		return nil, err
	}
	return &Player{ID: id, Name: name}, nil
}

type execQuerier interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

func getOrCreatePlayer(q execQuerier, name string) (int64, error) {
	var id int64
	err := q.QueryRow(`SELECT id FROM players WHERE name = ? ORDER BY id LIMIT 1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	res, err := q.Exec(`INSERT INTO players (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert player %q: %w", name, err)
	}
	return res.LastInsertId()
}

// ListPlayers returns club players by name.
func (s *store) ListPlayers() ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id, name FROM players WHERE name NOT LIKE ? ORDER BY name, id`, OpponentPrefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// AddLookup inserts a named opponent, location or game type. Names are
// unique per kind.
func (s *store) AddLookup(kind LookupKind, name string) (*Lookup, error) {
	if !kind.valid() {
		return nil, fmt.Errorf("unknown lookup kind %q", kind)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s: %w", strings.ToLower(kind.Label()), ErrInvalidName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var existing int64
	err := s.db.QueryRow(`SELECT id FROM `+string(kind)+` WHERE name = ?`, name).Scan(&existing)
	if err == nil {
		return nil, fmt.Errorf("%s %q: %w", kind.Label(), name, ErrDuplicate)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	res, err := s.db.Exec(`INSERT INTO `+string(kind)+` (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to insert %s: %w", kind.Label(), err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Lookup{ID: id, Name: name}, nil
}

// GetLookup loads a single lookup row.
func (s *store) GetLookup(kind LookupKind, id int64) (*Lookup, error) {
	if !kind.valid() {
		return nil, fmt.Errorf("unknown lookup kind %q", kind)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var l Lookup
	err := s.db.QueryRow(`SELECT id, name FROM `+string(kind)+` WHERE id = ?`, id).Scan(&l.ID, &l.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %d: %w", kind.Label(), id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListLookups returns all rows of a lookup table by name.
func (s *store) ListLookups(kind LookupKind) ([]Lookup, error) {
	if !kind.valid() {
		return nil, fmt.Errorf("unknown lookup kind %q", kind)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id, name FROM ` + string(kind) + ` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Lookup
	for rows.Next() {
		var l Lookup
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// AssignRound records the round line-up in a single transaction. Players
// already assigned to the round are left in place.
func (s *store) AssignRound(gameID int64, round int, playerIDs []int64, teamFirst scoring.Team) error {
	if !teamFirst.Valid() {
		return fmt.Errorf("invalid team %q", teamFirst)
	}
	if round < 1 {
		return fmt.Errorf("invalid round %d", round)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int64
	if err := tx.QueryRow(`SELECT id FROM games WHERE id = ?`, gameID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("game %d: %w", gameID, ErrNotFound)
		}
		return err
	}

	seen := map[int64]bool{}
	var names []string
	for _, pid := range playerIDs {
		if pid == 0 || seen[pid] {
			continue
		}
		seen[pid] = true

		var name string
		if err := tx.QueryRow(`SELECT name FROM players WHERE id = ?`, pid).Scan(&name); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("player %d: %w", pid, ErrNotFound)
			}
			return err
		}
		if strings.HasPrefix(name, OpponentPrefix) {
			return fmt.Errorf("player %q is an opponent and cannot join the own team", name)
		}
		if err := addRoundPlayer(tx, gameID, pid, round, scoring.TeamOwn); err != nil {
			return err
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return ErrNoPlayers
	}

	for _, name := range names {
		oppID, err := getOrCreatePlayer(tx, MirrorName(name))
		if err != nil {
			return err
		}
		if err := addRoundPlayer(tx, gameID, oppID, round, scoring.TeamOpp); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO game_rounds (game_id, round_number, team_first) VALUES (?, ?, ?)
		ON CONFLICT(game_id, round_number) DO UPDATE SET team_first = excluded.team_first`,
		gameID, round, teamFirst); err != nil {
		return fmt.Errorf("failed to record round order: %w", err)
	}
	if _, err := tx.Exec(`UPDATE games SET current_round = ? WHERE id = ?`, round, gameID); err != nil {
		return err
	}
	return tx.Commit()
}

func addRoundPlayer(tx *sql.Tx, gameID, playerID int64, round int, team scoring.Team) error {
	_, err := tx.Exec(`
		INSERT INTO game_players (game_id, player_id, round_number, team) VALUES (?, ?, ?, ?)
		ON CONFLICT(game_id, player_id, round_number) DO NOTHING`,
		gameID, playerID, round, team)
	if err != nil {
		return fmt.Errorf("failed to assign player %d: %w", playerID, err)
	}
	return nil
}

// RoundPlayers returns the players of one round in assignment order.
func (s *store) RoundPlayers(gameID int64, round int) ([]GamePlayer, error) {
	return s.queryGamePlayers(`WHERE gp.game_id = ? AND gp.round_number = ?`, gameID, round)
}

// GamePlayers returns every assignment of a game ordered by round.
func (s *store) GamePlayers(gameID int64) ([]GamePlayer, error) {
	return s.queryGamePlayers(`WHERE gp.game_id = ?`, gameID)
}

func (s *store) queryGamePlayers(where string, args ...any) ([]GamePlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT gp.id, gp.game_id, gp.player_id, p.name, gp.round_number, gp.team
		FROM game_players gp
		JOIN players p ON p.id = gp.player_id
		`+where+`
		ORDER BY gp.round_number, gp.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GamePlayer
	for rows.Next() {
		var gp GamePlayer
		if err := rows.Scan(&gp.ID, &gp.GameID, &gp.PlayerID, &gp.PlayerName, &gp.RoundNumber, &gp.Team); err != nil {
			return nil, err
		}
		out = append(out, gp)
	}
	return out, rows.Err()
}

// RoundTeamFirst returns the team throwing first in a round, falling back to
// the game default for rounds that were never set up.
func (s *store) RoundTeamFirst(gameID int64, round int) (scoring.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var team scoring.Team
	err := s.db.QueryRow(`
		SELECT COALESCE(
			(SELECT team_first FROM game_rounds WHERE game_id = ? AND round_number = ?),
			first_team)
		FROM games WHERE id = ?`, gameID, round, gameID).Scan(&team)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("game %d: %w", gameID, ErrNotFound)
	}
	return team, err
}

// HasOwnPlayers reports whether the round has at least one own-team player.
func (s *store) HasOwnPlayers(gameID int64, round int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM game_players WHERE game_id = ? AND round_number = ? AND team = ?`,
		gameID, round, scoring.TeamOwn).Scan(&n)
	return n > 0, err
}

// LatestRound returns the highest round with players or scores, or 0.
func (s *store) LatestRound(gameID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var round sql.NullInt64
	err := s.db.QueryRow(`
		SELECT MAX(r) FROM (
			SELECT MAX(round_number) AS r FROM scores WHERE game_id = ?
			UNION ALL
			SELECT MAX(round_number) AS r FROM game_players WHERE game_id = ?
		)`, gameID, gameID).Scan(&round)
	if err != nil {
		return 0, err
	}
	return int(round.Int64), nil
}

// AddScore inserts a turn. The strike and spare flags are derived from the rolls.
func (s *store) AddScore(score *Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	score.Total = score.Roll1 + score.Roll2 + score.Roll3
	score.IsStrike = scoring.IsStrike(score.Roll1)
	score.IsSpare = scoring.IsSpare(score.Roll1, score.Roll2)
	if score.CreatedAt.IsZero() {
		score.CreatedAt = time.Now()
	}

	res, err := s.db.Exec(`
		INSERT INTO scores (game_id, player_id, round_number, cycle_number, roll_1, roll_2, roll_3, total, is_strike, is_spare, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		score.GameID, score.PlayerID, score.RoundNumber, score.CycleNumber,
		score.Roll1, score.Roll2, score.Roll3, score.Total, score.IsStrike, score.IsSpare, score.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert score: %w", err)
	}
	score.ID, err = res.LastInsertId()
	return err
}

// CountScores returns how many turns were entered in a round.
func (s *store) CountScores(gameID int64, round int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM scores WHERE game_id = ? AND round_number = ?`, gameID, round).Scan(&n)
	return n, err
}

// RoundScores returns the turns of one round in entry order.
func (s *store) RoundScores(gameID int64, round int) ([]Score, error) {
	return s.queryScores(`WHERE s.game_id = ? AND s.round_number = ?`, gameID, round)
}

// GameScores returns every turn of a game in entry order.
func (s *store) GameScores(gameID int64) ([]Score, error) {
	return s.queryScores(`WHERE s.game_id = ?`, gameID)
}

func (s *store) queryScores(where string, args ...any) ([]Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT s.id, s.game_id, s.player_id, p.name, s.round_number, s.cycle_number,
			s.roll_1, s.roll_2, s.roll_3, s.total, s.is_strike, s.is_spare, s.created_at
		FROM scores s
		JOIN players p ON p.id = s.player_id
		`+where+`
		ORDER BY s.round_number, s.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Score
	for rows.Next() {
		var (
			sc        Score
			createdAt int64
		)
		if err := rows.Scan(&sc.ID, &sc.GameID, &sc.PlayerID, &sc.PlayerName, &sc.RoundNumber, &sc.CycleNumber,
			&sc.Roll1, &sc.Roll2, &sc.Roll3, &sc.Total, &sc.IsStrike, &sc.IsSpare, &createdAt); err != nil {
			return nil, err
		}
		sc.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, sc)
	}
	return out, rows.Err()
}

// scanGame is a helper function to scan a single game row.
func scanGame(scanner interface{ Scan(...any) error }) (*Game, error) {
	var g Game
	var date string
	var opponentID, locationID, gameTypeID sql.NullInt64
	var createdAt int64
	err := scanner.Scan(&g.ID, &date, &opponentID, &g.OpponentName, &locationID, &g.LocationName,
		&gameTypeID, &g.GameTypeName, &g.CyclesPerRound, &g.TeamFirst, &g.CurrentRound, &createdAt)
	if err != nil {
		return nil, err
	}
	g.Date, err = time.Parse(DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("game %d has invalid date %q: %w", g.ID, date, err)
	}
	g.OpponentID = opponentID.Int64
	g.LocationID = locationID.Int64
	g.GameTypeID = gameTypeID.Int64
	g.CreatedAt = time.Unix(createdAt, 0)
	return &g, nil
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}
