package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/keiths-skittles/internal/export"
	"github.com/mauv0809/keiths-skittles/internal/game"
	"github.com/mauv0809/keiths-skittles/internal/http/handlers"
	"github.com/mauv0809/keiths-skittles/internal/scoring"
	"github.com/mauv0809/keiths-skittles/internal/tracker"
)

type lookupField struct {
	Label    string
	Field    string
	AddURL   string
	Selected int64
	Items    []game.Lookup
}

var startLookups = []struct {
	kind   game.LookupKind
	field  string
	addURL string
}{
	{game.KindOpponent, "opponent", "/ajax/add-opponent"},
	{game.KindLocation, "location", "/ajax/add-location"},
	{game.KindGameType, "game_type", "/ajax/add-game-type"},
}

func (s *Server) StartGamePageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := map[string]string{
			"date":             time.Now().Format(game.DateLayout),
			"cycles_per_round": "3",
			"team_first":       string(scoring.TeamOwn),
		}
		s.renderStartGame(w, r, http.StatusOK, form, map[string]string{})
	}
}

func (s *Server) StartGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		form := map[string]string{}
		for _, key := range []string{"date", "opponent", "location", "game_type", "cycles_per_round", "team_first"} {
			form[key] = strings.TrimSpace(r.PostFormValue(key))
		}

		in := game.GameInput{
			OpponentID: formID(form["opponent"]),
			LocationID: formID(form["location"]),
			GameTypeID: formID(form["game_type"]),
			TeamFirst:  scoring.Team(form["team_first"]),
		}
		in.CyclesPerRound, _ = strconv.Atoi(form["cycles_per_round"])
		dateErr := ""
		if form["date"] != "" {
			date, err := game.ParseDate(form["date"], time.Now())
			if err != nil {
				dateErr = "Enter a valid date."
			}
			in.Date = date
		}

		errs := in.Validate()
		if dateErr != "" {
			errs["date"] = dateErr
		}
		if len(errs) > 0 {
			s.renderStartGame(w, r, http.StatusBadRequest, form, errs)
			return
		}

		g, err := s.Tracker.StartGame(in)
		if err != nil {
			log.Error("Failed to create game", "error", err)
			s.renderError(w, r, http.StatusInternalServerError, "Failed to create game.")
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/game/%d", g.ID), http.StatusSeeOther)
	}
}

func (s *Server) renderStartGame(w http.ResponseWriter, r *http.Request, status int, form, errs map[string]string) {
	lookups := make([]lookupField, 0, len(startLookups))
	for _, l := range startLookups {
		items, err := s.Games.ListLookups(l.kind)
		if err != nil {
			log.Error("Failed to list lookups", "kind", l.kind, "error", err)
			s.renderError(w, r, http.StatusInternalServerError, "Failed to load the game form.")
			return
		}
		lookups = append(lookups, lookupField{
			Label:    l.kind.Label(),
			Field:    l.field,
			AddURL:   l.addURL,
			Selected: formID(form[l.field]),
			Items:    items,
		})
	}
	s.render(w, r, status, "start_game.html", pageData{
		"Title":   "Start a game",
		"Form":    form,
		"Errors":  errs,
		"Lookups": lookups,
	})
}

func (s *Server) LiveGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.gameID(w, r)
		if !ok {
			return
		}
		st, err := s.Tracker.State(id)
		if err != nil {
			s.storeError(w, r, err, "Failed to load game")
			return
		}
		if st.NeedsPlayers {
			s.renderSelectPlayers(w, r, http.StatusOK, st, nil, "")
			return
		}
		s.renderLiveGame(w, r, http.StatusOK, st, map[string]string{}, scoring.FieldErrors{})
	}
}

func (s *Server) renderSelectPlayers(w http.ResponseWriter, r *http.Request, status int, st *tracker.State, selected []int64, errMsg string) {
	players, err := s.Games.ListPlayers()
	if err != nil {
		log.Error("Failed to list players", "error", err)
		s.renderError(w, r, http.StatusInternalServerError, "Failed to load players.")
		return
	}
	s.render(w, r, status, "select_players.html", pageData{
		"Title":     fmt.Sprintf("Round %d line-up", st.Round),
		"Game":      st.Game,
		"Round":     st.Round,
		"Message":   st.Message,
		"TeamFirst": string(st.TeamFirst),
		"Players":   players,
		"Selected":  selected,
		"Error":     errMsg,
	})
}

func (s *Server) renderLiveGame(w http.ResponseWriter, r *http.Request, status int, st *tracker.State, form map[string]string, errs scoring.FieldErrors) {
	s.render(w, r, status, "live_game.html", pageData{
		"Title":            st.Game.String(),
		"State":            st,
		"Form":             form,
		"Errors":           errs,
		"RoundCompleteURL": roundCompleteURL(st.Game.ID),
	})
}

func (s *Server) SelectPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.gameID(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		if _, err := s.Games.GetGame(id); err != nil {
			s.storeError(w, r, err, "Failed to load game")
			return
		}

		var playerIDs []int64
		for _, raw := range r.PostForm["player"] {
			if pid := formID(raw); pid != 0 {
				playerIDs = append(playerIDs, pid)
			}
		}
		teamFirst := scoring.Team(r.PostFormValue("team_first"))

		_, err := s.Tracker.SelectPlayers(id, playerIDs, teamFirst)
		if err != nil {
			var msg string
			switch {
			case errors.Is(err, game.ErrNoPlayers):
				msg = "Select at least one player."
			case errors.Is(err, game.ErrNotFound):
				msg = "Select a valid choice."
			default:
				log.Error("Failed to select players", "error", err, "gameID", id)
				s.renderError(w, r, http.StatusInternalServerError, "Failed to save the line-up.")
				return
			}
			st, stateErr := s.Tracker.State(id)
			if stateErr != nil {
				s.storeError(w, r, stateErr, "Failed to load game")
				return
			}
			s.renderSelectPlayers(w, r, http.StatusBadRequest, st, playerIDs, msg)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/game/%d", id), http.StatusSeeOther)
	}
}

func (s *Server) SubmitTurnHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.gameID(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		form := map[string]string{
			scoring.FieldRoll1: r.PostFormValue(scoring.FieldRoll1),
			scoring.FieldRoll2: r.PostFormValue(scoring.FieldRoll2),
			scoring.FieldRoll3: r.PostFormValue(scoring.FieldRoll3),
		}
		out, err := s.Tracker.RecordTurn(id, form[scoring.FieldRoll1], form[scoring.FieldRoll2], form[scoring.FieldRoll3])

		if isAjax(r) {
			s.writeTurnResponse(w, id, out, err)
			return
		}

		switch {
		case err == nil:
			if out.State.RoundComplete {
				http.Redirect(w, r, roundCompleteURL(id), http.StatusSeeOther)
				return
			}
			http.Redirect(w, r, fmt.Sprintf("/game/%d", id), http.StatusSeeOther)
		case errors.Is(err, tracker.ErrInvalidTurn):
			s.renderLiveGame(w, r, http.StatusBadRequest, out.State, form, out.Result.Errors)
		case errors.Is(err, tracker.ErrRoundComplete):
			http.Redirect(w, r, roundCompleteURL(id), http.StatusSeeOther)
		case errors.Is(err, tracker.ErrNoCurrentPlayer):
			http.Redirect(w, r, fmt.Sprintf("/game/%d", id), http.StatusSeeOther)
		default:
			s.storeError(w, r, err, "Error processing score data")
		}
	}
}

// writeTurnResponse answers a turn submission with the JSON the live page expects.
func (s *Server) writeTurnResponse(w http.ResponseWriter, gameID int64, out *tracker.TurnOutcome, err error) {
	switch {
	case err == nil:
		var completeURL any
		if out.State.RoundComplete {
			completeURL = roundCompleteURL(gameID)
		}
		handlers.WriteJSON(w, http.StatusOK, map[string]any{
			"success":            true,
			"message":            out.State.Message,
			"plus_minus":         out.State.PlusMinus,
			"scores":             out.State.Scores,
			"new_score":          out.Score,
			"round_complete":     out.State.RoundComplete,
			"round_complete_url": completeURL,
		})
	case errors.Is(err, tracker.ErrInvalidTurn):
		handlers.WriteJSON(w, http.StatusBadRequest, map[string]any{"success": false, "errors": out.Result.Errors})
	case errors.Is(err, tracker.ErrRoundComplete):
		handlers.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"success":            false,
			"error":              "Round already complete.",
			"round_complete":     true,
			"round_complete_url": roundCompleteURL(gameID),
		})
	case errors.Is(err, tracker.ErrNoCurrentPlayer):
		handlers.WriteJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Could not determine current player."})
	case errors.Is(err, game.ErrNotFound):
		handlers.WriteJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Game not found."})
	default:
		log.Error("Failed to record turn", "error", err, "gameID", gameID)
		handlers.WriteJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "Error processing score data."})
	}
}

func (s *Server) RoundCompletePageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.gameID(w, r)
		if !ok {
			return
		}
		st, err := s.Tracker.State(id)
		if err != nil {
			s.storeError(w, r, err, "Failed to load game")
			return
		}
		if !st.RoundComplete {
			http.Redirect(w, r, fmt.Sprintf("/game/%d", id), http.StatusSeeOther)
			return
		}
		s.render(w, r, http.StatusOK, "round_complete.html", pageData{"Title": st.Message, "State": st})
	}
}

func (s *Server) RoundCompleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.gameID(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		switch {
		case r.PostForm.Has("end_game"):
			if err := s.Tracker.EndGame(id, isDryRunFromContext(r)); err != nil {
				s.storeError(w, r, err, "Failed to end game")
				return
			}
			http.Redirect(w, r, fmt.Sprintf("/game/%d/statistics", id), http.StatusSeeOther)
		case r.PostForm.Has("next_round"):
			_, err := s.Tracker.NextRound(id)
			if err != nil && !errors.Is(err, tracker.ErrRoundInProgress) {
				s.storeError(w, r, err, "Failed to start next round")
				return
			}
			http.Redirect(w, r, fmt.Sprintf("/game/%d", id), http.StatusSeeOther)
		default:
			http.Redirect(w, r, roundCompleteURL(id), http.StatusSeeOther)
		}
	}
}

func (s *Server) DeleteGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.gameID(w, r)
		if !ok {
			return
		}
		err := s.Games.DeleteGame(id)
		if isAjax(r) {
			switch {
			case err == nil:
				handlers.WriteJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Game deleted successfully"})
			case errors.Is(err, game.ErrNotFound):
				handlers.WriteJSON(w, http.StatusNotFound, map[string]string{"status": "error", "message": "Game not found"})
			default:
				log.Error("Failed to delete game", "error", err, "gameID", id)
				handlers.WriteJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "message": "Error deleting game."})
			}
			return
		}
		if err != nil {
			s.storeError(w, r, err, "Failed to delete game")
			return
		}
		log.Info("Game deleted", "gameID", id)
		http.Redirect(w, r, "/past-games", http.StatusSeeOther)
	}
}

func (s *Server) GameStatisticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.gameID(w, r)
		if !ok {
			return
		}
		st, err := s.Stats.GameStatistics(id)
		if err != nil {
			s.storeError(w, r, err, "Failed to load game statistics")
			return
		}
		s.render(w, r, http.StatusOK, "game_stats.html", pageData{"Title": st.Game.String(), "Stats": st})
	}
}

func (s *Server) GameDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.gameID(w, r)
		if !ok {
			return
		}
		g, err := s.Games.GetGame(id)
		if err != nil {
			s.storeError(w, r, err, "Failed to load game")
			return
		}
		players, err := s.Games.GamePlayers(id)
		if err != nil {
			s.storeError(w, r, err, "Failed to load players")
			return
		}
		scores, err := s.Games.GameScores(id)
		if err != nil {
			s.storeError(w, r, err, "Failed to load scores")
			return
		}
		s.render(w, r, http.StatusOK, "game_detail.html", pageData{
			"Title":   g.String(),
			"Game":    g,
			"Players": players,
			"Scores":  scores,
		})
	}
}

func (s *Server) ExportGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.gameID(w, r)
		if !ok {
			return
		}
		st, err := s.Stats.GameStatistics(id)
		if err != nil {
			s.storeError(w, r, err, "Failed to load game statistics")
			return
		}
		scores, err := s.Games.GameScores(id)
		if err != nil {
			s.storeError(w, r, err, "Failed to load scores")
			return
		}
		data, err := export.GameWorkbook(st.Game, scores, st)
		if err != nil {
			log.Error("Failed to build workbook", "error", err, "gameID", id)
			s.renderError(w, r, http.StatusInternalServerError, "Failed to build the spreadsheet.")
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(st.Game)))
		w.Write(data)
	}
}

func (s *Server) LiveUpdatesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.gameID(w, r)
		if !ok {
			return
		}
		if _, err := s.Games.GetGame(id); err != nil {
			s.storeError(w, r, err, "Failed to load game")
			return
		}
		s.Hub.ServeWS(w, r, id)
	}
}

// gameID reads the {id} path value, answering 404 when it is not a number.
func (s *Server) gameID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := handlers.PathID(r, "id")
	if err != nil || id < 1 {
		s.renderError(w, r, http.StatusNotFound, "Page not found.")
		return 0, false
	}
	return id, true
}

// storeError maps store misses to 404 and logs everything else as a 500.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if errors.Is(err, game.ErrNotFound) {
		s.renderError(w, r, http.StatusNotFound, "Not found.")
		return
	}
	log.Error(msg, "error", err, "path", r.URL.Path)
	s.renderError(w, r, http.StatusInternalServerError, msg+".")
}

func roundCompleteURL(gameID int64) string {
	return fmt.Sprintf("/game/%d/round-complete", gameID)
}

func formID(raw string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}
