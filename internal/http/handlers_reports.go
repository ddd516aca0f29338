package http

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/keiths-skittles/internal/charts"
	"github.com/mauv0809/keiths-skittles/internal/game"
	"github.com/mauv0809/keiths-skittles/internal/http/handlers"
	"github.com/mauv0809/keiths-skittles/internal/stats"
)

const topPlayersLimit = 5

// paging feeds the pagination partial. Query holds the active filters,
// already encoded and ending in "&" when not empty.
type paging struct {
	Page  stats.Page
	Query template.URL
}

func (s *Server) PastGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		q := stats.PastGamesQuery{
			OpponentID: handlers.QueryID(r, "opponent"),
			LocationID: handlers.QueryID(r, "location"),
			Result:     stats.ParseResult(r.URL.Query().Get("result")),
			Page:       page,
		}
		games, err := s.Stats.PastGames(q)
		if err != nil {
			log.Error("Failed to load past games", "error", err)
			if isAjax(r) {
				handlers.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load past games."})
				return
			}
			s.renderError(w, r, http.StatusInternalServerError, "Failed to load past games.")
			return
		}
		pg := paging{Page: games.Page, Query: filterQuery(q)}

		if isAjax(r) {
			rows, err := s.renderPartial("past_games.html", "past_games_rows", games)
			if err == nil {
				var pagination string
				pagination, err = s.renderPartial("past_games.html", "pagination", pg)
				if err == nil {
					handlers.WriteJSON(w, http.StatusOK, map[string]any{
						"html":            rows,
						"pagination_html": pagination,
						"current_page":    games.Page.Number,
					})
					return
				}
			}
			log.Error("Failed to render past games rows", "error", err)
			handlers.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load past games."})
			return
		}

		opponents, err := s.Games.ListLookups(game.KindOpponent)
		if err != nil {
			s.storeError(w, r, err, "Failed to load opponents")
			return
		}
		locations, err := s.Games.ListLookups(game.KindLocation)
		if err != nil {
			s.storeError(w, r, err, "Failed to load locations")
			return
		}
		s.render(w, r, http.StatusOK, "past_games.html", pageData{
			"Title":     "Past games",
			"PastGames": games,
			"Paging":    pg,
			"Opponents": opponents,
			"Locations": locations,
			"Filters":   q,
			"Results":   []stats.Result{stats.ResultWin, stats.ResultLoss, stats.ResultDraw},
		})
	}
}

func filterQuery(q stats.PastGamesQuery) template.URL {
	v := url.Values{}
	if q.OpponentID != 0 {
		v.Set("opponent", strconv.FormatInt(q.OpponentID, 10))
	}
	if q.LocationID != 0 {
		v.Set("location", strconv.FormatInt(q.LocationID, 10))
	}
	if q.Result != "" {
		v.Set("result", string(q.Result))
	}
	if len(v) == 0 {
		return ""
	}
	return template.URL(v.Encode() + "&")
}

func (s *Server) PlayersPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPlayers(w, r, http.StatusOK, "", "")
	}
}

func (s *Server) AddPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PostFormValue("name")
		p, err := s.Games.AddPlayer(name)
		switch {
		case err == nil:
			log.Info("Player added", "playerID", p.ID, "name", p.Name)
			http.Redirect(w, r, "/players", http.StatusSeeOther)
		case errors.Is(err, game.ErrDuplicate):
			s.renderPlayers(w, r, http.StatusBadRequest, name, "Player with this Name already exists.")
		case errors.Is(err, game.ErrInvalidName):
			s.renderPlayers(w, r, http.StatusBadRequest, name, "This field is required.")
		default:
			s.storeError(w, r, err, "Failed to add player")
		}
	}
}

func (s *Server) renderPlayers(w http.ResponseWriter, r *http.Request, status int, name, errMsg string) {
	players, err := s.Games.ListPlayers()
	if err != nil {
		s.storeError(w, r, err, "Failed to load players")
		return
	}
	s.render(w, r, status, "players.html", pageData{
		"Title":   "Players",
		"Players": players,
		"Name":    name,
		"Error":   errMsg,
	})
}

func (s *Server) PlayerStatisticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Games.ListPlayers()
		if err != nil {
			s.storeError(w, r, err, "Failed to load players")
			return
		}
		top, err := s.Stats.TopPlayers(topPlayersLimit)
		if err != nil {
			s.storeError(w, r, err, "Failed to load top players")
			return
		}
		data := pageData{
			"Title":      "Player statistics",
			"Players":    players,
			"TopPlayers": top,
			"SelectedID": int64(0),
		}

		if id := handlers.QueryID(r, "player_id"); id != 0 {
			st, err := s.Stats.PlayerStatistics(id)
			if err != nil {
				s.storeError(w, r, err, "Failed to load player statistics")
				return
			}
			history, err := s.Stats.PlayerHistory(id, 1)
			if err != nil {
				s.storeError(w, r, err, "Failed to load player history")
				return
			}
			data["Title"] = st.Player.Name
			data["SelectedID"] = id
			data["Stats"] = st
			data["History"] = history
		}
		s.render(w, r, http.StatusOK, "player_stats.html", data)
	}
}

func (s *Server) PlayerHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isAjax(r) {
			handlers.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request type"})
			return
		}
		id, err := handlers.PathID(r, "id")
		if err != nil {
			handlers.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "Player not found"})
			return
		}
		page, _ := strconv.Atoi(r.PathValue("page"))

		history, err := s.Stats.PlayerHistory(id, page)
		if errors.Is(err, game.ErrNotFound) {
			handlers.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "Player not found"})
			return
		}
		if err != nil {
			log.Error("Failed to load player history", "error", err, "playerID", id, "page", page)
			handlers.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "An internal server error occurred while fetching game data."})
			return
		}

		games := make([]map[string]any, 0, len(history.Games))
		for _, g := range history.Games {
			games = append(games, map[string]any{
				"game_id":       g.GameID,
				"date":          g.Date.Format(game.DateLayout),
				"opponent_name": orNA(g.OpponentName),
				"location_name": orNA(g.LocationName),
				"game_avg":      g.Average,
				"game_url":      fmt.Sprintf("/game/%d/statistics", g.GameID),
			})
		}
		handlers.WriteJSON(w, http.StatusOK, map[string]any{
			"games":        games,
			"has_next":     history.Page.HasNext,
			"has_previous": history.Page.HasPrevious,
			"current_page": history.Page.Number,
			"total_pages":  history.Page.TotalPages,
		})
	}
}

func (s *Server) PlayerChartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlers.PathID(r, "id")
		if err != nil {
			http.NotFound(w, r)
			return
		}
		st, err := s.Stats.PlayerStatistics(id)
		if err != nil {
			s.storeError(w, r, err, "Failed to load player statistics")
			return
		}
		points := make([]charts.Point, len(st.Improvement))
		for i, g := range st.Improvement {
			points[i] = charts.Point{Label: g.Date.Format("02/01"), Value: g.Average}
		}
		s.writePNG(w, r, func() ([]byte, error) { return charts.PlayerImprovement(points) })
	}
}

func (s *Server) TopPlayersChartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		top, err := s.Stats.TopPlayers(topPlayersLimit)
		if err != nil {
			s.storeError(w, r, err, "Failed to load top players")
			return
		}
		points := make([]charts.Point, len(top))
		for i, p := range top {
			points[i] = charts.Point{Label: p.Name, Value: p.Average}
		}
		s.writePNG(w, r, func() ([]byte, error) { return charts.TopPlayers(points) })
	}
}

func (s *Server) OpponentStatisticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opponents, err := s.Games.ListLookups(game.KindOpponent)
		if err != nil {
			s.storeError(w, r, err, "Failed to load opponents")
			return
		}
		gameTypes, err := s.Games.ListLookups(game.KindGameType)
		if err != nil {
			s.storeError(w, r, err, "Failed to load game types")
			return
		}
		opponentID := handlers.QueryID(r, "opponent_id")
		gameTypeID := handlers.QueryID(r, "game_type_id")
		data := pageData{
			"Title":      "Opponent statistics",
			"Opponents":  opponents,
			"GameTypes":  gameTypes,
			"OpponentID": opponentID,
			"GameTypeID": gameTypeID,
		}

		if opponentID != 0 {
			st, err := s.Stats.OpponentStatistics(opponentID, gameTypeID)
			switch {
			case err == nil:
				data["Title"] = st.Opponent.Name
				data["Stats"] = st
			case errors.Is(err, stats.ErrNoGames):
				data["Error"] = "No games found matching the selected criteria."
			default:
				s.storeError(w, r, err, "Failed to load opponent statistics")
				return
			}
		}
		s.render(w, r, http.StatusOK, "opponent_stats.html", data)
	}
}

func (s *Server) OpponentChartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlers.PathID(r, "id")
		if err != nil {
			http.NotFound(w, r)
			return
		}
		st, err := s.Stats.OpponentStatistics(id, handlers.QueryID(r, "game_type_id"))
		if err != nil && !errors.Is(err, stats.ErrNoGames) {
			s.storeError(w, r, err, "Failed to load opponent statistics")
			return
		}
		var points []charts.Point
		if st != nil {
			for _, g := range st.Games {
				points = append(points, charts.Point{Label: g.Game.Date.Format("02/01/06"), Value: float64(g.Diff)})
			}
		}
		s.writePNG(w, r, func() ([]byte, error) { return charts.OpponentDifferential(points) })
	}
}

func (s *Server) writePNG(w http.ResponseWriter, r *http.Request, draw func() ([]byte, error)) {
	data, err := draw()
	if err != nil {
		log.Error("Failed to render chart", "error", err, "path", r.URL.Path)
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(data)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
