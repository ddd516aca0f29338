package handlers

import (
	"net/http"
	"strconv"

	"github.com/mauv0809/keiths-skittles/internal/scoring"
	"github.com/mauv0809/keiths-skittles/internal/stats"
	"github.com/mauv0809/keiths-skittles/internal/tracker"
)

func ListGamesHandler(svc stats.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		games, err := svc.PastGames(stats.PastGamesQuery{
			OpponentID: QueryID(r, "opponent"),
			LocationID: QueryID(r, "location"),
			Result:     stats.ParseResult(r.URL.Query().Get("result")),
			Page:       page,
		})
		if err != nil {
			WriteError(w, err, "Failed to get games")
			return
		}
		WriteJSON(w, http.StatusOK, games)
	}
}

func GameStateHandler(trk *tracker.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := PathID(r, "id")
		if err != nil {
			http.Error(w, "Invalid game id", http.StatusBadRequest)
			return
		}
		st, err := trk.State(id)
		if err != nil {
			WriteError(w, err, "Failed to get game state")
			return
		}
		WriteJSON(w, http.StatusOK, st)
	}
}

func GameStatisticsHandler(svc stats.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := PathID(r, "id")
		if err != nil {
			http.Error(w, "Invalid game id", http.StatusBadRequest)
			return
		}
		st, err := svc.GameStatistics(id)
		if err != nil {
			WriteError(w, err, "Failed to get game statistics")
			return
		}
		WriteJSON(w, http.StatusOK, st)
	}
}

func PlayerStatisticsHandler(svc stats.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := PathID(r, "id")
		if err != nil {
			http.Error(w, "Invalid player id", http.StatusBadRequest)
			return
		}
		st, err := svc.PlayerStatistics(id)
		if err != nil {
			WriteError(w, err, "Failed to get player statistics")
			return
		}
		WriteJSON(w, http.StatusOK, st)
	}
}

// ValidateTurnHandler checks rolls given as roll1, roll2 and roll3 query
// parameters without storing anything.
func ValidateTurnHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		res := scoring.ParseTurn(q.Get(scoring.FieldRoll1), q.Get(scoring.FieldRoll2), q.Get(scoring.FieldRoll3))
		status := http.StatusOK
		if !res.OK {
			status = http.StatusUnprocessableEntity
		}
		WriteJSON(w, status, res)
	}
}
