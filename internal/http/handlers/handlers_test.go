package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mauv0809/keiths-skittles/internal/game"
	"github.com/mauv0809/keiths-skittles/internal/live"
	"github.com/mauv0809/keiths-skittles/internal/metrics"
	"github.com/mauv0809/keiths-skittles/internal/notifier"
	"github.com/mauv0809/keiths-skittles/internal/pubsub"
	"github.com/mauv0809/keiths-skittles/internal/stats"
	"github.com/mauv0809/keiths-skittles/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) PingContext(ctx context.Context) error { return p.err }

func TestHealthCheckHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	HealthCheckHandler(pinger{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())

	rr = httptest.NewRecorder()
	HealthCheckHandler(pinger{err: errors.New("db gone")}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestListGamesHandler(t *testing.T) {
	svc := stats.NewMock()
	var got stats.PastGamesQuery
	svc.PastGamesFunc = func(q stats.PastGamesQuery) (*stats.PastGamesPage, error) {
		got = q
		return &stats.PastGamesPage{Page: stats.Paginate(0, 5, q.Page)}, nil
	}

	rr := httptest.NewRecorder()
	ListGamesHandler(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/games?page=2&opponent=4&location=x&result=Loss", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, stats.PastGamesQuery{OpponentID: 4, Result: stats.ResultLoss, Page: 2}, got)

	svc.PastGamesFunc = func(q stats.PastGamesQuery) (*stats.PastGamesPage, error) {
		return nil, errors.New("boom")
	}
	rr = httptest.NewRecorder()
	ListGamesHandler(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/games", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error": "Failed to get games"}`, rr.Body.String())
}

func TestStatisticsHandlers_NotFound(t *testing.T) {
	svc := stats.NewMock()
	svc.GameStatisticsFunc = func(id int64) (*stats.GameStats, error) {
		return nil, game.ErrNotFound
	}
	svc.PlayerStatisticsFunc = func(id int64) (*stats.PlayerStats, error) {
		assert.Equal(t, int64(7), id)
		return nil, game.ErrNotFound
	}

	req := httptest.NewRequest(http.MethodGet, "/api/games/3/statistics", nil)
	req.SetPathValue("id", "3")
	rr := httptest.NewRecorder()
	GameStatisticsHandler(svc).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/players/7/statistics", nil)
	req.SetPathValue("id", "7")
	rr = httptest.NewRecorder()
	PlayerStatisticsHandler(svc).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/players/abc/statistics", nil)
	req.SetPathValue("id", "abc")
	rr = httptest.NewRecorder()
	PlayerStatisticsHandler(svc).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGameStateHandler(t *testing.T) {
	store := game.NewMock()
	store.GetGameFunc = func(id int64) (*game.Game, error) {
		if id != 5 {
			return nil, game.ErrNotFound
		}
		return &game.Game{ID: 5, CyclesPerRound: 3, CurrentRound: 1, OpponentName: "Red Lion"}, nil
	}
	store.LatestRoundFunc = func(gameID int64) (int, error) { return 1, nil }
	trk := tracker.New(store, stats.NewMock(), notifier.NewMock(), metrics.NewMock(), pubsub.NewMock(), live.NewMock())

	req := httptest.NewRequest(http.MethodGet, "/api/games/5/state", nil)
	req.SetPathValue("id", "5")
	rr := httptest.NewRecorder()
	GameStateHandler(trk).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var st tracker.State
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &st))
	assert.True(t, st.NeedsPlayers)
	assert.Equal(t, "Set up teams for Round 1.", st.Message)

	req = httptest.NewRequest(http.MethodGet, "/api/games/6/state", nil)
	req.SetPathValue("id", "6")
	rr = httptest.NewRecorder()
	GameStateHandler(trk).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestValidateTurnHandler(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"strike then spare", "roll1=9&roll2=4&roll3=5", http.StatusOK},
		{"third roll too high", "roll1=9&roll2=4&roll3=6", http.StatusUnprocessableEntity},
		{"missing roll", "roll1=3&roll2=2", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			ValidateTurnHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/validate?"+tt.query, nil))
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		})
	}
}

func TestPushHandler(t *testing.T) {
	var got []byte
	handle := func(ctx context.Context, data []byte) error {
		got = data
		if string(data) == "fail" {
			return errors.New("handler failed")
		}
		return nil
	}

	post := func(body string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		PushHandler("game-ended", handle).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/events/game-ended", strings.NewReader(body)))
		return rr
	}

	rr := post(`{"message": {"data": "aGVsbG8=", "messageId": "1"}}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "hello", string(got))

	rr = post(`{"message": {"data": "ZmFpbA=="}}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	rr = post(`{"message": {}}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = post(`{`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestQueryID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?a=12&b=-3&c=x", nil)
	assert.Equal(t, int64(12), QueryID(r, "a"))
	assert.Equal(t, int64(0), QueryID(r, "b"))
	assert.Equal(t, int64(0), QueryID(r, "c"))
	assert.Equal(t, int64(0), QueryID(r, "missing"))
}
