package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_CountsAndExposes(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncTurnsRecorded()
	s.IncTurnsRecorded()
	s.IncTurnsRejected()
	s.SetLiveClients(3)
	s.ObserveRequestDuration("/game/{id}/turn", 0.02)

	rec := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "skittles_turns_recorded_total 2")
	assert.Contains(t, body, "skittles_turns_rejected_total 1")
	assert.Contains(t, body, "skittles_live_clients 3")
	assert.Contains(t, body, `skittles_http_request_duration_seconds_count{route="/game/{id}/turn"} 1`)
}

func TestMock(t *testing.T) {
	m := NewMock()
	m.IncGamesCreated()
	m.IncSlackNotifFailed()
	m.SetLiveClients(2)
	m.ObserveRequestDuration("/", 0.1)

	assert.Equal(t, 1, m.GamesCreated())
	assert.Equal(t, 1, m.SlackNotifFailed())
	assert.Equal(t, 2, m.LiveClients())
	assert.Equal(t, []string{"/"}, m.RequestRoutes())
}
