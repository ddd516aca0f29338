package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		GamesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skittles_games_created_total",
			Help: "The total number of games set up.",
		}),
		GamesEnded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skittles_games_ended_total",
			Help: "The total number of games ended from the round complete page.",
		}),
		TurnsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skittles_turns_recorded_total",
			Help: "The total number of turns stored.",
		}),
		TurnsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skittles_turns_rejected_total",
			Help: "The total number of turns rejected by roll validation.",
		}),
		RoundsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skittles_rounds_completed_total",
			Help: "The total number of rounds that reached their last cycle.",
		}),
		LiveClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "skittles_live_clients",
			Help: "The number of websocket clients watching games.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skittles_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skittles_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skittles_http_request_duration_seconds",
			Help:    "The duration of HTTP requests by route.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"route"}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "skittles_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.GamesCreated,
		s.GamesEnded,
		s.TurnsRecorded,
		s.TurnsRejected,
		s.RoundsCompleted,
		s.LiveClients,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.RequestDuration,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncGamesCreated() {
	s.GamesCreated.Inc()
}

func (s *Service) IncGamesEnded() {
	s.GamesEnded.Inc()
}

func (s *Service) IncTurnsRecorded() {
	s.TurnsRecorded.Inc()
}

func (s *Service) IncTurnsRejected() {
	s.TurnsRejected.Inc()
}

func (s *Service) IncRoundsCompleted() {
	s.RoundsCompleted.Inc()
}

func (s *Service) SetLiveClients(n int) {
	s.LiveClients.Set(float64(n))
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) ObserveRequestDuration(route string, seconds float64) {
	s.RequestDuration.WithLabelValues(route).Observe(seconds)
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
