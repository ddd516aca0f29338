package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	GamesCreated       prometheus.Counter
	GamesEnded         prometheus.Counter
	TurnsRecorded      prometheus.Counter
	TurnsRejected      prometheus.Counter
	RoundsCompleted    prometheus.Counter
	LiveClients        prometheus.Gauge
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	RequestDuration    *prometheus.HistogramVec
	StartupTimeSeconds prometheus.Gauge
}
