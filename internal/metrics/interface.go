package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncGamesCreated()
	IncGamesEnded()
	IncTurnsRecorded()
	IncTurnsRejected()
	IncRoundsCompleted()
	SetLiveClients(n int)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	ObserveRequestDuration(route string, seconds float64)
	SetStartupTime(duration float64)
}
