package notifier

import (
	"github.com/charmbracelet/log"
	"github.com/mauv0809/keiths-skittles/internal/stats"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For games ended from the round complete page
	SendGameResult(st *stats.GameStats, dryRun bool) error
}

// Noop drops every notification. It is used when no provider is configured.
type Noop struct{}

var _ Notifier = Noop{}

func (Noop) SendGameResult(st *stats.GameStats, dryRun bool) error {
	log.Debug("Notifications disabled, skipping game result", "gameID", st.Game.ID)
	return nil
}
