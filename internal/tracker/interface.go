package tracker

import (
	"github.com/mauv0809/keiths-skittles/internal/notifier"
)

// Notifier defines the notification operations required by the tracker.
type Notifier interface {
	notifier.Notifier
}
