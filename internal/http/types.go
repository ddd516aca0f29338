package http

import (
	"html/template"
	"net/http"

	"github.com/mauv0809/keiths-skittles/internal/auth"
	"github.com/mauv0809/keiths-skittles/internal/config"
	"github.com/mauv0809/keiths-skittles/internal/game"
	"github.com/mauv0809/keiths-skittles/internal/http/handlers"
	"github.com/mauv0809/keiths-skittles/internal/live"
	"github.com/mauv0809/keiths-skittles/internal/metrics"
	"github.com/mauv0809/keiths-skittles/internal/stats"
	"github.com/mauv0809/keiths-skittles/internal/tracker"
)

type Server struct {
	DB             handlers.Pinger
	Games          game.Store
	Stats          stats.Service
	Tracker        *tracker.Tracker
	Auth           *auth.Authenticator
	Hub            *live.Hub
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux

	handler      http.Handler
	pages        map[string]*template.Template
	loginLimiter *auth.IPRateLimiter
}

// pageData is handed to every page template. Staff and Title are filled in
// by render.
type pageData map[string]any
