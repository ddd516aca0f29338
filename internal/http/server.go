package http

import (
	"net/http"
	"time"

	"github.com/mauv0809/keiths-skittles/internal/auth"
	"github.com/mauv0809/keiths-skittles/internal/config"
	"github.com/mauv0809/keiths-skittles/internal/game"
	"github.com/mauv0809/keiths-skittles/internal/http/handlers"
	"github.com/mauv0809/keiths-skittles/internal/live"
	"github.com/mauv0809/keiths-skittles/internal/metrics"
	"github.com/mauv0809/keiths-skittles/internal/pubsub"
	"github.com/mauv0809/keiths-skittles/internal/stats"
	"github.com/mauv0809/keiths-skittles/internal/tracker"
	"golang.org/x/time/rate"
)

func NewServer(db handlers.Pinger, games game.Store, statsSvc stats.Service, trk *tracker.Tracker, authn *auth.Authenticator, hub *live.Hub, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		DB:             db,
		Games:          games,
		Stats:          statsSvc,
		Tracker:        trk,
		Auth:           authn,
		Hub:            hub,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		pages:          mustParsePages(),
		// Five login attempts, then one every twelve seconds per address.
		loginLimiter: auth.NewIPRateLimiter(rate.Every(12*time.Second), 5),
	}

	server.routes()
	server.handler = Chain(server.Router, recoverMiddleware, requestIDMiddleware)
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, s.staff)
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.handle("GET /health", handlers.HealthCheckHandler(s.DB))

	s.handle("GET /{$}", s.PastGamesHandler())
	s.handle("GET /past-games", s.PastGamesHandler())
	s.handle("GET /login", s.LoginPageHandler())
	s.handle("POST /login", s.LoginHandler(), s.loginLimiter.Limit)
	s.handle("POST /logout", s.LogoutHandler())

	s.handle("GET /start", s.StartGamePageHandler(), s.staff)
	s.handle("POST /start", s.StartGameHandler(), s.staff)
	s.handle("GET /game/{id}", s.LiveGameHandler(), s.staff)
	s.handle("POST /game/{id}/players", s.SelectPlayersHandler(), s.staff)
	s.handle("POST /game/{id}/turn", s.SubmitTurnHandler(), s.staff)
	s.handle("GET /game/{id}/round-complete", s.RoundCompletePageHandler(), s.staff)
	s.handle("POST /game/{id}/round-complete", s.RoundCompleteHandler(), s.staff)
	s.handle("POST /game/{id}/delete", s.DeleteGameHandler(), s.staff)
	s.handle("GET /game/{id}/statistics", s.GameStatisticsHandler())
	s.handle("GET /game/{id}/detail", s.GameDetailHandler())
	s.handle("GET /game/{id}/export.xlsx", s.ExportGameHandler())

	s.handle("GET /players", s.PlayersPageHandler(), s.staff)
	s.handle("POST /players", s.AddPlayerHandler(), s.staff)
	s.handle("GET /player-stats", s.PlayerStatisticsHandler())
	s.handle("GET /player-stats/{id}/history/{page}", s.PlayerHistoryHandler())
	s.handle("GET /player-stats/{id}/chart.png", s.PlayerChartHandler())
	s.handle("GET /player-stats/top.png", s.TopPlayersChartHandler())
	s.handle("GET /opponent-stats", s.OpponentStatisticsHandler())
	s.handle("GET /opponent-stats/{id}/chart.png", s.OpponentChartHandler())

	s.handle("POST /ajax/add-opponent", s.AddLookupHandler(game.KindOpponent), s.staff)
	s.handle("POST /ajax/add-location", s.AddLookupHandler(game.KindLocation), s.staff)
	s.handle("POST /ajax/add-game-type", s.AddLookupHandler(game.KindGameType), s.staff)

	s.handle("GET /ws/game/{id}", s.LiveUpdatesHandler())
	s.handle("POST /events/game-ended", handlers.PushHandler(string(pubsub.EventGameEnded), s.Tracker.HandleGameEnded))

	s.handle("GET /api/games", handlers.ListGamesHandler(s.Stats))
	s.handle("GET /api/games/{id}/state", handlers.GameStateHandler(s.Tracker))
	s.handle("GET /api/games/{id}/statistics", handlers.GameStatisticsHandler(s.Stats))
	s.handle("GET /api/players/{id}/statistics", handlers.PlayerStatisticsHandler(s.Stats))
	s.handle("GET /api/validate", handlers.ValidateTurnHandler())
	s.handle("POST /api/login", s.APILoginHandler(), s.loginLimiter.Limit)
	s.handle("POST /api/games/{id}/turns", s.APITurnHandler(), s.staff)
}

// handle registers a route with the common middleware ahead of extra.
func (s *Server) handle(pattern string, h http.Handler, extra ...Middleware) {
	middlewares := append([]Middleware{s.timed(pattern), paramsMiddleware}, extra...)
	s.Router.Handle(pattern, Chain(h, middlewares...))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
