package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/keiths-skittles/internal/auth"
	"github.com/mauv0809/keiths-skittles/internal/config"
	"github.com/mauv0809/keiths-skittles/internal/database"
	"github.com/mauv0809/keiths-skittles/internal/game"
	server "github.com/mauv0809/keiths-skittles/internal/http"
	"github.com/mauv0809/keiths-skittles/internal/live"
	"github.com/mauv0809/keiths-skittles/internal/metrics"
	"github.com/mauv0809/keiths-skittles/internal/notifier"
	"github.com/mauv0809/keiths-skittles/internal/notifier/slack"
	"github.com/mauv0809/keiths-skittles/internal/pubsub"
	"github.com/mauv0809/keiths-skittles/internal/stats"
	"github.com/mauv0809/keiths-skittles/internal/tracker"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	config.ApplyLogging(cfg.Log)

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	games := game.New(db)
	statsSvc := stats.New(db, games, cfg.GamesPerPage)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	hub := live.NewHub()
	hub.OnCountChange = metricsSvc.SetLiveClients
	go hub.Run()
	defer hub.Stop()

	var notif notifier.Notifier = notifier.Noop{}
	if cfg.Slack.Token != "" && cfg.Slack.ChannelID != "" {
		notif = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		log.Warn("Slack is not configured, game results will only be logged")
	}

	// Without a Google Cloud project, events are delivered in process.
	var local *pubsub.Local
	var ps pubsub.PubSubClient
	if cfg.ProjectID != "" {
		ps = pubsub.New(cfg.ProjectID)
	} else {
		local = pubsub.NewLocal()
		ps = local
	}

	trk := tracker.New(games, statsSvc, notif, metricsSvc, ps, hub)
	if local != nil {
		local.Subscribe(pubsub.EventGameEnded, trk.HandleGameEnded)
		defer local.Wait()
	}

	authn := auth.New(cfg.Auth.SessionSecret, cfg.Auth.StaffPasswordHash)
	s := server.NewServer(db, games, statsSvc, trk, authn, hub, metricsSvc, metricsHandler, cfg)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
