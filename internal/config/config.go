package config

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const defaultGamesPerPage = 5

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	cfg := Config{
		DBName:        getEnvDefault("DB_NAME", "skittles.db"),
		MigrationsDir: getEnvDefault("MIGRATIONS_DIR", "./migrations"),
		Port:          getEnvDefault("PORT", "8080"),
		Turso: TursoConfig{
			PrimaryURL: os.Getenv("TURSO_PRIMARY_URL"),
			AuthToken:  os.Getenv("TURSO_AUTH_TOKEN"),
		},
		Auth: AuthConfig{
			SessionSecret:     getEnv("SESSION_SECRET"),
			StaffPasswordHash: os.Getenv("STAFF_PASSWORD_HASH"),
		},
		Slack: SlackConfig{
			Token:     os.Getenv("SLACK_BOT_TOKEN"),
			ChannelID: os.Getenv("SLACK_CHANNEL_ID"),
		},
		ProjectID:    os.Getenv("GCP_PROJECT"),
		GamesPerPage: getEnvInt("GAMES_PER_PAGE", defaultGamesPerPage),
		Log: LogConfig{
			Level:  getEnvDefault("LOG_LEVEL", "info"),
			Format: getEnvDefault("LOG_FORMAT", "json"),
		},
	}
	if cfg.Auth.StaffPasswordHash == "" {
		log.Warn("STAFF_PASSWORD_HASH is not set, staff pages are not protected")
	}
	return cfg
}

func getEnvDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		log.Warn("Ignoring invalid integer environment variable", "key", key, "value", raw)
		return fallback
	}
	return value
}

// ApplyLogging configures the global logger from cfg.
func ApplyLogging(cfg LogConfig) {
	if cfg.Format != "text" {
		log.SetFormatter(log.JSONFormatter)
	}
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.Warn("Unknown log level, using info", "level", cfg.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
