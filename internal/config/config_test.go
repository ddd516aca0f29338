package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("DB_NAME", "")
	t.Setenv("PORT", "")
	t.Setenv("GAMES_PER_PAGE", "")
	t.Setenv("TURSO_PRIMARY_URL", "")

	cfg := Load()

	assert.Equal(t, "skittles.db", cfg.DBName)
	assert.Equal(t, "./migrations", cfg.MigrationsDir)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5, cfg.GamesPerPage)
	assert.Equal(t, "secret", cfg.Auth.SessionSecret)
	assert.Empty(t, cfg.Turso.PrimaryURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("DB_NAME", "league.db")
	t.Setenv("PORT", "9090")
	t.Setenv("GAMES_PER_PAGE", "10")
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-test")
	t.Setenv("SLACK_CHANNEL_ID", "C123")
	t.Setenv("GCP_PROJECT", "skittles")

	cfg := Load()

	assert.Equal(t, "league.db", cfg.DBName)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 10, cfg.GamesPerPage)
	assert.Equal(t, "xoxb-test", cfg.Slack.Token)
	assert.Equal(t, "C123", cfg.Slack.ChannelID)
	assert.Equal(t, "skittles", cfg.ProjectID)
}

func TestGetEnvInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("GAMES_PER_PAGE", "zero")
	assert.Equal(t, 5, getEnvInt("GAMES_PER_PAGE", 5))

	t.Setenv("GAMES_PER_PAGE", "-3")
	assert.Equal(t, 5, getEnvInt("GAMES_PER_PAGE", 5))
}
