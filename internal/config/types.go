package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Turso         TursoConfig
	Auth          AuthConfig
	Slack         SlackConfig
	ProjectID     string
	GamesPerPage  int
	Log           LogConfig
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type AuthConfig struct {
	SessionSecret string
	// StaffPasswordHash is a bcrypt hash. Staff pages are open when it is empty.
	StaffPasswordHash string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

type LogConfig struct {
	Level  string
	Format string
}
