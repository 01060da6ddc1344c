package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Env  string `env:"ENV" envDefault:"development"` // "development" or "production"
}

// GameConfig holds session-related configuration
type GameConfig struct {
	MinPlayers         int           `env:"MIN_PLAYERS" envDefault:"5"`
	MaxPlayers         int           `env:"MAX_PLAYERS" envDefault:"18"`
	NightDeadline      time.Duration `env:"NIGHT_DEADLINE" envDefault:"60s"`
	VoteDeadline       time.Duration `env:"VOTE_DEADLINE" envDefault:"45s"`
	DiscussionDuration time.Duration `env:"DISCUSSION_DURATION" envDefault:"90s"`
	RevengeDeadline    time.Duration `env:"REVENGE_DEADLINE" envDefault:"20s"`
	RoomCodeLength     int           `env:"ROOM_CODE_LENGTH" envDefault:"6"`
	BotSeed            int64         `env:"BOT_SEED" envDefault:"0"` // 0 means time-based
	ResultsDBPath      string        `env:"RESULTS_DB_PATH" envDefault:"werewolf.db"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"` // "json" or "text"
}

// Load reads .env when present, then parses configuration from
// environment variables with defaults
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}
