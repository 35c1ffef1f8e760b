package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"guessgame/internal/models"
)

// Config holds application configuration
type Config struct {
	ServerPort   string `env:"PORT" envDefault:"8080" validate:"required,numeric"`
	DatabaseType string `env:"DATABASE_TYPE" envDefault:"sqlite" validate:"oneof=sqlite sqlite3 postgres postgresql mysql"`
	DatabasePath string `env:"DB_PATH" envDefault:"./guessgame.db"`
	DatabaseURL  string `env:"DATABASE_URL"`

	// Defaults applied to every new session
	DefaultRange    int    `env:"DEFAULT_RANGE" envDefault:"20" validate:"min=1"`
	DefaultHardMode bool   `env:"DEFAULT_HARD_MODE" envDefault:"false"`
	DefaultLanguage string `env:"DEFAULT_LANGUAGE" envDefault:"en" validate:"required,bcp47_language_tag"`

	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"4320h" validate:"gt=0"`
	GameTTL    time.Duration `env:"GAME_TTL" envDefault:"120s" validate:"gt=0"`

	CSRFSecret string `env:"CSRF_SECRET" envDefault:"change-me-in-production" validate:"min=8"`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error"`
	LogFormat      string `env:"LOG_FORMAT" envDefault:"console" validate:"oneof=console json"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`

	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
}

var validate = validator.New()

// Load reads an optional .env file, then parses and validates environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the current environment without touching .env
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if !cfg.IsSQLite() && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("invalid configuration: DATABASE_URL is required for %s", cfg.DatabaseType)
	}
	return cfg, nil
}

// IsSQLite reports whether the configured backend is the embedded SQLite database
func (c *Config) IsSQLite() bool {
	return c.DatabaseType == "sqlite" || c.DatabaseType == "sqlite3"
}

// SessionDefaults returns the immutable settings a fresh session starts with
func (c *Config) SessionDefaults() models.SessionDefaults {
	return models.SessionDefaults{
		RangeMax: c.DefaultRange,
		HardMode: c.DefaultHardMode,
		Language: c.DefaultLanguage,
	}
}
