package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// app config, read from the environment (and .env when present)
type Config struct {
	HTTPAddr  string `env:"HTTP_ADDR" envDefault:":8080"`
	UploadDir string `env:"UPLOAD_DIR" envDefault:"uploads"`
	DBPath    string `env:"DB_PATH" envDefault:"./fashion_scoring.db"`

	PassingScore int   `env:"PASSING_SCORE" envDefault:"60"`
	MaxUploadMB  int64 `env:"MAX_UPLOAD_MB" envDefault:"200"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	SweepSchedule     string        `env:"ORPHAN_SWEEP_SCHEDULE" envDefault:"@every 1h"`
	OrphanGracePeriod time.Duration `env:"ORPHAN_GRACE_PERIOD" envDefault:"24h"`
	PendingTTL        time.Duration `env:"PENDING_TTL" envDefault:"24h"`

	WatchUploads   bool     `env:"WATCH_UPLOADS" envDefault:"true"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env if it exists, then parses and validates the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.UploadDir == "":
		return errors.New("UPLOAD_DIR must not be empty")
	case c.PassingScore < 0 || c.PassingScore > 100:
		return fmt.Errorf("PASSING_SCORE must be between 0 and 100, got %d", c.PassingScore)
	case c.MaxUploadMB <= 0:
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	case c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0:
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	case c.OrphanGracePeriod < 0 || c.PendingTTL < 0:
		return errors.New("ORPHAN_GRACE_PERIOD and PENDING_TTL must not be negative")
	}
	return nil
}

func (c *Config) MaxUploadBytes() int64 { return c.MaxUploadMB << 20 }
