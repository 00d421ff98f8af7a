// Package config loads server settings from the environment.
//
// An optional .env file is read first; variables already set in the
// environment take precedence over it.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port      int    `env:"PORT,default=8080"`
	DBPath    string `env:"DB_PATH,default=./data/splitogram.db"`
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,default=720h"`

	TonAPIKey         string        `env:"TONAPI_KEY"`
	TonAPIURL         string        `env:"TONAPI_URL,default=https://testnet.tonapi.io"`
	OracleTimeout     time.Duration `env:"ORACLE_TIMEOUT,default=10s"`
	USDTMasterAddress string        `env:"USDT_MASTER_ADDRESS"`

	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	PagesURL         string `env:"PAGES_URL"`
	RedisURL         string `env:"REDIS_URL"`
	NotifyQueueSize  int    `env:"NOTIFY_QUEUE_SIZE,default=256"`

	PendingSweepSchedule string `env:"PENDING_SWEEP_SCHEDULE,default=@every 1m"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS,default=10"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST,default=20"`
}

// Load reads envFile (if it exists) and decodes the environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings the HTTP server cannot run without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q (want text or json)", c.LogFormat)
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return errors.New("rate limits must not be negative")
	}
	return nil
}
