package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the server.
type Config struct {
	ListenAddr      string
	StoreDriver     string // "memory" or "sqlite"
	DatabaseURL     string
	JWTSecret       string
	SessionTTL      time.Duration
	StatsInterval   time.Duration
	DemoCredentials map[string]string
}

// Load reads configuration from environment variables with sane defaults.
// A local .env file is honored when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:      strings.TrimSpace(os.Getenv("LISTEN_ADDR")),
		StoreDriver:     strings.ToLower(strings.TrimSpace(os.Getenv("STORE_DRIVER"))),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:       strings.TrimSpace(os.Getenv("JWT_SECRET")),
		SessionTTL:      parseHours(strings.TrimSpace(os.Getenv("SESSION_TTL_HOURS"))),
		StatsInterval:   parseHours(strings.TrimSpace(os.Getenv("STATS_INTERVAL_HOURS"))),
		DemoCredentials: parseCredentials(strings.TrimSpace(os.Getenv("DEMO_USERS"))),
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = "memory"
	}
	if cfg.StoreDriver != "memory" && cfg.StoreDriver != "sqlite" {
		return cfg, fmt.Errorf("STORE_DRIVER must be memory or sqlite, got %q", cfg.StoreDriver)
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "taskhub.db"
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if len(cfg.DemoCredentials) == 0 {
		cfg.DemoCredentials = map[string]string{"demo": "demo"}
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func parseHours(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}

// parseCredentials reads "user:pass,user2:pass2" pairs.
func parseCredentials(raw string) map[string]string {
	creds := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		creds[parts[0]] = parts[1]
	}
	return creds
}
