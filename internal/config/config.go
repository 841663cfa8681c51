package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP API
	HTTPHost string
	HTTPPort int

	// Providers
	BalldontlieAPIKey string
	OddsAPIKey        string
	OddsAPIEnabled    bool
	// OddsAPIHistorical gates past-date market lookups. The historical
	// snapshots endpoint is paywalled, so this stays off unless someone
	// has a plan that includes it.
	OddsAPIHistorical bool

	// Per-host concurrency cap for upstream fetches.
	ProviderConcurrency int
	ProviderTimeout     time.Duration

	// Pipeline defaults
	WindowDays    int
	WeightsPath   string // optional YAML override for model weights
	SlateCacheTTL time.Duration

	// Grading
	GradingDBPath  string
	NightlyHourUTC int
	NightlyEnabled bool

	// Telemetry
	LogLevel string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPHost: envStr("EDGEBOARD_HOST", "0.0.0.0"),
		HTTPPort: envInt("EDGEBOARD_PORT", 8090),

		BalldontlieAPIKey: envStr("BALLDONTLIE_API_KEY", ""),
		OddsAPIKey:        envStr("ODDS_API_KEY", ""),
		OddsAPIEnabled:    envStr("ODDS_API_ENABLED", "true") == "true",
		OddsAPIHistorical: envStr("ODDS_API_HISTORICAL", "false") == "true",

		ProviderConcurrency: envInt("PROVIDER_CONCURRENCY", 4),
		ProviderTimeout:     time.Duration(envInt("PROVIDER_TIMEOUT_SEC", 15)) * time.Second,

		WindowDays:    envInt("WINDOW_DAYS", 45),
		WeightsPath:   envStr("MODEL_WEIGHTS_PATH", ""),
		SlateCacheTTL: time.Duration(envInt("SLATE_CACHE_TTL_SEC", 600)) * time.Second,

		GradingDBPath:  envStr("GRADING_DB_PATH", "data/grading.db"),
		NightlyHourUTC: envInt("NIGHTLY_HOUR_UTC", 9),
		NightlyEnabled: envStr("NIGHTLY_ENABLED", "true") == "true",

		LogLevel: envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
