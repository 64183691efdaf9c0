package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Default table names. Test mode points the engine at the UAT watchlist
// so production rows are never touched by rehearsal runs.
const (
	TableWatchlist    = "ipo_trades"
	TableWatchlistUAT = "ipo_trades_uat"
	TableTradeHistory = "trade_history"
)

// RegionLimits holds the take-profit / stop-loss percentages for one
// region. Values are percent offsets from entry (10 = 10%).
type RegionLimits struct {
	TakeProfitPct float64
	StopLossPct   float64
}

// Config is the explicit configuration value handed to the engine's
// constructors. Nothing reads the environment past Load.
type Config struct {
	DatabaseURL string
	TestMode    bool

	DiscordWebhookURL  string
	FCMCredentialsPath string
	FCMCredentialsJSON string
	FCMDeviceTokens    []string

	MarketDataBaseURL string
	HTTPTimeout       time.Duration
	QuoteDelay        time.Duration

	RSIPeriod           int
	BreakerThresholdPct float64
	BreakerBypass       bool

	LimitsUS RegionLimits
	LimitsTH RegionLimits
}

// WatchlistTable returns the watchlist table for the configured mode.
func (c *Config) WatchlistTable() string {
	if c.TestMode {
		return TableWatchlistUAT
	}
	return TableWatchlist
}

// Load reads .env (if present) and the environment into a Config.
// A missing database URL is fatal: the engine cannot run without its
// store, so the error aborts before any scan begins.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		TestMode:           strings.EqualFold(strings.TrimSpace(os.Getenv("TEST_MODE")), "on"),
		DiscordWebhookURL:  strings.TrimSpace(os.Getenv("DISCORD_WEBHOOK")),
		FCMCredentialsPath: strings.TrimSpace(os.Getenv("FIREBASE_CREDENTIALS_PATH")),
		FCMCredentialsJSON: strings.TrimSpace(os.Getenv("FIREBASE_CREDENTIALS_JSON")),
		MarketDataBaseURL:  strings.TrimSpace(os.Getenv("MARKET_DATA_BASE_URL")),

		HTTPTimeout: envDuration("HTTP_TIMEOUT", 10*time.Second),
		QuoteDelay:  envDuration("QUOTE_DELAY", time.Second),

		RSIPeriod:           envInt("RSI_PERIOD", 14),
		BreakerThresholdPct: envFloat("BREAKER_THRESHOLD_PCT", -1.5),
		BreakerBypass:       strings.EqualFold(strings.TrimSpace(os.Getenv("BREAKER_BYPASS")), "on"),

		LimitsUS: RegionLimits{
			TakeProfitPct: envFloat("TP_PCT_US", 10.0),
			StopLossPct:   envFloat("SL_PCT_US", 5.0),
		},
		LimitsTH: RegionLimits{
			TakeProfitPct: envFloat("TP_PCT_TH", 7.0),
			StopLossPct:   envFloat("SL_PCT_TH", 3.5),
		},
	}

	if tokens := strings.TrimSpace(os.Getenv("FCM_DEVICE_TOKENS")); tokens != "" {
		for _, t := range strings.Split(tokens, ",") {
			if t = strings.TrimSpace(t); t != "" {
				cfg.FCMDeviceTokens = append(cfg.FCMDeviceTokens, t)
			}
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("config: DATABASE_URL is required")
	}

	return cfg, nil
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
