package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config is read once at startup from the environment (and .env when present).
type Config struct {
	DatabaseURL    string
	Port           string
	DefaultBet     decimal.Decimal
	DefaultEdge    decimal.Decimal
	DefaultPattern string
	DrawInterval   time.Duration
	CardsFile      string
	AllowedOrigins []string
	AutoCreate     bool
	HistorySize    int
	LogLevel       string
	LogFile        string
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Port:           getenv("PORT", "4000"),
		DefaultPattern: getenv("DEFAULT_PATTERN", "fullHouse"),
		CardsFile:      os.Getenv("CARDS_FILE"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFile:        os.Getenv("LOG_FILE"),
	}

	var err error
	if cfg.DefaultBet, err = decimal.NewFromString(getenv("DEFAULT_BET_AMOUNT", "10")); err != nil {
		return nil, fmt.Errorf("DEFAULT_BET_AMOUNT: %w", err)
	}
	if cfg.DefaultEdge, err = decimal.NewFromString(getenv("DEFAULT_HOUSE_EDGE", "15")); err != nil {
		return nil, fmt.Errorf("DEFAULT_HOUSE_EDGE: %w", err)
	}
	if cfg.DrawInterval, err = time.ParseDuration(getenv("DRAW_INTERVAL", "6s")); err != nil {
		return nil, fmt.Errorf("DRAW_INTERVAL: %w", err)
	}
	if cfg.AutoCreate, err = strconv.ParseBool(getenv("AUTO_CREATE_ON_ACTIVATE", "true")); err != nil {
		return nil, fmt.Errorf("AUTO_CREATE_ON_ACTIVATE: %w", err)
	}
	if cfg.HistorySize, err = strconv.Atoi(getenv("HISTORY_SIZE", "20")); err != nil {
		return nil, fmt.Errorf("HISTORY_SIZE: %w", err)
	}
	if cfg.HistorySize < 0 {
		return nil, fmt.Errorf("HISTORY_SIZE: must not be negative, got %d", cfg.HistorySize)
	}

	for _, origin := range strings.Split(getenv("ALLOWED_ORIGINS", "http://localhost:3000"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
