package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Fund describes one tracked institutional manager.
// The registry is static: funds are not created or removed at runtime.
type Fund struct {
	Name        string `json:"name"`
	ShortName   string `json:"short_name"`
	CIK         string `json:"cik"` // zero-padded 10-digit identifier
	Style       string `json:"style"`
	Description string `json:"description"`
}

// Config holds application configuration
type Config struct {
	Port            int
	DevMode         bool
	LogLevel        string
	DatabasePath    string
	EdgarUserAgent  string
	EdgarFormType   string
	MinFetchGap     time.Duration
	RequestTimeout  time.Duration
	CacheTTL        time.Duration
	DefaultQuarters int
	NewsSchedule    string

	Funds []Fund
}

// DefaultFunds is the static registry of tracked managers.
var DefaultFunds = []Fund{
	{
		Name:        "TCI Fund Management",
		ShortName:   "TCI",
		CIK:         "0001647251",
		Style:       "Concentrated Quality",
		Description: "The Children's Investment Fund - concentrated, long-term quality compounder strategy",
	},
	{
		Name:        "Egerton Capital",
		ShortName:   "Egerton",
		CIK:         "0001535392",
		Style:       "Quality Growth",
		Description: "European-origin fund focused on quality growth businesses globally",
	},
	{
		Name:        "AKO Capital",
		ShortName:   "AKO",
		CIK:         "0001606058",
		Style:       "Quality Growth",
		Description: "Quality growth investor with long-term, concentrated approach",
	},
	{
		Name:        "ValueAct Capital",
		ShortName:   "ValueAct",
		CIK:         "0001418814",
		Style:       "Activist / Concentrated",
		Description: "Activist investor taking concentrated positions with board engagement",
	},
	{
		Name:        "Lone Pine Capital",
		ShortName:   "Lone Pine",
		CIK:         "0001061768",
		Style:       "Growth / Tiger Cub",
		Description: "Tiger Cub fund focused on growth equities, long/short strategy",
	},
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnvAsInt("PORT", 8001),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DatabasePath:    getEnv("DATABASE_PATH", "./data/fundwatch.db"),
		EdgarUserAgent:  getEnv("EDGAR_USER_AGENT", "FundWatch admin@fundwatch.app"),
		EdgarFormType:   getEnv("EDGAR_FORM_TYPE", "13F-HR"),
		MinFetchGap:     getEnvAsDuration("EDGAR_MIN_FETCH_GAP", 150*time.Millisecond),
		RequestTimeout:  getEnvAsDuration("EDGAR_REQUEST_TIMEOUT", 20*time.Second),
		CacheTTL:        getEnvAsDuration("CACHE_TTL", time.Hour),
		DefaultQuarters: getEnvAsInt("DEFAULT_QUARTERS", 2),
		NewsSchedule:    getEnv("NEWS_SYNC_SCHEDULE", "@every 30m"),
		Funds:           DefaultFunds,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.EdgarUserAgent == "" {
		// EDGAR rejects anonymous requests, so refusing to start beats
		// failing on every fetch.
		return fmt.Errorf("EDGAR_USER_AGENT is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if len(c.Funds) == 0 {
		return fmt.Errorf("fund registry is empty")
	}
	for _, f := range c.Funds {
		if len(f.CIK) != 10 {
			return fmt.Errorf("fund %q: CIK must be zero-padded to 10 digits, got %q", f.Name, f.CIK)
		}
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
