package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ConfigError indicates that the provided configuration is invalid.
type ConfigError struct {
	Message string
}

// Error implements the error interface.
func (e ConfigError) Error() string {
	return e.Message
}

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values shared by the
// control-plane server and the scraper worker.
type Config struct {
	// Scrape job settings.
	SearchTerm         string
	Locations          []string
	MaxResultsPerQuery int
	MaxConcurrentPages int
	PhoneMinDigits     int
	Headless           bool

	// Timing and throttle.
	ScrollPauseTime      time.Duration
	MaxScrollAttempts    int
	StaleScrollThreshold int
	DelayMin             time.Duration
	DelayMax             time.Duration

	// Paths.
	DataDir        string
	OutputFilename string
	WorkerBin      string

	// Server settings.
	Port             string
	JWTSecret        string
	TokenTTL         time.Duration
	AdminPassHash    string
	RateLimitControl RateLimitConfig
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		SearchTerm:         strings.TrimSpace(os.Getenv("SCRAPER_SEARCH_TERM")),
		Locations:          splitList(os.Getenv("SCRAPER_LOCATIONS")),
		MaxResultsPerQuery: getEnvInt("SCRAPER_MAX_RESULTS_PER_QUERY", 10),
		MaxConcurrentPages: getEnvInt("SCRAPER_MAX_CONCURRENT_PAGES", 5),
		PhoneMinDigits:     getEnvInt("SCRAPER_PHONE_MIN_DIGITS", 10),
		Headless:           getEnvBool("SCRAPER_HEADLESS", true),

		ScrollPauseTime:      getEnvSeconds("SCRAPER_SCROLL_PAUSE_TIME", 2.0),
		MaxScrollAttempts:    getEnvInt("SCRAPER_MAX_SCROLL_ATTEMPTS", 20),
		StaleScrollThreshold: getEnvInt("SCRAPER_STALE_SCROLL_THRESHOLD", 3),
		DelayMin:             getEnvSeconds("SCRAPER_DELAY_MIN", 3.0),
		DelayMax:             getEnvSeconds("SCRAPER_DELAY_MAX", 5.0),

		DataDir:        getEnv("SCRAPER_DATA_DIR", "."),
		OutputFilename: getEnv("SCRAPER_OUTPUT_FILENAME", "contacts.csv"),
		WorkerBin:      getEnv("SCRAPER_WORKER_BIN", ""),

		Port:          getEnv("PORT", "8080"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:      parseDuration(getEnv("JWT_TTL", "24h")),
		AdminPassHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_CONTROL", "10/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_CONTROL value: %w", err)
	}
	cfg.RateLimitControl = rl

	if cfg.DelayMax < cfg.DelayMin {
		cfg.DelayMin, cfg.DelayMax = cfg.DelayMax, cfg.DelayMin
	}
	if cfg.MaxConcurrentPages <= 0 {
		cfg.MaxConcurrentPages = 1
	}

	return cfg, nil
}

// ValidateForScrape checks the settings a scrape run cannot start without.
func (c *Config) ValidateForScrape() error {
	if strings.TrimSpace(c.SearchTerm) == "" {
		return ConfigError{Message: "search term is required"}
	}
	return nil
}

// OutputPath returns the location of the persisted CSV file.
func (c *Config) OutputPath() string {
	return filepath.Join(c.DataDir, c.OutputFilename)
}

// LogPath returns the location of the worker's append-only run log.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "scraper.log")
}

// LockPath returns the location of the liveness lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.DataDir, "scraper.lock")
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	i, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return fallback
	}
	return i
}

func getEnvBool(key string, fallback bool) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if val == "" {
		return fallback
	}
	switch val {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

func getEnvSeconds(key string, fallback float64) time.Duration {
	val := os.Getenv(key)
	secs := fallback
	if val != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil && f >= 0 {
			secs = f
		}
	}
	return time.Duration(secs * float64(time.Second))
}

func parseDuration(input string) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}
