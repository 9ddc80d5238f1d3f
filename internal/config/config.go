package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// LLMConfig selects and tunes the text-generation backend.
type LLMConfig struct {
	Provider         string
	BaseURL          string
	Model            string
	APIKey           string
	UseIDToken       bool
	Timeout          time.Duration
	Temperature      float64
	MaxTokens        int
	ExtractTimeout   time.Duration
	ExtractMaxTokens int
}

// MapsConfig holds the places provider credentials and search defaults.
type MapsConfig struct {
	APIKey   string
	BaseURL  string
	Lat      float64
	Lng      float64
	Radius   uint
	Region   string
	Language string
}

// CacheConfig selects the cache store and its lifetimes.
type CacheConfig struct {
	Driver      string
	RedisURL    string
	DatabaseURL string
	Namespace   string
	TTL         time.Duration
	PlaceTTL    time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port             string
	Env              string
	LLM              LLMConfig
	Maps             MapsConfig
	Cache            CacheConfig
	RateLimitQuery   RateLimitConfig
	RateLimitNearby  RateLimitConfig
	LexiconFile      string
	MetricsEndpoint  string
	ServiceName      string
	ShutdownDeadline time.Duration
}

// Development reports whether internal error detail may be exposed to clients.
func (c *Config) Development() bool {
	return c.Env == "development" || c.Env == "dev" || c.Env == "local"
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  strings.ToLower(getEnv("APP_ENV", "production")),
		LLM: LLMConfig{
			Provider:         strings.ToLower(getEnv("LLM_PROVIDER", "ollama")),
			BaseURL:          getEnv("LLM_BASE_URL", ""),
			Model:            getEnv("LLM_MODEL", ""),
			APIKey:           getEnv("LLM_API_KEY", ""),
			UseIDToken:       parseBool(getEnv("LLM_USE_ID_TOKEN", "false")),
			Timeout:          parseDuration(getEnv("LLM_TIMEOUT", "30s"), 30*time.Second),
			Temperature:      parseFloat(getEnv("LLM_TEMPERATURE", "0.7"), 0.7),
			MaxTokens:        parseInt(getEnv("LLM_MAX_TOKENS", "512"), 512),
			ExtractTimeout:   parseDuration(getEnv("EXTRACT_TIMEOUT", "8s"), 8*time.Second),
			ExtractMaxTokens: parseInt(getEnv("EXTRACT_MAX_TOKENS", "256"), 256),
		},
		Maps: MapsConfig{
			APIKey:   os.Getenv("GOOGLE_MAPS_API_KEY"),
			BaseURL:  getEnv("MAPS_BASE_URL", ""),
			Lat:      parseFloat(getEnv("DEFAULT_LAT", "-6.2088"), -6.2088),
			Lng:      parseFloat(getEnv("DEFAULT_LNG", "106.8456"), 106.8456),
			Radius:   uint(parseInt(getEnv("DEFAULT_RADIUS", "5000"), 5000)),
			Region:   getEnv("DEFAULT_REGION", "id"),
			Language: getEnv("DEFAULT_LANGUAGE", "id"),
		},
		Cache: CacheConfig{
			Driver:      strings.ToLower(getEnv("CACHE_DRIVER", "memory")),
			RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Namespace:   getEnv("CACHE_NAMESPACE", "placefinder:"),
			TTL:         parseDuration(getEnv("CACHE_TTL", "1h"), time.Hour),
			PlaceTTL:    parseDuration(getEnv("PLACE_CACHE_TTL", "24h"), 24*time.Hour),
		},
		LexiconFile:      os.Getenv("LEXICON_FILE"),
		MetricsEndpoint:  os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:      getEnv("SERVICE_NAME", "place-finder"),
		ShutdownDeadline: parseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),
	}

	switch cfg.LLM.Provider {
	case "ollama", "llamacpp", "gemini":
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER value: %q", cfg.LLM.Provider)
	}

	switch cfg.Cache.Driver {
	case "memory", "redis", "postgres", "none":
	default:
		return nil, fmt.Errorf("invalid CACHE_DRIVER value: %q", cfg.Cache.Driver)
	}
	if cfg.Cache.Driver == "postgres" && cfg.Cache.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when CACHE_DRIVER=postgres")
	}

	if cfg.LLM.ExtractTimeout >= cfg.LLM.Timeout {
		return nil, fmt.Errorf("EXTRACT_TIMEOUT (%s) must be shorter than LLM_TIMEOUT (%s)", cfg.LLM.ExtractTimeout, cfg.LLM.Timeout)
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_QUERY", "30/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_QUERY value: %w", err)
	}
	cfg.RateLimitQuery = rl

	rl, err = parseRateLimit(getEnv("RATE_LIMIT_NEARBY", "60/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_NEARBY value: %w", err)
	}
	cfg.RateLimitNearby = rl

	return cfg, nil
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

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(input string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseFloat(input string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseBool(input string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(input))
	return err == nil && b
}
