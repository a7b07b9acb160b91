// Package config provides application configuration loading. Values come from
// a .env file when present, then the process environment, then an optional
// YAML override file pointed at by HOTEL_EXPLORER_CONFIG.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeLive Mode = "live"
	ModeMock Mode = "mock"
)

type Config struct {
	HTTPAddr string `yaml:"http_addr"`
	Mode     Mode   `yaml:"mode"`
	LogLevel string `yaml:"log_level"`

	AmadeusBaseURL string `yaml:"amadeus_base_url"`
	ClientID       string `yaml:"client_id"`
	ClientSecret   string `yaml:"client_secret"`

	SearchTimeout  time.Duration `yaml:"search_timeout"`
	OffersCacheTTL time.Duration `yaml:"offers_cache_ttl"`
	SessionTTL     time.Duration `yaml:"session_ttl"`

	RateLimit       int           `yaml:"rate_limit"`
	RateLimitWindow time.Duration `yaml:"rate_limit_window"`
}

func defaults() Config {
	return Config{
		HTTPAddr:        ":8080",
		Mode:            ModeLive,
		LogLevel:        "info",
		AmadeusBaseURL:  "https://test.api.amadeus.com",
		SearchTimeout:   10 * time.Second,
		OffersCacheTTL:  30 * time.Second,
		SessionTTL:      30 * time.Minute,
		RateLimit:       30,
		RateLimitWindow: time.Minute,
	}
}

// Load builds the configuration. A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("HOTEL_EXPLORER_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.HTTPAddr = ":" + v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("EXPLORER_MODE"); v != "" {
		switch strings.ToLower(v) {
		case "mock":
			cfg.Mode = ModeMock
		case "live":
			cfg.Mode = ModeLive
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("AMADEUS_BASE_URL"); v != "" {
		cfg.AmadeusBaseURL = v
	}
	if v := os.Getenv("AMADEUS_CLIENT_ID"); v != "" {
		cfg.ClientID = v
	}
	if v := os.Getenv("AMADEUS_CLIENT_SECRET"); v != "" {
		cfg.ClientSecret = v
	}
	if d, ok := envDuration("SEARCH_TIMEOUT"); ok {
		cfg.SearchTimeout = d
	}
	if d, ok := envDuration("OFFERS_CACHE_TTL"); ok {
		cfg.OffersCacheTTL = d
	}
	if d, ok := envDuration("SESSION_TTL"); ok {
		cfg.SessionTTL = d
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid RATE_LIMIT %q", v)
		}
		cfg.RateLimit = n
	}

	return cfg, nil
}

// ValidateLive checks the fields required to talk to the upstream API.
func (c Config) ValidateLive() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("AMADEUS_CLIENT_ID and AMADEUS_CLIENT_SECRET are required in live mode")
	}
	return nil
}

func envDuration(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, false
	}
	return d, true
}
