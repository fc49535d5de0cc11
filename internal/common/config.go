// Package common provides shared utilities for Wondash
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Wondash
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Clients     ClientsConfig   `toml:"clients"`
	Market      MarketConfig    `toml:"market"`
	Analytics   AnalyticsConfig `toml:"analytics"`
	Auth        AuthConfig      `toml:"auth"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig selects and configures the storage backend.
// Backend is "badger" (embedded, default) or "surreal" (remote).
type StorageConfig struct {
	Backend string        `toml:"backend"`
	Path    string        `toml:"path"`
	Surreal SurrealConfig `toml:"surreal"`
}

// SurrealConfig holds SurrealDB connection settings.
type SurrealConfig struct {
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Quotes QuotesConfig `toml:"quotes"`
	Gemini GeminiConfig `toml:"gemini"`
}

// QuotesConfig holds the market data API configuration
type QuotesConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *QuotesConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// MarketConfig holds market-wide settings: the dashboard index list,
// the FX pair used to normalize foreign holdings into KRW, and the
// exchange calendar timezone for date-axis truncation.
type MarketConfig struct {
	Indices        []string `toml:"indices"`
	FXPair         string   `toml:"fx_pair"`
	FXFallbackRate float64  `toml:"fx_fallback_rate"`
	Timezone       string   `toml:"timezone"`
}

// Location resolves the configured timezone, falling back to Asia/Seoul.
func (c *MarketConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.FixedZone("KST", 9*3600)
	}
	return loc
}

// AnalyticsConfig holds thresholds for the performance analytics pipeline.
type AnalyticsConfig struct {
	MinRawObservations int      `toml:"min_raw_observations"`
	MinAlignedLength   int      `toml:"min_aligned_length"`
	ProbeRanges        []string `toml:"probe_ranges"`
	DefaultRange       string   `toml:"default_range"`
}

// AuthConfig holds JWT session configuration.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"`
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Backend: "badger",
			Path:    "data",
			Surreal: SurrealConfig{
				Address:   "ws://localhost:8000/rpc",
				Namespace: "wondash",
				Database:  "wondash",
			},
		},
		Clients: ClientsConfig{
			Quotes: QuotesConfig{
				BaseURL:   "https://query1.finance.yahoo.com",
				RateLimit: 5,
				Timeout:   "30s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Market: MarketConfig{
			Indices:        []string{"^KS11", "^KQ11", "^GSPC", "^IXIC", "KRW=X"},
			FXPair:         "KRW=X",
			FXFallbackRate: 1200,
			Timezone:       "Asia/Seoul",
		},
		Analytics: AnalyticsConfig{
			MinRawObservations: 10,
			MinAlignedLength:   120,
			ProbeRanges:        []string{"10y", "5y", "3y", "1y"},
			DefaultRange:       "5y",
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("WONDASH_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("WONDASH_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("WONDASH_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("WONDASH_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("WONDASH_DATA_PATH"); path != "" {
		config.Storage.Path = filepath.Clean(path)
	}

	if backend := os.Getenv("WONDASH_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = strings.ToLower(backend)
	}

	if addr := os.Getenv("WONDASH_SURREAL_ADDRESS"); addr != "" {
		config.Storage.Surreal.Address = addr
	}
	if user := os.Getenv("WONDASH_SURREAL_USERNAME"); user != "" {
		config.Storage.Surreal.Username = user
	}
	if pass := os.Getenv("WONDASH_SURREAL_PASSWORD"); pass != "" {
		config.Storage.Surreal.Password = pass
	}

	if url := os.Getenv("WONDASH_QUOTES_BASE_URL"); url != "" {
		config.Clients.Quotes.BaseURL = url
	}

	if rate := os.Getenv("WONDASH_FX_FALLBACK_RATE"); rate != "" {
		if f, err := strconv.ParseFloat(rate, 64); err == nil && f > 0 {
			config.Market.FXFallbackRate = f
		}
	}

	if v := os.Getenv("WONDASH_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("WONDASH_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}
}

// validate rejects configurations the server cannot start with.
func validate(config *Config) error {
	switch config.Storage.Backend {
	case "badger", "surreal":
	default:
		return fmt.Errorf("unknown storage backend %q (expected badger or surreal)", config.Storage.Backend)
	}

	if config.Market.FXFallbackRate <= 0 {
		return fmt.Errorf("fx_fallback_rate must be positive, got %v", config.Market.FXFallbackRate)
	}

	if len(config.Analytics.ProbeRanges) == 0 {
		config.Analytics.ProbeRanges = []string{"10y", "5y", "3y", "1y"}
	}

	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveAPIKey resolves an API key from environment variables, falling back
// to the value configured in the TOML file.
func ResolveAPIKey(name string, fallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key": {"GEMINI_API_KEY", "WONDASH_GEMINI_API_KEY", "GOOGLE_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}
