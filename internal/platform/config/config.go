package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile      = ".env"
	defaultPort         = "8080"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 120 * time.Second

	defaultSquareBaseURL    = "https://connect.squareup.com"
	defaultSquareSandboxURL = "https://connect.squareupsandbox.com"
	defaultSquareVersion    = "2024-01-18"
	defaultSquareTimeout    = 30 * time.Second

	defaultLocationsTTL  = 30 * time.Minute
	defaultProductsTTL   = 30 * time.Minute
	defaultCategoriesTTL = 60 * time.Minute
	defaultModifiersTTL  = 30 * time.Minute
	defaultDiscountsTTL  = 15 * time.Minute
	defaultFallbackTTL   = 5 * time.Minute
	defaultSweepInterval = 10 * time.Minute
	defaultSweepCeiling  = 2 * time.Hour

	defaultPickupTimezone = "America/Chicago"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server ServerConfig
	Square SquareConfig
	Cache  CacheConfig
	Store  StoreConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// SquareConfig holds credentials and endpoint parameters for the Square API.
type SquareConfig struct {
	AccessToken string
	Environment string
	BaseURL     string
	Version     string
	LocationID  string
	Timeout     time.Duration
}

// CacheConfig controls the upstream response cache.
type CacheConfig struct {
	LocationsTTL  time.Duration
	ProductsTTL   time.Duration
	CategoriesTTL time.Duration
	ModifiersTTL  time.Duration
	DiscountsTTL  time.Duration
	DefaultTTL    time.Duration
	SweepInterval time.Duration
	SweepCeiling  time.Duration
}

// StoreConfig captures storefront behaviour toggles.
type StoreConfig struct {
	Online         bool
	OfflineMessage string
	PickupTimezone string
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.Getenv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the application configuration by combining defaults, .env overrides,
// and environment variables.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}

	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	environment := strings.ToLower(stringWithDefault(lookup, "SQUARE_ENVIRONMENT", "production"))
	baseURL := stringWithDefault(lookup, "SQUARE_BASE_URL", "")
	if baseURL == "" {
		baseURL = defaultSquareBaseURL
		if environment == "sandbox" {
			baseURL = defaultSquareSandboxURL
		}
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         stringWithDefault(lookup, "PORT", defaultPort),
			ReadTimeout:  durationWithDefault(lookup, "SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Square: SquareConfig{
			AccessToken: stringWithDefault(lookup, "SQUARE_ACCESS_TOKEN", ""),
			Environment: environment,
			BaseURL:     baseURL,
			Version:     stringWithDefault(lookup, "SQUARE_API_VERSION", defaultSquareVersion),
			LocationID:  stringWithDefault(lookup, "SQUARE_LOCATION_ID", ""),
			Timeout:     durationWithDefault(lookup, "SQUARE_HTTP_TIMEOUT", defaultSquareTimeout),
		},
		Cache: CacheConfig{
			LocationsTTL:  durationWithDefault(lookup, "CACHE_LOCATIONS_TTL", defaultLocationsTTL),
			ProductsTTL:   durationWithDefault(lookup, "CACHE_PRODUCTS_TTL", defaultProductsTTL),
			CategoriesTTL: durationWithDefault(lookup, "CACHE_CATEGORIES_TTL", defaultCategoriesTTL),
			ModifiersTTL:  durationWithDefault(lookup, "CACHE_MODIFIERS_TTL", defaultModifiersTTL),
			DiscountsTTL:  durationWithDefault(lookup, "CACHE_DISCOUNTS_TTL", defaultDiscountsTTL),
			DefaultTTL:    durationWithDefault(lookup, "CACHE_DEFAULT_TTL", defaultFallbackTTL),
			SweepInterval: durationWithDefault(lookup, "CACHE_SWEEP_INTERVAL", defaultSweepInterval),
			SweepCeiling:  durationWithDefault(lookup, "CACHE_SWEEP_CEILING", defaultSweepCeiling),
		},
		Store: StoreConfig{
			Online:         boolWithDefault(lookup, "STORE_ONLINE", true),
			OfflineMessage: stringWithDefault(lookup, "STORE_OFFLINE_MESSAGE", "Online ordering is temporarily unavailable. Please try again later."),
			PickupTimezone: stringWithDefault(lookup, "STORE_PICKUP_TIMEZONE", defaultPickupTimezone),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	}
	if strings.TrimSpace(cfg.Square.AccessToken) == "" {
		missing = append(missing, "Square.AccessToken")
	}
	if strings.TrimSpace(cfg.Square.BaseURL) == "" {
		missing = append(missing, "Square.BaseURL")
	}
	if strings.TrimSpace(cfg.Square.Version) == "" {
		missing = append(missing, "Square.Version")
	}
	if cfg.Cache.SweepInterval <= 0 {
		missing = append(missing, "Cache.SweepInterval")
	}
	if cfg.Cache.SweepCeiling <= 0 {
		missing = append(missing, "Cache.SweepCeiling")
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

// TTLByClass resolves the configured TTL for a cache class name, falling back to the default TTL.
func (c CacheConfig) TTLByClass(class string) time.Duration {
	switch class {
	case "locations":
		return c.LocationsTTL
	case "products":
		return c.ProductsTTL
	case "categories":
		return c.CategoriesTTL
	case "modifiers":
		return c.ModifiersTTL
	case "discounts":
		return c.DiscountsTTL
	default:
		return c.DefaultTTL
	}
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "export ") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		value = strings.Trim(value, "\"'")
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
		if minutes, err := strconv.Atoi(value); err == nil && minutes > 0 {
			return time.Duration(minutes) * time.Minute
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}
