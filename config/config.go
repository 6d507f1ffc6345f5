package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"wagerbook/database"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Wagering configuration
	MinStake       decimal.Decimal // Smallest stake accepted on a slip
	StakeIncrement decimal.Decimal // Stakes must be a positive multiple of this
	MaxSlipSize    int             // Maximum number of selections on one slip

	// Concurrency configuration
	MaxConcurrencyRetries int // Retries after a stale optimistic ledger write before surfacing ErrStaleBalance

	// Settlement configuration
	SettlementSchedule string // Cron spec (with seconds) for the settlement worker
	SettlementEnabled  bool

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelServiceName          string
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelExportIntervalMillis int

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from the environment, reading a .env file first when present
func load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to load .env file")
	}

	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		MinStake:       decimal.RequireFromString("0.5"),
		StakeIncrement: decimal.RequireFromString("0.5"),
		MaxSlipSize:    5,

		MaxConcurrencyRetries: 5,

		SettlementSchedule: getEnvWithDefault("SETTLEMENT_SCHEDULE", "0 */5 * * * *"),
		SettlementEnabled:  getEnvWithDefault("SETTLEMENT_ENABLED", "true") == "true",

		OTelEnabled:              getEnvWithDefault("OTEL_ENABLED", "false") == "true",
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "wagerbook"),
		OTelExporterType:         getEnvWithDefault("METRICS_EXPORTER", "none"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "otel-collector:4317"),
		OTelExportIntervalMillis: 30000,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if v := os.Getenv("MIN_STAKE"); v != "" {
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MIN_STAKE %q: %w", v, err)
		}
		config.MinStake = parsed
	}
	if v := os.Getenv("STAKE_INCREMENT"); v != "" {
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid STAKE_INCREMENT %q: %w", v, err)
		}
		config.StakeIncrement = parsed
	}
	if v := os.Getenv("MAX_SLIP_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			config.MaxSlipSize = parsed
		}
	}
	if v := os.Getenv("MAX_CONCURRENCY_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			config.MaxConcurrencyRetries = parsed
		}
	}
	if v := os.Getenv("OTEL_EXPORT_INTERVAL_MILLIS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			config.OTelExportIntervalMillis = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		// If DatabaseName is provided, ensure it's not empty
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the wagering limits for consistency
func (c *Config) Validate() error {
	if !c.StakeIncrement.IsPositive() {
		return fmt.Errorf("STAKE_INCREMENT must be positive, got %s", c.StakeIncrement)
	}
	if !c.MinStake.IsPositive() {
		return fmt.Errorf("MIN_STAKE must be positive, got %s", c.MinStake)
	}
	if c.MaxSlipSize < 1 {
		return fmt.Errorf("MAX_SLIP_SIZE must be at least 1, got %d", c.MaxSlipSize)
	}
	if c.MaxConcurrencyRetries < 0 {
		return fmt.Errorf("MAX_CONCURRENCY_RETRIES cannot be negative, got %d", c.MaxConcurrencyRetries)
	}
	return nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:           "test",
		MinStake:              decimal.RequireFromString("0.5"),
		StakeIncrement:        decimal.RequireFromString("0.5"),
		MaxSlipSize:           5,
		MaxConcurrencyRetries: 5,
		SettlementSchedule:    "0 */5 * * * *",
		OTelExporterType:      "none",
		OTelServiceName:       "wagerbook-test",
	}
}
