package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Quote providers.
const (
	QuoteProviderHTTP   = "http"
	QuoteProviderStatic = "static"
)

// Config holds application configuration
type Config struct {
	// Server
	Env  string
	Port string

	// Database
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Sessions
	SessionSecret string
	SessionTTL    time.Duration

	// Trading
	StartingCash decimal.Decimal

	// Quote lookup
	APIKey          string
	QuoteProvider   string
	QuoteAPIURL     string
	QuoteTimeout    time.Duration
	QuoteNamePath   string
	QuotePricePath  string
	QuoteSymbolPath string
	QuoteFixtures   string
}

// devSessionSecret signs session cookies outside production when
// SESSION_SECRET is unset.
const devSessionSecret = "fallback-secret-key-for-dev-only"

// Load loads the API server configuration from the environment (and a .env
// file if present). It fails when API_KEY is not set, when SESSION_SECRET is
// not set in production, or when a value cannot be parsed.
func Load() (*Config, error) {
	config, err := LoadDatabase()
	if err != nil {
		return nil, err
	}

	if config.APIKey == "" {
		return nil, fmt.Errorf("API_KEY not set")
	}
	if config.SessionSecret == "" {
		if config.IsProduction() {
			return nil, fmt.Errorf("SESSION_SECRET must be set in production")
		}
		config.SessionSecret = devSessionSecret
	}
	return config, nil
}

// LoadDatabase loads configuration without the checks that only the API
// server needs, so schema migrations run without quote or session secrets.
func LoadDatabase() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		// Database
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBPath:     getEnv("DB_PATH", "finance.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "finance"),
		DBPassword: getEnv("DB_PASSWORD", "finance"),
		DBName:     getEnv("DB_NAME", "finance"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Sessions
		SessionSecret: os.Getenv("SESSION_SECRET"),

		// Quote lookup
		APIKey:          os.Getenv("API_KEY"),
		QuoteProvider:   strings.ToLower(getEnv("QUOTE_PROVIDER", QuoteProviderHTTP)),
		QuoteAPIURL:     getEnv("QUOTE_API_URL", "https://cloud.iexapis.com/stable/stock"),
		QuoteNamePath:   getEnv("QUOTE_NAME_PATH", "$.companyName"),
		QuotePricePath:  getEnv("QUOTE_PRICE_PATH", "$.latestPrice"),
		QuoteSymbolPath: getEnv("QUOTE_SYMBOL_PATH", "$.symbol"),
		QuoteFixtures:   getEnv("QUOTE_FIXTURES", "quotes.yaml"),
	}

	switch config.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER %q: must be %s or %s", config.DBDriver, DriverSQLite, DriverPostgres)
	}

	switch config.QuoteProvider {
	case QuoteProviderHTTP, QuoteProviderStatic:
	default:
		return nil, fmt.Errorf("invalid QUOTE_PROVIDER %q: must be %s or %s", config.QuoteProvider, QuoteProviderHTTP, QuoteProviderStatic)
	}

	var err error
	if config.SessionTTL, err = parseDuration("SESSION_TTL", "24h"); err != nil {
		return nil, err
	}
	if config.QuoteTimeout, err = parseDuration("QUOTE_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	cash := getEnv("STARTING_CASH", "10000.00")
	config.StartingCash, err = decimal.NewFromString(cash)
	if err != nil {
		return nil, fmt.Errorf("invalid STARTING_CASH %q: %w", cash, err)
	}
	if config.StartingCash.IsNegative() {
		return nil, fmt.Errorf("STARTING_CASH must not be negative, got %s", cash)
	}

	return config, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// parseDuration reads a positive duration from the environment.
func parseDuration(key, defaultValue string) (time.Duration, error) {
	s := getEnv(key, defaultValue)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", key, d)
	}
	return d, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
