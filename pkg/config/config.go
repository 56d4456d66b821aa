package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all environment-driven configuration for the application.
// Strategy-level settings (sources, weights, windows) live in the index
// YAML, loaded separately by internal/indexconfig.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Index strategy file
	IndexConfigPath string

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Data providers
	AlphaVantage AlphaVantageConfig
	Yahoo        YahooConfig
	Trends       TrendsConfig
	CDS          CDSConfig
	DataDir      string // manual CSV files

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL     string
	Enabled bool

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// AlphaVantageConfig holds Alpha Vantage API configuration.
type AlphaVantageConfig struct {
	APIKey  string
	BaseURL string
}

// YahooConfig holds Yahoo Finance chart API configuration.
type YahooConfig struct {
	BaseURL string
}

// TrendsConfig holds Google Trends configuration.
type TrendsConfig struct {
	BaseURL string
	Geo     string
	Lang    string
}

// CDSConfig holds the sovereign CDS scrape source configuration.
type CDSConfig struct {
	URL string
}

// Load reads configuration from environment variables, consulting a
// .env file when present. This is the only place os.Getenv is called.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port:            getEnv("PORT", "8090"),
		Env:             getEnv("ENV", "development"),
		IndexConfigPath: getEnv("INDEX_CONFIG_PATH", "configs/index.yaml"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			Enabled:         getEnvAsBool("DATABASE_ENABLED", false),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		AlphaVantage: AlphaVantageConfig{
			APIKey:  getEnv("ALPHAVANTAGE_API_KEY", ""),
			BaseURL: getEnv("ALPHAVANTAGE_BASE_URL", "https://www.alphavantage.co/query"),
		},

		Yahoo: YahooConfig{
			BaseURL: getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
		},

		Trends: TrendsConfig{
			BaseURL: getEnv("TRENDS_BASE_URL", "https://trends.google.com"),
			Geo:     getEnv("TRENDS_GEO", "TR"),
			Lang:    getEnv("TRENDS_LANG", "tr-TR"),
		},

		CDS: CDSConfig{
			URL: getEnv("CDS_URL", ""),
		},

		DataDir: getEnv("DATA_DIR", "data/raw"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects configurations that cannot work at all. Missing API
// keys are not fatal here: the affected provider simply fails per fetch.
func (c *Config) validate() error {
	switch c.Env {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("invalid ENV %q (want development|staging|production)", c.Env)
	}
	if c.Database.Enabled && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_ENABLED is set but DATABASE_URL is empty")
	}
	return nil
}

// loadEnvFile tries common locations for a .env file. Absence is fine;
// production supplies real environment variables.
func loadEnvFile() {
	paths := []string{
		".env",
		filepath.Join("..", ".env"),
		filepath.Join("..", "..", ".env"),
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvAsDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	d, _ := time.ParseDuration(fallback)
	return d
}
