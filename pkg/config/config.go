package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 所有环境变量只在这里读取
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External APIs
	Eastmoney EastmoneyConfig
	Tencent   TencentConfig

	// Estimation
	Estimate EstimateConfig

	// Sync
	Sync SyncConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// EastmoneyConfig holds Eastmoney (东方财富) endpoint configuration
type EastmoneyConfig struct {
	QuoteBaseURL   string
	FundBaseURL    string
	RequestsPerSec float64
	RequestTimeout time.Duration
}

// TencentConfig holds Tencent Finance (腾讯财经) endpoint configuration
type TencentConfig struct {
	QuoteBaseURL   string
	KLineBaseURL   string
	RequestTimeout time.Duration
}

// EstimateConfig holds valuation estimation tunables
type EstimateConfig struct {
	HoldingsTTL  time.Duration // holdings cache freshness window
	QuoteTimeout time.Duration // per quote batch call
	BatchSize    int           // securities per quote call
}

// SyncConfig holds holdings synchronization configuration
type SyncConfig struct {
	FundCodes []string      // funds to sync on schedule
	Delay     time.Duration // politeness delay between funds
	Schedule  string        // cron expression
}

// Load reads configuration from environment variables
// ⭐ SSOT: 只有这个函数调用 os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "fundlens"),
			User:            getEnv("DB_USER", "fundlens"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// External APIs
		Eastmoney: EastmoneyConfig{
			QuoteBaseURL:   getEnv("EASTMONEY_QUOTE_BASE_URL", "https://push2.eastmoney.com"),
			FundBaseURL:    getEnv("EASTMONEY_FUND_BASE_URL", "https://fundf10.eastmoney.com"),
			RequestsPerSec: getEnvAsFloat("EASTMONEY_REQUESTS_PER_SEC", 5),
			RequestTimeout: getEnvAsDuration("EASTMONEY_REQUEST_TIMEOUT", "10s"),
		},

		Tencent: TencentConfig{
			QuoteBaseURL:   getEnv("TENCENT_QUOTE_BASE_URL", "http://qt.gtimg.cn"),
			KLineBaseURL:   getEnv("TENCENT_KLINE_BASE_URL", "https://web.ifzq.gtimg.cn"),
			RequestTimeout: getEnvAsDuration("TENCENT_REQUEST_TIMEOUT", "10s"),
		},

		// Estimation
		Estimate: EstimateConfig{
			HoldingsTTL:  getEnvAsDuration("ESTIMATE_HOLDINGS_TTL", "5m"),
			QuoteTimeout: getEnvAsDuration("ESTIMATE_QUOTE_TIMEOUT", "10s"),
			BatchSize:    getEnvAsInt("ESTIMATE_QUOTE_BATCH_SIZE", 10),
		},

		// Sync
		Sync: SyncConfig{
			FundCodes: getEnvAsSlice("SYNC_FUND_CODES", []string{"161725", "005827", "110022", "003096", "002190"}),
			Delay:     getEnvAsDuration("SYNC_DELAY", "500ms"),
			Schedule:  getEnv("SYNC_SCHEDULE", "0 0 18 * * 1-5"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Estimate.HoldingsTTL <= 0 {
		return fmt.Errorf("ESTIMATE_HOLDINGS_TTL must be positive")
	}

	if c.Estimate.BatchSize <= 0 {
		return fmt.Errorf("ESTIMATE_QUOTE_BATCH_SIZE must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}

	if len(values) == 0 {
		return defaultValue
	}

	return values
}
