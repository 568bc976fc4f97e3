package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported cache backends
const (
	CacheMemory   = "memory"
	CacheSQLite   = "sqlite"
	CachePostgres = "postgres"
	CacheRedis    = "redis"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Spoonacular SpoonacularConfig
	Cache       CacheConfig
	Search      SearchConfig
	RateLimit   RateLimitConfig
	Log         LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SpoonacularConfig holds recipe provider configuration
type SpoonacularConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	Timeout           time.Duration `mapstructure:"timeout"`
	IncludeNutrition  bool          `mapstructure:"include_nutrition"`
}

// CacheConfig holds recipe cache configuration
type CacheConfig struct {
	Type             string        `mapstructure:"type"` // memory, sqlite, postgres or redis
	DSN              string        `mapstructure:"dsn"`
	RedisURL         string        `mapstructure:"redis_url"`
	TTL              time.Duration `mapstructure:"ttl"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
}

// SearchConfig holds search request limits and matching options
type SearchConfig struct {
	DefaultNumber      int  `mapstructure:"default_number"`
	MaxNumber          int  `mapstructure:"max_number"`
	MaxParallelScoring int  `mapstructure:"max_parallel_scoring"`
	DebugMatching      bool `mapstructure:"debug_matching"` // per-recipe score logging
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/chefmind/")

	// CHEFMIND_CACHE_REDIS_URL -> cache.redis_url
	v.SetEnvPrefix("CHEFMIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the process environment if present.
// Variables already set are not overridden.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values. Every key needs a default
// (even an empty one) so Unmarshal picks up its env override.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})

	// Spoonacular defaults
	v.SetDefault("spoonacular.api_key", "")
	v.SetDefault("spoonacular.base_url", "https://api.spoonacular.com")
	v.SetDefault("spoonacular.requests_per_second", 1.0)
	v.SetDefault("spoonacular.burst", 5)
	v.SetDefault("spoonacular.timeout", "15s")
	v.SetDefault("spoonacular.include_nutrition", false)

	// Cache defaults
	v.SetDefault("cache.type", CacheMemory)
	v.SetDefault("cache.dsn", "")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.operation_timeout", "2s")

	// Search defaults
	v.SetDefault("search.default_number", 15)
	v.SetDefault("search.max_number", 25)
	v.SetDefault("search.max_parallel_scoring", 8)
	v.SetDefault("search.debug_matching", false)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Spoonacular.APIKey == "" {
		return fmt.Errorf("Spoonacular API key is required (set CHEFMIND_SPOONACULAR_API_KEY)")
	}

	switch config.Cache.Type {
	case CacheMemory:
	case CacheSQLite, CachePostgres:
		if config.Cache.DSN == "" {
			return fmt.Errorf("cache DSN is required when cache type is '%s'", config.Cache.Type)
		}
	case CacheRedis:
		if config.Cache.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when cache type is 'redis'")
		}
	default:
		return fmt.Errorf("cache type must be one of memory, sqlite, postgres or redis, got: %s", config.Cache.Type)
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", config.Cache.TTL)
	}

	if config.Search.MaxNumber > 0 && config.Search.DefaultNumber > config.Search.MaxNumber {
		return fmt.Errorf("search default_number (%d) exceeds max_number (%d)", config.Search.DefaultNumber, config.Search.MaxNumber)
	}

	return nil
}
