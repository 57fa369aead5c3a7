package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Catalog sources
const (
	CatalogSourceFile     = "file"
	CatalogSourceSQLite   = "sqlite"
	CatalogSourcePostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Planner   PlannerConfig   `mapstructure:"planner"`
	Detector  DetectorConfig  `mapstructure:"detector"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// CatalogConfig says where the food table is loaded from
type CatalogConfig struct {
	Source string `mapstructure:"source"` // "file", "sqlite" or "postgres"
	Path   string `mapstructure:"path"`   // csv/json file, or sqlite database file
	DSN    string `mapstructure:"dsn"`    // postgres connection string
	Table  string `mapstructure:"table"`
}

// PlannerConfig holds meal planner configuration
type PlannerConfig struct {
	Seed  uint64 `mapstructure:"seed"` // 0 draws a fresh seed per plan
	Debug bool   `mapstructure:"debug"`
}

// DetectorConfig holds object detection service configuration.
// An empty BaseURL disables image detection.
type DetectorConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	APIKey        string        `mapstructure:"api_key"`
	MinConfidence float64       `mapstructure:"min_confidence"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration (requests per minute)
type RateLimitConfig struct {
	PerIP    int `mapstructure:"per_ip"`
	Detector int `mapstructure:"detector"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/mealplanner/")

	// MEALPLANNER_CATALOG_PATH -> catalog.path
	v.SetEnvPrefix("MEALPLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
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

// setDefaults registers every key, so AutomaticEnv can override keys that have
// no file value.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")

	v.SetDefault("log.level", "info")

	// Catalog defaults
	v.SetDefault("catalog.source", CatalogSourceFile)
	v.SetDefault("catalog.path", "data/foods.csv")
	v.SetDefault("catalog.dsn", "")
	v.SetDefault("catalog.table", "foods")

	v.SetDefault("planner.seed", 0)
	v.SetDefault("planner.debug", false)

	// Detector defaults
	v.SetDefault("detector.base_url", "")
	v.SetDefault("detector.api_key", "")
	v.SetDefault("detector.min_confidence", 0.25)
	v.SetDefault("detector.timeout", "10s")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "24h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.detector", 60)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Catalog.Source {
	case CatalogSourceFile, CatalogSourceSQLite:
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required for source '%s' (set MEALPLANNER_CATALOG_PATH)", config.Catalog.Source)
		}
	case CatalogSourcePostgres:
		if config.Catalog.DSN == "" {
			return fmt.Errorf("catalog DSN is required for source 'postgres' (set MEALPLANNER_CATALOG_DSN)")
		}
	default:
		return fmt.Errorf("catalog source must be 'file', 'sqlite' or 'postgres', got: %s", config.Catalog.Source)
	}

	if config.Catalog.Source != CatalogSourceFile && config.Catalog.Table == "" {
		return fmt.Errorf("catalog table is required for source '%s'", config.Catalog.Source)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	// The detection service reads zero as unset.
	if config.Detector.MinConfidence <= 0 || config.Detector.MinConfidence > 1 {
		return fmt.Errorf("detector min_confidence must be within (0, 1], got: %v", config.Detector.MinConfidence)
	}

	if config.RateLimit.PerIP <= 0 || config.RateLimit.Detector <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}

	return nil
}
