package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	MongoDB    MongoDBConfig
	Extraction ExtractionConfig
	Results    ResultsConfig
	Cache      CacheConfig
	Pipeline   PipelineConfig
	LogLevel   string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	AllowedHosts   []string
	MaxUploadBytes int64
}

// MongoDBConfig holds MongoDB-specific configuration.
// An empty URI runs the service on the built-in prize tables.
type MongoDBConfig struct {
	URI             string
	Database        string
	PrizeCollection string
}

// ExtractionConfig holds the vision/text extraction API configuration
type ExtractionConfig struct {
	BaseURL        string
	Model          string
	APIKeys        []string
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
}

// ResultsConfig holds the official results site configuration
type ResultsConfig struct {
	BaseURL     string
	Driver      string // "http" or "browser"
	WaitTimeout time.Duration
	ChromePath  string
}

// CacheConfig holds verdict cache configuration
type CacheConfig struct {
	TTL time.Duration
}

// PipelineConfig bounds how many submissions are processed at once
type PipelineConfig struct {
	MaxConcurrent int64
}

// Result source drivers
const (
	DriverHTTP    = "http"
	DriverBrowser = "browser"
)

// Load loads configuration from environment variables and an optional config
// file found in the given paths (defaults to "." and "./config").
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Extraction.APIKeys = mergeKeys(cfg.Extraction.APIKeys, legacyAPIKeys())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot check for us
func (c *Config) Validate() error {
	switch c.Results.Driver {
	case DriverHTTP, DriverBrowser:
	default:
		return fmt.Errorf("unknown results driver %q (want %q or %q)", c.Results.Driver, DriverHTTP, DriverBrowser)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got %s", c.Cache.TTL)
	}
	if c.Extraction.Timeout <= 0 {
		return fmt.Errorf("extraction timeout must be positive, got %s", c.Extraction.Timeout)
	}
	if c.Results.WaitTimeout <= 0 {
		return fmt.Errorf("results wait timeout must be positive, got %s", c.Results.WaitTimeout)
	}
	if c.Extraction.MaxRetries < 0 {
		return fmt.Errorf("extraction max retries must not be negative, got %d", c.Extraction.MaxRetries)
	}
	if c.Pipeline.MaxConcurrent <= 0 {
		return fmt.Errorf("pipeline max concurrency must be positive, got %d", c.Pipeline.MaxConcurrent)
	}
	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "5000")
	v.SetDefault("Server.AllowedHosts", []string{"*"})
	v.SetDefault("Server.MaxUploadBytes", 10<<20)
	v.SetDefault("MongoDB.URI", "")
	v.SetDefault("MongoDB.Database", "lankalotto")
	v.SetDefault("MongoDB.PrizeCollection", "prize_structure")
	v.SetDefault("Extraction.BaseURL", "https://generativelanguage.googleapis.com")
	v.SetDefault("Extraction.Model", "gemini-1.5-pro")
	v.SetDefault("Extraction.APIKeys", []string{})
	v.SetDefault("Extraction.Timeout", 60*time.Second)
	v.SetDefault("Extraction.MaxRetries", 3)
	v.SetDefault("Extraction.InitialBackoff", time.Second)
	v.SetDefault("Results.BaseURL", "https://www.nlb.lk")
	v.SetDefault("Results.Driver", DriverHTTP)
	v.SetDefault("Results.WaitTimeout", 10*time.Second)
	v.SetDefault("Results.ChromePath", "")
	v.SetDefault("Cache.TTL", 300*time.Second)
	v.SetDefault("Pipeline.MaxConcurrent", 8)
	v.SetDefault("LogLevel", "info")
}

func mergeKeys(keys ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, group := range keys {
		for _, k := range group {
			k = strings.TrimSpace(k)
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
