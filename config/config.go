package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	SerpAPI   SerpAPIConfig
	Vision    VisionConfig
	Search    SearchConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SerpAPIConfig holds shopping search provider configuration
type SerpAPIConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Country  string        `mapstructure:"country"`
	Language string        `mapstructure:"language"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// VisionConfig holds OCR provider configuration
type VisionConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// SearchConfig holds product search behavior configuration
type SearchConfig struct {
	DefaultLocation string   `mapstructure:"default_location"`
	MaxCandidates   int      `mapstructure:"max_candidates"`
	ExtraExclusions []string `mapstructure:"extra_exclusions"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	SerpAPI int `mapstructure:"serpapi"` // searches per hour
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shelflens/")

	// Environment variable settings
	v.SetEnvPrefix("SHELFLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Provider defaults. Keys default to empty so viper picks the values up
	// from the environment during Unmarshal.
	v.SetDefault("serpapi.api_key", "")
	v.SetDefault("serpapi.base_url", "https://serpapi.com")
	v.SetDefault("serpapi.country", "us")
	v.SetDefault("serpapi.language", "en")
	v.SetDefault("serpapi.timeout", "30s")
	v.SetDefault("vision.api_key", "")
	v.SetDefault("vision.base_url", "https://vision.googleapis.com")

	// Search defaults
	v.SetDefault("search.default_location", "")
	v.SetDefault("search.max_candidates", 5)
	v.SetDefault("search.extra_exclusions", []string{})

	// Rate limit defaults
	v.SetDefault("ratelimit.serpapi", 250)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.SerpAPI.APIKey == "" {
		return fmt.Errorf("SerpAPI key is required (set SHELFLENS_SERPAPI_API_KEY)")
	}

	// The OCR collaborator is optional in development (text can be typed in),
	// but a production deploy without it is a misconfiguration.
	if config.Server.Environment == "production" && config.Vision.APIKey == "" {
		return fmt.Errorf("Vision API key is required in production (set SHELFLENS_VISION_API_KEY)")
	}

	if config.Search.MaxCandidates <= 0 {
		return fmt.Errorf("search.max_candidates must be positive, got: %d", config.Search.MaxCandidates)
	}

	if config.Logging.Format != "console" && config.Logging.Format != "json" {
		return fmt.Errorf("logging format must be 'console' or 'json', got: %s", config.Logging.Format)
	}

	return nil
}
