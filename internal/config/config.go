// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	Host string `envconfig:"RELSCORE_HOST" yaml:"host"`
	Port int    `envconfig:"RELSCORE_PORT" yaml:"port"`

	// Evaluation configuration
	Eval EvalConfig `yaml:"eval"`

	// Result store configuration
	Results ResultsConfig `yaml:"results"`

	// Bus configuration
	Bus BusConfig `yaml:"bus"`

	// Logging configuration
	Log LogConfig `yaml:"log"`

	// Security configuration
	Security SecurityConfig `yaml:"security"`
}

// EvalConfig holds evaluation settings.
type EvalConfig struct {
	// DataDir restricts annotation and submission paths accepted over HTTP.
	// Empty disables the restriction.
	DataDir string `envconfig:"RELSCORE_DATA_DIR" yaml:"data_dir"`

	// MaxFileSize is the largest submission file the server accepts, in bytes.
	MaxFileSize int64 `envconfig:"RELSCORE_MAX_FILE_SIZE" yaml:"max_file_size"`
}

// ResultsConfig holds score history settings.
type ResultsConfig struct {
	Backend     string `envconfig:"RELSCORE_RESULTS_BACKEND" yaml:"backend"`
	RedisURL    string `envconfig:"RELSCORE_REDIS_URL" yaml:"redis_url"`
	RetainHours int    `envconfig:"RELSCORE_RESULTS_RETAIN_HOURS" yaml:"retain_hours"`
	RecentLimit int    `envconfig:"RELSCORE_RESULTS_RECENT_LIMIT" yaml:"recent_limit"`
}

// BusConfig holds event bus settings.
type BusConfig struct {
	Type         string `envconfig:"RELSCORE_BUS_TYPE" yaml:"type"`
	KafkaBrokers string `envconfig:"RELSCORE_KAFKA_BROKERS" yaml:"kafka_brokers"`
	KafkaGroup   string `envconfig:"RELSCORE_KAFKA_GROUP" yaml:"kafka_group"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `envconfig:"RELSCORE_LOG_LEVEL" yaml:"level"`
	Format string `envconfig:"RELSCORE_LOG_FORMAT" yaml:"format"`
}

// SecurityConfig holds security settings.
type SecurityConfig struct {
	RateLimit int `envconfig:"RELSCORE_RATE_LIMIT" yaml:"rate_limit"` // req/sec per client, 0 = disabled
}

// Load loads configuration from environment variables and optional config file.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Set defaults first
	setDefaults(cfg)

	// Load from YAML file if provided (overrides defaults)
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// Override with environment variables (highest priority)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	return Load("")
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func setDefaults(cfg *Config) {
	cfg.Host = "0.0.0.0"
	cfg.Port = 8080

	cfg.Eval = EvalConfig{
		MaxFileSize: 100 * 1024 * 1024,
	}

	cfg.Results = ResultsConfig{
		Backend:     "memory",
		RedisURL:    "redis://localhost:6379",
		RetainHours: 24 * 30,
		RecentLimit: 50,
	}

	cfg.Bus = BusConfig{
		Type: "memory",
	}

	cfg.Log = LogConfig{
		Level:  "info",
		Format: "text",
	}

	cfg.Security = SecurityConfig{
		RateLimit: 0,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, "port must be between 1 and 65535")
	}

	if c.Eval.MaxFileSize < 1 {
		errs = append(errs, "max_file_size must be positive")
	}

	validBackends := map[string]bool{"memory": true, "redis": true}
	if !validBackends[c.Results.Backend] {
		errs = append(errs, fmt.Sprintf("invalid results backend: %s (must be memory or redis)", c.Results.Backend))
	}

	if c.Results.RetainHours < 1 {
		errs = append(errs, "retain_hours must be positive")
	}

	if c.Results.RecentLimit < 1 {
		errs = append(errs, "recent_limit must be positive")
	}

	validBusTypes := map[string]bool{"memory": true, "kafka": true}
	if !validBusTypes[c.Bus.Type] {
		errs = append(errs, fmt.Sprintf("invalid bus type: %s (must be memory or kafka)", c.Bus.Type))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("invalid log format: %s (must be text or json)", c.Log.Format))
	}

	if c.Security.RateLimit < 0 {
		errs = append(errs, "rate_limit must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// Address returns the server address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
