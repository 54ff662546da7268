package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Protocol  ProtocolConfig  `yaml:"protocol"`
	Logging   LogConfig       `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds WebSocket-mode HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"FILEIO_PORT" default:"8080" yaml:"port"`
	Host string `envconfig:"FILEIO_HOST" default:"0.0.0.0" yaml:"host"`
}

// ProtocolConfig bounds the protocol engine.
type ProtocolConfig struct {
	// MaxMessageBytes caps a single framed payload. Oversize declarations
	// are framing errors that close the connection.
	MaxMessageBytes int `envconfig:"FILEIO_MAX_MESSAGE_BYTES" default:"10485760" yaml:"max_message_bytes"`
	// MaxInFlight caps concurrently dispatched invocations per connection.
	MaxInFlight int `envconfig:"FILEIO_MAX_IN_FLIGHT" default:"16" yaml:"max_in_flight"`
	// ShutdownTimeout bounds the in-flight drain after a shutdown request.
	ShutdownTimeout time.Duration `envconfig:"FILEIO_SHUTDOWN_TIMEOUT" default:"10s" yaml:"shutdown_timeout"`
	// RequestTimeout bounds a single tool invocation.
	RequestTimeout time.Duration `envconfig:"FILEIO_REQUEST_TIMEOUT" default:"2m" yaml:"request_timeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"FILEIO_LOG_LEVEL" default:"info" yaml:"level"`
	Development bool   `envconfig:"FILEIO_LOG_DEV" default:"false" yaml:"development"`
}

// RateLimitConfig holds per-connection message rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"FILEIO_RATE_LIMIT_RPS" default:"200" yaml:"requests_per_second"`
	Burst             int  `envconfig:"FILEIO_RATE_LIMIT_BURST" default:"400" yaml:"burst"`
	Enabled           bool `envconfig:"FILEIO_RATE_LIMIT_ENABLED" default:"true" yaml:"enabled"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadFile loads configuration from a YAML file, with environment
// variables applied first so file values win only where set.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		cfg = Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Host: "0.0.0.0",
		},
		Protocol: ProtocolConfig{
			MaxMessageBytes: 10 << 20,
			MaxInFlight:     16,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  2 * time.Minute,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 200,
			Burst:             400,
			Enabled:           true,
		},
	}
}
