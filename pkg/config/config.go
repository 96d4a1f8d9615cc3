package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the relay daemon
type Config struct {
	// Telegram Bot API settings
	Telegram TelegramConfig `yaml:"telegram" json:"telegram"`

	// Meta Graph API settings
	Graph GraphConfig `yaml:"graph" json:"graph"`

	// State file locations
	State StateConfig `yaml:"state" json:"state"`

	// Retry policy for outbound sends
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Rate limiting for Graph API calls
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Liveness endpoint
	Health HealthConfig `yaml:"health" json:"health"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TelegramConfig holds Telegram Bot API configuration
type TelegramConfig struct {
	// BotToken is resolved from the credential store or environment;
	// it is never read from the config file.
	BotToken       string        `yaml:"-" json:"-"`
	APIBaseURL     string        `yaml:"api_base_url" json:"api_base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
	PollTimeout    time.Duration `yaml:"poll_timeout" json:"poll_timeout"`
}

// GraphConfig holds Meta Graph API configuration
type GraphConfig struct {
	APIBaseURL     string        `yaml:"api_base_url" json:"api_base_url"`
	APIVersion     string        `yaml:"api_version" json:"api_version"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
	MediaLimit     int           `yaml:"media_limit" json:"media_limit"`
}

// StateConfig holds the locations of the persisted state documents
type StateConfig struct {
	File       string `yaml:"file" json:"file"`
	CursorFile string `yaml:"cursor_file" json:"cursor_file"`
}

// RetryConfig holds the bounded retry policy applied to outbound sends
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	Delay       time.Duration `yaml:"delay" json:"delay"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// HealthConfig holds the liveness endpoint configuration
type HealthConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			APIBaseURL:     "https://api.telegram.org",
			RequestTimeout: 30 * time.Second,
			PollTimeout:    50 * time.Second,
		},
		Graph: GraphConfig{
			APIBaseURL:     "https://graph.facebook.com",
			APIVersion:     "v19.0",
			RequestTimeout: 30 * time.Second,
			MediaLimit:     25,
		},
		State: StateConfig{
			File:       "state.json",
			CursorFile: "cursors.json",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			Delay:       5 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Health: HealthConfig{
			Enabled: true,
			Addr:    ":8080",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if token := os.Getenv("IGRELAY_BOT_TOKEN"); token != "" {
		c.Telegram.BotToken = token
	}
	if baseURL := os.Getenv("IGRELAY_TELEGRAM_API_URL"); baseURL != "" {
		c.Telegram.APIBaseURL = baseURL
	}
	if baseURL := os.Getenv("IGRELAY_GRAPH_API_URL"); baseURL != "" {
		c.Graph.APIBaseURL = baseURL
	}
	if stateFile := os.Getenv("IGRELAY_STATE_FILE"); stateFile != "" {
		c.State.File = stateFile
	}
	if cursorFile := os.Getenv("IGRELAY_CURSOR_FILE"); cursorFile != "" {
		c.State.CursorFile = cursorFile
	}
	if addr := os.Getenv("IGRELAY_HEALTH_ADDR"); addr != "" {
		c.Health.Addr = addr
	}
	if rpm := os.Getenv("IGRELAY_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}
	if logLevel := os.Getenv("IGRELAY_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("IGRELAY_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".igrelay.yaml",
		".igrelay.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "igrelay", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "igrelay", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".igrelay.yaml"),
		filepath.Join(os.Getenv("HOME"), ".igrelay.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Telegram.APIBaseURL == "" {
		errs = append(errs, errors.New("telegram API base URL is required"))
	}
	if c.Telegram.RequestTimeout <= 0 {
		errs = append(errs, errors.New("telegram request timeout must be positive"))
	}

	if c.Graph.APIBaseURL == "" {
		errs = append(errs, errors.New("graph API base URL is required"))
	}
	if c.Graph.APIVersion == "" {
		errs = append(errs, errors.New("graph API version is required"))
	}
	if c.Graph.MediaLimit <= 0 {
		errs = append(errs, errors.New("graph media limit must be positive"))
	}
	if c.Graph.MediaLimit > 100 {
		errs = append(errs, errors.New("graph media limit should not exceed 100"))
	}

	if c.State.File == "" {
		errs = append(errs, errors.New("state file path is required"))
	}
	if c.State.CursorFile == "" {
		errs = append(errs, errors.New("cursor file path is required"))
	}

	if c.Retry.MaxAttempts <= 0 {
		errs = append(errs, errors.New("retry max attempts must be positive"))
	}
	if c.Retry.Delay < 0 {
		errs = append(errs, errors.New("retry delay cannot be negative"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}

	if c.Health.Enabled && c.Health.Addr == "" {
		errs = append(errs, errors.New("health endpoint address is required when enabled"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if stateFile, ok := flags["state-file"].(string); ok && stateFile != "" {
		c.State.File = stateFile
	}
	if cursorFile, ok := flags["cursor-file"].(string); ok && cursorFile != "" {
		c.State.CursorFile = cursorFile
	}
	if healthAddr, ok := flags["health-addr"].(string); ok && healthAddr != "" {
		c.Health.Addr = healthAddr
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igrelay.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
