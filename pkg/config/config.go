// Package config loads searchbridge configuration from an optional YAML
// file plus environment overrides, applies defaults, and validates the
// result before anything touches the browser.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultSearchHost is the search engine the auth URL is built against
	DefaultSearchHost = "kagi.com"

	// DefaultMaxAttempts is the per-query retry bound
	DefaultMaxAttempts = 3

	// DefaultNavigationTimeout is the per-navigation timeout in milliseconds
	DefaultNavigationTimeout = 30000.0

	// DefaultShutdownTimeout is the bounded wait (seconds) for browser
	// cleanup at process exit
	DefaultShutdownTimeout = 30
)

// Config holds all searchbridge settings.
type Config struct {
	// SearchHost is the host the authentication URL is built against
	SearchHost string `yaml:"search_host"`

	// SessionToken authenticates the browser session. Usually supplied
	// via the SESSION_TOKEN environment variable rather than the file.
	SessionToken string `yaml:"session_token"`

	// AuthURL, when set, is used verbatim instead of building
	// https://<search_host>/search?token=<session_token>
	AuthURL string `yaml:"auth_url"`

	// Headless controls whether the browser runs without a visible window
	Headless bool `yaml:"headless"`

	// MaxAttempts is the number of tries per query before the batch fails
	MaxAttempts int `yaml:"max_attempts"`

	// NavigationTimeout is the page navigation timeout in milliseconds
	NavigationTimeout float64 `yaml:"navigation_timeout_ms"`

	// ShutdownTimeout is the bounded cleanup wait in seconds
	ShutdownTimeout int `yaml:"shutdown_timeout_s"`

	// BlockedDomains lists glob patterns (e.g. "*.example.com") whose
	// results are dropped before formatting
	BlockedDomains []string `yaml:"blocked_domains"`
}

// DefaultPath returns the default config file location
// (~/.searchbridge/config.yaml).
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".searchbridge", "config.yaml"), nil
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		SearchHost:        DefaultSearchHost,
		Headless:          true,
		MaxAttempts:       DefaultMaxAttempts,
		NavigationTimeout: DefaultNavigationTimeout,
		ShutdownTimeout:   DefaultShutdownTimeout,
	}
}

// Load reads the config file at path (if it exists), applies environment
// overrides, and fills in defaults. A missing file is not an error: env
// variables alone are a complete configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, unmarshalErr)
		}
	case os.IsNotExist(err):
		// No file: env-only configuration
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// applyEnv overlays environment variables onto the configuration.
// Environment always wins over the file.
func (c *Config) applyEnv() {
	if token := os.Getenv("SESSION_TOKEN"); token != "" {
		c.SessionToken = token
	}
	if host := os.Getenv("SEARCHBRIDGE_HOST"); host != "" {
		c.SearchHost = host
	}
	if url := os.Getenv("SEARCHBRIDGE_AUTH_URL"); url != "" {
		c.AuthURL = url
	}
	if headless := os.Getenv("SEARCHBRIDGE_HEADLESS"); headless != "" {
		if parsed, err := strconv.ParseBool(headless); err == nil {
			c.Headless = parsed
		}
	}
	if attempts := os.Getenv("SEARCHBRIDGE_MAX_ATTEMPTS"); attempts != "" {
		if parsed, err := strconv.Atoi(attempts); err == nil && parsed > 0 {
			c.MaxAttempts = parsed
		}
	}
	if blocked := os.Getenv("SEARCHBRIDGE_BLOCKED_DOMAINS"); blocked != "" {
		var patterns []string
		for _, raw := range strings.Split(blocked, ",") {
			if pattern := strings.TrimSpace(raw); pattern != "" {
				patterns = append(patterns, pattern)
			}
		}
		c.BlockedDomains = patterns
	}
}

// applyDefaults fills in zero values left by a sparse config file.
func (c *Config) applyDefaults() {
	if c.SearchHost == "" {
		c.SearchHost = DefaultSearchHost
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = DefaultNavigationTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// ResolveAuthURL returns the authentication endpoint, building it from the
// session token when no explicit URL is configured. A missing token is a
// fatal configuration error.
func (c *Config) ResolveAuthURL() (string, error) {
	if c.AuthURL != "" {
		return c.AuthURL, nil
	}
	if c.SessionToken == "" {
		return "", fmt.Errorf("no SESSION_TOKEN found in environment or config")
	}
	return fmt.Sprintf("https://%s/search?token=%s", c.SearchHost, c.SessionToken), nil
}

// Validate checks the configuration for values that can never work.
func (c *Config) Validate() error {
	if c.SearchHost == "" {
		return fmt.Errorf("search_host must not be empty")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.NavigationTimeout <= 0 {
		return fmt.Errorf("navigation_timeout_ms must be positive, got %v", c.NavigationTimeout)
	}
	return nil
}
