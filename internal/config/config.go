// Package config handles configuration for chatview.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/diogo/chatview/internal/models"
)

// MarkdownConfig configures markdown rendering of agent replies
type MarkdownConfig struct {
	Style            string `json:"style"`              // glamour style name or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// Endpoint is the URL every chat message is POSTed to.
	Endpoint string `json:"endpoint"`
	// RequestTimeoutSeconds bounds how long a single request may stay pending.
	RequestTimeoutSeconds int `json:"request_timeout_seconds"`
	// TimeFormat is the Go layout used for message timestamps.
	TimeFormat      string         `json:"time_format"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	Verbose         bool           `json:"verbose"`
	LogLevel        string         `json:"log_level,omitempty"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// Time layouts offered by the settings menu
const (
	TimeFormat12h = time.Kitchen
	TimeFormat24h = "15:04"
)

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Endpoint:              models.DefaultEndpoint,
		RequestTimeoutSeconds: 60,
		TimeFormat:            TimeFormat12h,
		TUITheme:              "tokyonight",
		CopyToClipboard:       false,
		Verbose:               false,
		LogLevel:              "info",
		Markdown:              DefaultMarkdownConfig(),
	}
}

// RequestTimeout returns the request deadline as a duration
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Validate checks that the endpoint and timeout are usable
func (c Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", c.Endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: scheme must be http or https", c.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", c.Endpoint)
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request timeout must be positive, got %d", c.RequestTimeoutSeconds)
	}
	return nil
}

// SettableKeys lists the keys accepted by Set
func SettableKeys() []string {
	return []string{"endpoint", "timeout", "time_format", "tui_theme", "markdown_style", "log_level", "copy_to_clipboard", "verbose"}
}

// Set updates a single field from its textual form.
// The timeout accepts either a Go duration ("90s") or a number of seconds.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "endpoint":
		next := *c
		next.Endpoint = value
		if err := next.Validate(); err != nil {
			return err
		}
		c.Endpoint = value
	case "timeout":
		secs, err := parseSeconds(value)
		if err != nil {
			return err
		}
		c.RequestTimeoutSeconds = secs
	case "time_format":
		if value == "" {
			return fmt.Errorf("time_format cannot be empty")
		}
		c.TimeFormat = value
	case "tui_theme", "markdown_style":
		if value == "" {
			return fmt.Errorf("%s cannot be empty", key)
		}
		if key == "tui_theme" {
			c.TUITheme = value
		} else {
			c.Markdown.Style = value
		}
	case "log_level":
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(value)
		default:
			return fmt.Errorf("unknown log level %q", value)
		}
	case "copy_to_clipboard", "verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s expects true or false: %w", key, err)
		}
		if key == "verbose" {
			c.Verbose = b
		} else {
			c.CopyToClipboard = b
		}
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(SettableKeys(), ", "))
	}
	return nil
}

func parseSeconds(value string) (int, error) {
	if d, err := time.ParseDuration(value); err == nil {
		if d < time.Second {
			return 0, fmt.Errorf("timeout must be at least 1s, got %s", d)
		}
		return int(d / time.Second), nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q", value)
	}
	if n <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %d", n)
	}
	return n, nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".chatview"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the path to the log file
func GetLogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "logs", "chatview.log"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	// Zero values written by older files fall back to defaults
	if cfg.Endpoint == "" {
		cfg.Endpoint = models.DefaultEndpoint
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = DefaultConfig().RequestTimeoutSeconds
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = TimeFormat12h
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
