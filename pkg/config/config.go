package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Seller string `yaml:"seller"` // seller account to monitor, required

	Telegram struct {
		Token  string `yaml:"token"`   // bot token, required
		ChatID string `yaml:"chat_id"` // delivery target, required
	} `yaml:"telegram"`

	Poll struct {
		Interval       time.Duration `yaml:"interval"`        // period between cycles
		ErrorBackoff   time.Duration `yaml:"error_backoff"`   // wait after a failed cycle
		Timeout        time.Duration `yaml:"timeout"`         // feed fetch timeout
		FeedURL        string        `yaml:"feed_url"`        // feed host, overridden in tests
		UserAgent      string        `yaml:"user_agent"`      // user agent for feed requests
		BootstrapLimit int           `yaml:"bootstrap_limit"` // entries taken on the initial scan
		CheckLimit     int           `yaml:"check_limit"`     // entries examined per cycle
	} `yaml:"poll"`

	Display struct {
		AlertLimit     int `yaml:"alert_limit"`     // listings per new-listings alert
		InventoryLimit int `yaml:"inventory_limit"` // listings in the startup report
	} `yaml:"display"`

	Server struct {
		Listen  string        `yaml:"listen"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"server"`
}

// New returns a config populated with defaults only.
func New() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads configuration from a YAML file, expanding environment
// variables in the file body. Validation is separate, callers may
// overlay command-line values before calling Validate.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Poll.Interval == 0 {
		c.Poll.Interval = 15 * time.Minute
	}
	if c.Poll.ErrorBackoff == 0 {
		c.Poll.ErrorBackoff = 5 * time.Minute
	}
	if c.Poll.Timeout == 0 {
		c.Poll.Timeout = 30 * time.Second
	}
	if c.Poll.FeedURL == "" {
		c.Poll.FeedURL = "https://www.ebay.com"
	}
	if c.Poll.UserAgent == "" {
		c.Poll.UserAgent = "sellwatch/1.0"
	}
	if c.Poll.BootstrapLimit == 0 {
		c.Poll.BootstrapLimit = 50
	}
	if c.Poll.CheckLimit == 0 {
		c.Poll.CheckLimit = 20
	}
	if c.Display.AlertLimit == 0 {
		c.Display.AlertLimit = 5
	}
	if c.Display.InventoryLimit == 0 {
		c.Display.InventoryLimit = 10
	}
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
}

// Validate checks configuration for correctness. Missing required
// identifiers or credentials is a fatal startup condition.
func (c *Config) Validate() error {
	if c.Seller == "" {
		return fmt.Errorf("seller is required")
	}
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Poll.Interval < 30*time.Second {
		return fmt.Errorf("poll.interval must be at least 30 seconds")
	}
	if c.Poll.ErrorBackoff < time.Second {
		return fmt.Errorf("poll.error_backoff must be at least 1 second")
	}
	if c.Poll.BootstrapLimit < 1 || c.Poll.CheckLimit < 1 {
		return fmt.Errorf("poll limits must be positive")
	}
	if c.Display.AlertLimit < 1 || c.Display.InventoryLimit < 1 {
		return fmt.Errorf("display limits must be positive")
	}
	if c.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}
