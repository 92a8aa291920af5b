// Package config loads the appshell server configuration from an optional
// YAML file with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"appshell/internal/spa"
)

// Duration wraps time.Duration so YAML values like "30s" decode.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like 30s: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds the server configuration.
type Config struct {
	Addr              string   `yaml:"addr"`
	MountPath         string   `yaml:"mount_path"`
	Variant           string   `yaml:"variant"`
	LogLevel          string   `yaml:"log_level"`
	LogFormat         string   `yaml:"log_format"`
	RateLimitRPS      float64  `yaml:"rate_limit_rps"`
	RateLimitBurst    int      `yaml:"rate_limit_burst"`
	TrustedProxies    string   `yaml:"trusted_proxies"`
	ReadHeaderTimeout Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   Duration `yaml:"shutdown_timeout"`
}

// Load loads configuration from a YAML file and environment variables.
// Environment variables override YAML values.
func Load(path string) (*Config, error) {
	cfg := &Config{
		// Defaults
		Addr:              ":8080",
		MountPath:         "/assets",
		Variant:           "separated",
		LogLevel:          "info",
		LogFormat:         "json",
		RateLimitRPS:      100,
		RateLimitBurst:    200,
		ReadHeaderTimeout: Duration(5 * time.Second),
		ShutdownTimeout:   Duration(15 * time.Second),
	}

	// Load from YAML file if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// Override with environment variables
	if v := os.Getenv("APPSHELL_ADDR"); v != "" {
		cfg.Addr = v
	}
	if p := os.Getenv("PORT"); p != "" { // Heroku-style
		cfg.Addr = ":" + p
	}
	if v := os.Getenv("APPSHELL_MOUNT_PATH"); v != "" {
		cfg.MountPath = v
	}
	if v := os.Getenv("APPSHELL_VARIANT"); v != "" {
		cfg.Variant = v
	}
	if v := os.Getenv("APPSHELL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("APPSHELL_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = parsed
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitBurst = parsed
		}
	}
	if v := os.Getenv("APPSHELL_TRUSTED_PROXIES"); v != "" {
		cfg.TrustedProxies = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required configuration fields are coherent.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("addr is required")
	}
	if !strings.HasPrefix(c.MountPath, "/") {
		return fmt.Errorf("mount_path %q must begin with /", c.MountPath)
	}
	if c.MountPath == "/" {
		return errors.New(`mount_path "/" would shadow every route; use a sub-path`)
	}
	if _, err := c.SPAVariant(); err != nil {
		return err
	}
	return nil
}

// SPAVariant maps the configured variant name to a spa.Variant.
func (c *Config) SPAVariant() (spa.Variant, error) {
	switch strings.ToLower(strings.TrimSpace(c.Variant)) {
	case "separated", "":
		return spa.VariantSeparated, nil
	case "unified":
		return spa.VariantUnified, nil
	default:
		return 0, fmt.Errorf("unknown variant %q (want separated or unified)", c.Variant)
	}
}
