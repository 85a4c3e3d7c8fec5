// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SaaSLand Contributors

// Package config loads layered service configuration: built-in
// defaults, then an optional YAML file, then command-line flags.
package config

import (
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds every runtime setting for the service.
type Config struct {
	Server    Server    `koanf:"server"`
	Database  Database  `koanf:"database"`
	Provider  Provider  `koanf:"provider"`
	Mail      Mail      `koanf:"mail"`
	Log       Log       `koanf:"log"`
	Metrics   Metrics   `koanf:"metrics"`
	RateLimit RateLimit `koanf:"rate_limit"`
	PublicURL string    `koanf:"public_url"`
}

// Server holds HTTP listener settings.
type Server struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Database holds PostgreSQL settings.
type Database struct {
	URL string `koanf:"url"`
}

// Provider holds identity provider settings.
type Provider struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
}

// Mail holds outbound email settings. Delivery is disabled when the
// API key is empty.
type Mail struct {
	BaseURL     string `koanf:"base_url"`
	APIKey      string `koanf:"api_key"`
	From        string `koanf:"from"`
	ContactAddr string `koanf:"contact_addr"`
}

// Log holds logging settings.
type Log struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// Metrics holds the observability listener settings.
type Metrics struct {
	Addr string `koanf:"addr"`
}

// RateLimit holds token-bucket settings applied per client IP.
type RateLimit struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Log:     Log{Format: "json", Level: "info"},
		Metrics: Metrics{Addr: "127.0.0.1:9100"},
		RateLimit: RateLimit{
			RequestsPerSecond: 10,
			Burst:             30,
		},
		PublicURL: "http://localhost:8080",
	}
}

// Load builds the configuration from defaults, an optional YAML file
// and the given flag set, in increasing precedence.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := Defaults()
	if err := loadDefaults(k, defaults); err != nil {
		return nil, oops.Code("CONFIG_DEFAULTS_FAILED").Wrap(err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	cfg := defaults
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}
	return &cfg, nil
}

// Validate checks settings a running server cannot do without.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("server.addr is required")
	}
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database.url is required")
	}
	if c.Provider.BaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("provider.base_url is required")
	}
	if c.Provider.APIKey == "" {
		return oops.Code("CONFIG_INVALID").Errorf("provider.api_key is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			Errorf("log.format must be 'json' or 'text', got %q", c.Log.Format)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return oops.Code("CONFIG_INVALID").
			Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("rate limit values must be positive")
	}
	return nil
}

func loadDefaults(k *koanf.Koanf, d Config) error {
	pairs := map[string]any{
		"server.addr":                    d.Server.Addr,
		"server.read_timeout":            d.Server.ReadTimeout,
		"server.write_timeout":           d.Server.WriteTimeout,
		"server.shutdown_timeout":        d.Server.ShutdownTimeout,
		"log.format":                     d.Log.Format,
		"log.level":                      d.Log.Level,
		"metrics.addr":                   d.Metrics.Addr,
		"rate_limit.requests_per_second": d.RateLimit.RequestsPerSecond,
		"rate_limit.burst":               d.RateLimit.Burst,
		"public_url":                     d.PublicURL,
	}
	for key, value := range pairs {
		if err := k.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// BindFlags registers the flag overrides Load understands. Flag names
// use dots so posflag maps them straight onto config keys.
func BindFlags(flags *pflag.FlagSet) {
	d := Defaults()
	flags.String("server.addr", d.Server.Addr, "HTTP listen address")
	flags.String("database.url", "", "PostgreSQL connection URL")
	flags.String("provider.base_url", "", "identity provider base URL")
	flags.String("provider.api_key", "", "identity provider API key")
	flags.String("mail.api_key", "", "email API key (empty disables delivery)")
	flags.String("mail.from", "", "outbound email from address")
	flags.String("mail.contact_addr", "", "contact form recipient address")
	flags.String("log.format", d.Log.Format, "log format (json or text)")
	flags.String("log.level", d.Log.Level, "log level (debug, info, warn, error)")
	flags.String("metrics.addr", d.Metrics.Addr, "metrics/health HTTP address (empty = disabled)")
	flags.String("public_url", d.PublicURL, "public base URL used in auth redirects")
}
