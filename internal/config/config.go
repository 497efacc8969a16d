package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// Domain is the public base URL every view address is built against.
	Domain         string `json:"domain" yaml:"domain" env:"DOMAIN"`
	HTTPAddr       string `json:"httpAddr" yaml:"httpAddr" env:"HTTP_ADDR"`
	GRPCAddr       string `json:"grpcAddr" yaml:"grpcAddr" env:"GRPC_ADDR"`
	MetricsEnabled bool   `json:"metricsEnabled" yaml:"metricsEnabled" env:"METRICS_ENABLED"`
	DataDir        string `json:"dataDir" yaml:"dataDir" env:"DATA_DIR"`
	// Fsync is always|interval|never.
	Fsync  string    `json:"fsync" yaml:"fsync" env:"FSYNC"`
	Paging Paging    `json:"paging" yaml:"paging" envPrefix:"PAGING_"`
	Log    LogConfig `json:"log" yaml:"log" envPrefix:"LOG_"`
}

// Paging bounds the number of events in one view.
type Paging struct {
	SoftLimit int `json:"softLimit" yaml:"softLimit" env:"SOFT_LIMIT"`
	HardLimit int `json:"hardLimit" yaml:"hardLimit" env:"HARD_LIMIT"`
}

// LogConfig selects the log level and format.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" env:"LEVEL"`
	Format string `json:"format" yaml:"format" env:"FORMAT"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Domain:         "http://localhost:8080",
		HTTPAddr:       ":8080",
		GRPCAddr:       ":9090",
		MetricsEnabled: true,
		Fsync:          "always",
		Paging:         Paging{SoftLimit: 250, HardLimit: 2000},
		Log:            LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads configuration from a JSON or YAML file (by extension) on top of
// the defaults. If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.Domain)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("domain %q must be an absolute http(s) URL", c.Domain))
	}
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("httpAddr is required"))
	}
	if c.Paging.SoftLimit < 1 {
		errs = append(errs, fmt.Errorf("paging.softLimit must be at least 1, got %d", c.Paging.SoftLimit))
	}
	if c.Paging.HardLimit < c.Paging.SoftLimit {
		errs = append(errs, fmt.Errorf("paging.hardLimit (%d) must not be below paging.softLimit (%d)", c.Paging.HardLimit, c.Paging.SoftLimit))
	}
	switch c.Fsync {
	case "", "always", "interval", "never":
	default:
		errs = append(errs, fmt.Errorf("fsync %q: use always|interval|never", c.Fsync))
	}
	return errors.Join(errs...)
}
