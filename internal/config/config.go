// Package config provides configuration management for tsnview.
//
// The config file names the record files to load and how the query API is
// served. Command-line flags override file values. Relative paths inside a
// config file are relative to that file.
//
// Config file locations (priority order):
//  1. $TSNVIEW_CONFIG
//  2. ./tsnview.yaml
//  3. $XDG_CONFIG_HOME/tsnview/config.yaml
//  4. ~/.config/tsnview/config.yaml
//  5. /etc/tsnview/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path. Relative topology,
// streams and database paths are taken relative to the config file.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.resolveFilePaths(path)
	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version:      1,
		Topology:     "./csv-files/topology.csv",
		Streams:      "./csv-files/streams.csv",
		SwitchPrefix: "SW",
		Server: ServerConfig{
			Addr:            ":3000",
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Database: DatabaseConfig{Path: "./tsnview.db"},
		Log:      LogConfig{Level: "info"},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Version == 0 {
		c.Version = def.Version
	}
	if c.Topology == "" {
		c.Topology = def.Topology
		if c.Streams == "" {
			c.Streams = def.Streams
		}
	}
	if c.SwitchPrefix == "" {
		c.SwitchPrefix = def.SwitchPrefix
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if c.Database.Path == "" {
		c.Database.Path = def.Database.Path
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// Validate checks the config for values that cannot work
func (c *Config) Validate() error {
	var errs []error

	if c.Topology == "" {
		errs = append(errs, errors.New("topology path is required"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("shutdown timeout must not be negative"))
	}

	return errors.Join(errs...)
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	streams := c.Streams
	if streams == "" {
		streams = "(from topology file)"
	}
	summary := fmt.Sprintf("Topology: %s, Streams: %s\n", c.Topology, streams)
	summary += fmt.Sprintf("Switch prefix: %s, Watch: %v\n", c.SwitchPrefix, c.Watch)
	summary += fmt.Sprintf("Listen: %s, Database: %s, Log: %s", c.Server.Addr, c.Database.Path, c.Log.Level)
	return summary
}
