package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version      int            `yaml:"version"`
	Topology     string         `yaml:"topology"`          // CSV or YAML topology file
	Streams      string         `yaml:"streams,omitempty"` // empty = streams come from the topology file
	SwitchPrefix string         `yaml:"switch_prefix"`
	Watch        bool           `yaml:"watch"`
	Server       ServerConfig   `yaml:"server"`
	Database     DatabaseConfig `yaml:"database"`
	Log          LogConfig      `yaml:"log"`
}

// ServerConfig configures the HTTP query API
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig configures snapshot persistence
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Duration wraps time.Duration for YAML as a string like "5s"
type Duration time.Duration

// Duration returns the time.Duration value
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// SlogLevel maps the configured level name to a slog.Level
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
