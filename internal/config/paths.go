package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "TSNVIEW_CONFIG"
	// ConfigFileName is looked up in the working directory
	ConfigFileName = "tsnview.yaml"
	// ConfigDirName is the per-user and system config directory name
	ConfigDirName = "tsnview"
)

// SearchPaths lists the config file candidates in lookup order. Candidates
// whose base directory is unknown (unset env vars) are left out.
func SearchPaths() []string {
	var paths []string
	if p := os.Getenv(EnvConfigPath); p != "" {
		paths = append(paths, p)
	}
	paths = append(paths, ConfigFileName)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the first existing SearchPaths entry as an absolute
// path, or "" when there is none
func FindConfigPath() string {
	for _, p := range SearchPaths() {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			return abs
		}
		return p
	}
	return ""
}

// resolveFilePaths anchors relative record and database paths to the
// directory holding the config file, so a config works from any working
// directory. Runs before defaults are applied; defaults stay relative to
// the working directory.
func (c *Config) resolveFilePaths(configPath string) {
	dir := filepath.Dir(configPath)
	c.Topology = anchor(dir, c.Topology)
	c.Streams = anchor(dir, c.Streams)
	if c.Database.Path != ":memory:" {
		c.Database.Path = anchor(dir, c.Database.Path)
	}
}

func anchor(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
