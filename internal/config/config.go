// Package config holds the qnet settings.
//
// Config file locations (priority order):
//  1. $QNET_CONFIG
//  2. ./qnet.yaml
//  3. $XDG_CONFIG_HOME/qnet/config.yaml
//  4. ~/.config/qnet/config.yaml
//
// Command line flags override values read from the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath is the environment variable for an explicit config path
	EnvConfigPath = "QNET_CONFIG"
	// EnvLibraryDir names the Qucs system library directory
	EnvLibraryDir = "QUCS_LIBDIR"
	// ConfigFileName is the config file name looked up in the working directory
	ConfigFileName = "qnet.yaml"
	// ConfigDirName is the config directory name under XDG
	ConfigDirName = "qnet"
)

// Config controls how schematics are loaded and netlisted.
type Config struct {
	Version int `yaml:"version"`

	// Loading
	IgnoreFutureVersion bool `yaml:"ignore_future_version"`
	SubstituteUnknown   bool `yaml:"substitute_unknown"`

	// Reference resolution
	CreatingLibrary bool     `yaml:"creating_library"`
	LibraryPaths    []string `yaml:"library_paths"`
	SubcircuitPaths []string `yaml:"subcircuit_paths"`
	// Catalog is an SQLite library index. When set it replaces the
	// directory search over LibraryPaths.
	Catalog string `yaml:"catalog,omitempty"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	cfg := &Config{Version: 1}
	if dir := os.Getenv(EnvLibraryDir); dir != "" {
		cfg.LibraryPaths = append(cfg.LibraryPaths, dir)
	}
	cfg.LibraryPaths = append(cfg.LibraryPaths, "/usr/share/qucs/library", "/usr/local/share/qucs/library")
	return cfg
}

// Validate checks the configuration and expands "~/" in paths.
func (c *Config) Validate() error {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Version != 1 {
		return fmt.Errorf("config: unsupported version %d", c.Version)
	}

	var err error
	if c.LibraryPaths, err = cleanPaths("library_paths", c.LibraryPaths); err != nil {
		return err
	}
	if c.SubcircuitPaths, err = cleanPaths("subcircuit_paths", c.SubcircuitPaths); err != nil {
		return err
	}
	if c.Catalog != "" {
		c.Catalog = expandHome(c.Catalog)
		if st, err := os.Stat(c.Catalog); err == nil && st.IsDir() {
			return fmt.Errorf("config: catalog %s is a directory", c.Catalog)
		}
	}
	return nil
}

func cleanPaths(field string, paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for i, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("config: %s[%d] is empty", field, i)
		}
		out = append(out, filepath.Clean(expandHome(p)))
	}
	return out, nil
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}

// Load finds and loads the config file, or returns defaults if none found.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads and validates the config at path. Keys missing from
// the file keep their default values.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Save writes the config to path.
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

// FindConfigPath returns the first existing config file, or "".
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && fileExists(path) {
		return path
	}
	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}
		return ConfigFileName
	}
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		path := filepath.Join(xdgHome, ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}
	if home := os.Getenv("HOME"); home != "" {
		path := filepath.Join(home, ".config", ConfigDirName, "config.yaml")
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
