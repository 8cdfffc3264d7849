// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for Slateworks
// pipeline tools.
//
// Configuration is loaded from a single file specified by:
//   - SLATE_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. This ensures
// deterministic, auditable configuration with no hidden overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the master configuration for the Slateworks pipeline.
type Config struct {
	// Project configures the active show.
	Project ProjectConfig `yaml:"project"`

	// Templates is the path to the path-template YAML document.
	Templates string `yaml:"templates"`

	// Track configures the production tracking service connection.
	Track TrackConfig `yaml:"track"`

	// Host configures the DCC host the tools drive.
	Host HostConfig `yaml:"host"`
}

// ProjectConfig identifies the active show and its storage root.
type ProjectConfig struct {
	// Name is the project code, as known to the tracking service.
	Name string `yaml:"name"`

	// Root is the base directory for project data. Work and
	// publish areas live under it.
	Root string `yaml:"root"`
}

// TrackConfig configures the tracking service connection.
type TrackConfig struct {
	// URL is the base URL of slate-track-service.
	URL string `yaml:"url"`

	// APIKeyEnv names the environment variable holding the API
	// key. The key itself never lives in the config file.
	// Default: SLATE_TRACK_API_KEY.
	APIKeyEnv string `yaml:"api_key_env"`
}

// HostConfig configures the DCC host the tools drive.
type HostConfig struct {
	// Version is the host application's release year. Gates
	// features that need a minimum host version, like UDIM
	// texture nodes.
	Version int `yaml:"version"`
}

// Load loads configuration from the SLATE_CONFIG environment
// variable. There are no fallbacks or defaults - if SLATE_CONFIG is
// not set, this fails.
func Load() (*Config, error) {
	configPath := os.Getenv("SLATE_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("SLATE_CONFIG environment variable not set; " +
			"set it to the path of your slate.yaml config file, or use --config flag")
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment
// variables do not override config values. The only expansion
// performed is ${HOME} and similar path variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// Default returns the built-in defaults, used as the base before a
// config file is merged in.
func Default() *Config {
	return &Config{
		Track: TrackConfig{
			URL:       "http://127.0.0.1:8440",
			APIKeyEnv: "SLATE_TRACK_API_KEY",
		},
		Host: HostConfig{
			Version: 2015,
		},
	}
}

// APIKey resolves the tracking API key from the configured
// environment variable.
func (c *Config) APIKey() (string, error) {
	key := os.Getenv(c.Track.APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("tracking API key not set: export %s", c.Track.APIKeyEnv)
	}
	return key, nil
}

// Validate checks that required fields are present and paths are
// absolute.
func (c *Config) Validate() error {
	if c.Project.Name == "" {
		return fmt.Errorf("config: project.name is required")
	}
	if c.Project.Root == "" {
		return fmt.Errorf("config: project.root is required")
	}
	if !filepath.IsAbs(c.Project.Root) {
		return fmt.Errorf("config: project.root must be absolute, got %q", c.Project.Root)
	}
	if c.Templates != "" && !filepath.IsAbs(c.Templates) {
		return fmt.Errorf("config: templates must be absolute, got %q", c.Templates)
	}
	if c.Track.URL == "" {
		return fmt.Errorf("config: track.url is required")
	}
	if c.Host.Version < 2000 || c.Host.Version > 2100 {
		return fmt.Errorf("config: host.version %d out of range", c.Host.Version)
	}
	return nil
}

// expandVariables expands ${HOME} and ${USER} in path fields.
func (c *Config) expandVariables() {
	expand := func(s string) string {
		s = strings.ReplaceAll(s, "${HOME}", os.Getenv("HOME"))
		s = strings.ReplaceAll(s, "${USER}", os.Getenv("USER"))
		return s
	}
	c.Project.Root = expand(c.Project.Root)
	c.Templates = expand(c.Templates)
}
