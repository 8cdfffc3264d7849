// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slate.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
project:
  name: show
  root: /projects/show
templates: /etc/slateworks/templates.yaml
track:
  url: http://track.internal:8440
host:
  version: 2018
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Project.Name != "show" || cfg.Project.Root != "/projects/show" {
		t.Errorf("project = %+v", cfg.Project)
	}
	if cfg.Track.URL != "http://track.internal:8440" {
		t.Errorf("track.url = %q", cfg.Track.URL)
	}
	// Unset fields keep their defaults.
	if cfg.Track.APIKeyEnv != "SLATE_TRACK_API_KEY" {
		t.Errorf("track.api_key_env = %q", cfg.Track.APIKeyEnv)
	}
	if cfg.Host.Version != 2018 {
		t.Errorf("host.version = %d", cfg.Host.Version)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFileExpandsHome(t *testing.T) {
	t.Setenv("HOME", "/home/artist")
	path := writeConfig(t, `
project:
  name: show
  root: ${HOME}/projects/show
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Project.Root != "/home/artist/projects/show" {
		t.Errorf("root = %q", cfg.Project.Root)
	}
}

func TestLoadRequiresEnvironmentVariable(t *testing.T) {
	t.Setenv("SLATE_CONFIG", "")
	if _, err := Load(); err == nil {
		t.Error("Load succeeded without SLATE_CONFIG")
	}

	path := writeConfig(t, "project: {name: show, root: /p/show}")
	t.Setenv("SLATE_CONFIG", path)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Project.Name != "show" {
		t.Errorf("project.name = %q", cfg.Project.Name)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() *Config {
		cfg := Default()
		cfg.Project.Name = "show"
		cfg.Project.Root = "/projects/show"
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing project name", func(c *Config) { c.Project.Name = "" }},
		{"missing project root", func(c *Config) { c.Project.Root = "" }},
		{"relative project root", func(c *Config) { c.Project.Root = "projects/show" }},
		{"relative templates", func(c *Config) { c.Templates = "etc/templates.yaml" }},
		{"missing track url", func(c *Config) { c.Track.URL = "" }},
		{"host version out of range", func(c *Config) { c.Host.Version = 12 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted invalid config")
			}
		})
	}

	if err := base().Validate(); err != nil {
		t.Errorf("Validate rejected valid config: %v", err)
	}
}

func TestAPIKey(t *testing.T) {
	cfg := Default()
	t.Setenv("SLATE_TRACK_API_KEY", "")
	if _, err := cfg.APIKey(); err == nil {
		t.Error("APIKey succeeded with unset variable")
	}
	t.Setenv("SLATE_TRACK_API_KEY", "secret")
	key, err := cfg.APIKey()
	if err != nil {
		t.Fatalf("APIKey: %v", err)
	}
	if key != "secret" {
		t.Errorf("APIKey = %q", key)
	}
}
