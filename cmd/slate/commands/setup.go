// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/slateworks-vfx/slateworks/lib/config"
	"github.com/slateworks-vfx/slateworks/lib/scene"
	"github.com/slateworks-vfx/slateworks/lib/session"
	"github.com/slateworks-vfx/slateworks/lib/template"
	"github.com/slateworks-vfx/slateworks/lib/track"
)

// loadConfig reads the project configuration from --config when
// given, falling back to the SLATE_CONFIG environment variable.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// newLogger returns the CLI logger: human-readable text on stderr.
// Services log JSON; interactive tools do not.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// openSession opens a scene file and builds a full session around it:
// templates from the configured document and a tracking client when
// the API key is available. Commands that work offline pass
// requireTrack=false and get a nil client instead of an error.
func openSession(cfg *config.Config, scenePath string, requireTrack bool, logger *slog.Logger) (*session.Session, error) {
	s, err := scene.Load(scenePath)
	if err != nil {
		return nil, fmt.Errorf("opening scene: %w", err)
	}

	var templates *template.Set
	if cfg.Templates != "" {
		templates, err = template.LoadFile(cfg.Templates)
		if err != nil {
			return nil, err
		}
	}

	client, err := trackClient(cfg, logger)
	if err != nil {
		if requireTrack {
			return nil, err
		}
		logger.Warn("tracking unavailable, continuing offline", "error", err)
		client = nil
	}

	return session.New(s, cfg, client, templates, logger)
}

func trackClient(cfg *config.Config, logger *slog.Logger) (track.Client, error) {
	key, err := cfg.APIKey()
	if err != nil {
		return nil, err
	}
	return track.NewClient(track.Config{
		BaseURL: cfg.Track.URL,
		APIKey:  key,
		Logger:  logger,
	})
}
