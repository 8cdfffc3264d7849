// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

// Package session carries the shared state a pipeline operation runs
// against: the open scene, the groom registry bound to it, the
// tracking client, path templates, and project identity. Loader
// actions and publish plugins both take a Session rather than
// reaching for globals, so two sessions never interfere.
package session

import (
	"fmt"
	"log/slog"

	"github.com/slateworks-vfx/slateworks/lib/config"
	"github.com/slateworks-vfx/slateworks/lib/groom"
	"github.com/slateworks-vfx/slateworks/lib/scene"
	"github.com/slateworks-vfx/slateworks/lib/template"
	"github.com/slateworks-vfx/slateworks/lib/track"
)

// Session is the per-invocation pipeline context.
type Session struct {
	// Scene is the open scene all operations act on. Required.
	Scene *scene.Scene

	// Groom is the groom registry bound to Scene. Nil when the
	// host has no grooming toolset loaded.
	Groom *groom.Registry

	// Track is the production tracking client. Nil in offline
	// contexts; operations that need it must check.
	Track track.Client

	// Templates resolves named path templates. Nil when no
	// template document is configured.
	Templates *template.Set

	// Project is the active project code.
	Project string

	// ProjectRoot is the base directory for project data.
	ProjectRoot string

	// HostVersion is the DCC host's release year.
	HostVersion int

	// Logger receives structured operation logs. Defaults to
	// slog.Default() via New.
	Logger *slog.Logger
}

// New builds a session around an open scene using the given
// configuration. The tracking client and template set are optional
// and may be nil.
func New(s *scene.Scene, cfg *config.Config, client track.Client, templates *template.Set, logger *slog.Logger) (*Session, error) {
	if s == nil {
		return nil, fmt.Errorf("session: scene is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("session: config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		Scene:       s,
		Groom:       groom.New(s),
		Track:       client,
		Templates:   templates,
		Project:     cfg.Project.Name,
		ProjectRoot: cfg.Project.Root,
		HostVersion: cfg.Host.Version,
		Logger:      logger,
	}, nil
}

// Template returns the named path template, erroring when no
// template document is loaded or the name is unknown.
func (s *Session) Template(name string) (*template.Template, error) {
	if s.Templates == nil {
		return nil, fmt.Errorf("session: no templates configured")
	}
	return s.Templates.Get(name)
}
