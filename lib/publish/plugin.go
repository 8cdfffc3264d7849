// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/slateworks-vfx/slateworks/lib/session"
)

// SettingPublishTemplate names the path template a plugin resolves
// its output path with. Every standard plugin reads it.
const SettingPublishTemplate = "publish_template"

// Settings is a plugin's configuration, keyed by setting name.
type Settings map[string]string

// Get returns a setting value, "" when unset.
func (s Settings) Get(key string) string { return s[key] }

// Acceptance is a plugin's answer to Accept: whether the plugin
// attaches to the item at all, and whether the resulting task starts
// checked.
type Acceptance struct {
	Accepted bool
	Checked  bool
}

// Plugin is one publish behavior. Accept decides per item, Validate
// must pass for every attached task before any Publish runs.
type Plugin interface {
	// Name identifies the plugin in logs and errors.
	Name() string

	// ItemFilters returns glob patterns matched against item types.
	ItemFilters() []string

	// Accept inspects a matched item and decides whether to attach.
	Accept(sess *session.Session, settings Settings, item *Item) Acceptance

	// Validate checks that the item can be published and resolves
	// the output path into the item's properties.
	Validate(ctx context.Context, sess *session.Session, settings Settings, item *Item) error

	// Publish writes the output file and registers it.
	Publish(ctx context.Context, sess *session.Session, settings Settings, item *Item) error
}

// Task is one attached (plugin, item) pair.
type Task struct {
	Plugin   Plugin
	Settings Settings
	Item     *Item

	// Checked mirrors the plugin's acceptance; unchecked tasks are
	// skipped by both passes.
	Checked bool
}

// Registered pairs a plugin with its settings for a Publisher run.
type Registered struct {
	Plugin   Plugin
	Settings Settings
}

// matchesFilters reports whether an item type matches any of the
// plugin's glob filters.
func matchesFilters(filters []string, itemType string) bool {
	for _, f := range filters {
		if ok, err := path.Match(f, itemType); err == nil && ok {
			return true
		}
	}
	return false
}

// StandardPlugins returns the full plugin set with its default
// publish-template bindings. Callers override template names by
// editing the returned settings before building a Publisher.
func StandardPlugins() []Registered {
	return []Registered{
		{Plugin: &SessionGeometryPlugin{}, Settings: Settings{SettingPublishTemplate: "geometry_publish"}},
		{Plugin: &MeshPlugin{}, Settings: Settings{SettingPublishTemplate: "mesh_publish"}},
		{Plugin: &CameraPlugin{}, Settings: Settings{SettingPublishTemplate: "camera_publish"}},
		{Plugin: &FBXPlugin{}, Settings: Settings{SettingPublishTemplate: "fbx_publish"}},
		{Plugin: &UVMapPlugin{}, Settings: Settings{SettingPublishTemplate: "uvmap_publish"}},
		{Plugin: &GroomCollectionPlugin{}, Settings: Settings{SettingPublishTemplate: "groom_publish"}},
		{Plugin: &GroomShaderPlugin{}, Settings: Settings{SettingPublishTemplate: "groom_shader_publish"}},
		{Plugin: &GroomGeometryPlugin{}, Settings: Settings{SettingPublishTemplate: "groom_geometry_publish"}},
		{Plugin: &LightRigPlugin{}, Settings: Settings{SettingPublishTemplate: "lightrig_publish"}},
		{Plugin: &SimCurvePlugin{}, Settings: Settings{SettingPublishTemplate: "simcurve_publish"}},
		{Plugin: &AssemblyPlugin{}, Settings: Settings{SettingPublishTemplate: "assembly_publish"}},
		{Plugin: &AlembicCachePlugin{}},
		{Plugin: &RenderedImagePlugin{}},
	}
}

// Publisher drives the attach → validate → publish passes over a
// collected item tree.
type Publisher struct {
	Session *session.Session
	Plugins []Registered
}

// Attach walks the tree and attaches every accepting plugin to every
// matching item.
func (p *Publisher) Attach(root *Item) {
	root.Walk(func(item *Item) {
		for _, reg := range p.Plugins {
			if !matchesFilters(reg.Plugin.ItemFilters(), item.Type()) {
				continue
			}
			acceptance := reg.Plugin.Accept(p.Session, reg.Settings, item)
			if !acceptance.Accepted {
				continue
			}
			item.tasks = append(item.tasks, &Task{
				Plugin:   reg.Plugin,
				Settings: reg.Settings,
				Item:     item,
				Checked:  acceptance.Checked,
			})
		}
	})
}

// Validate runs every checked task's Validate and reports all
// failures together, so the artist fixes the scene once.
func (p *Publisher) Validate(ctx context.Context, root *Item) error {
	var errs []error
	p.eachTask(root, func(t *Task) bool {
		if err := t.Plugin.Validate(ctx, p.Session, t.Settings, t.Item); err != nil {
			errs = append(errs, fmt.Errorf("%s: %s: %w", t.Plugin.Name(), t.Item.Name(), err))
		}
		return true
	})
	return errors.Join(errs...)
}

// Publish runs every checked task's Publish, stopping at the first
// failure.
func (p *Publisher) Publish(ctx context.Context, root *Item) error {
	var failed error
	p.eachTask(root, func(t *Task) bool {
		if err := t.Plugin.Publish(ctx, p.Session, t.Settings, t.Item); err != nil {
			failed = fmt.Errorf("%s: %s: %w", t.Plugin.Name(), t.Item.Name(), err)
			return false
		}
		p.Session.Logger.Info("published",
			"plugin", t.Plugin.Name(),
			"item", t.Item.Name(),
			"path", t.Item.StringProperty(PropPath))
		return true
	})
	return failed
}

// Run is the full pipeline over an already-collected tree.
func (p *Publisher) Run(ctx context.Context, root *Item) error {
	p.Attach(root)
	if err := p.Validate(ctx, root); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return p.Publish(ctx, root)
}

func (p *Publisher) eachTask(root *Item, visit func(*Task) bool) {
	stopped := false
	root.Walk(func(item *Item) {
		if stopped || !item.Checked {
			return
		}
		for _, t := range item.tasks {
			if !t.Checked {
				continue
			}
			if !visit(t) {
				stopped = true
				return
			}
		}
	})
}
