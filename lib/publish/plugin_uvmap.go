// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"context"
	"fmt"

	"github.com/slateworks-vfx/slateworks/lib/scene"
	"github.com/slateworks-vfx/slateworks/lib/session"
)

// UVMapPlugin publishes one mesh transform per collected uvmap item.
// The publish template carries a {uvmap_name} field filled with the
// underscore-folded object name, so namespaced meshes map to distinct
// files.
type UVMapPlugin struct{}

func (*UVMapPlugin) Name() string          { return "uvmap" }
func (*UVMapPlugin) ItemFilters() []string { return []string{TypeUVMap} }

func (*UVMapPlugin) Accept(_ *session.Session, settings Settings, _ *Item) Acceptance {
	return Acceptance{Accepted: settings.Get(SettingPublishTemplate) != "", Checked: true}
}

func (*UVMapPlugin) Validate(_ context.Context, sess *session.Session, settings Settings, item *Item) error {
	object := item.StringProperty("uvmap_name")
	if sess.Scene.Find(object) == nil {
		return fmt.Errorf("the collected object (%s) is no longer in the scene", object)
	}
	item.SetProperty(PropName, item.StringProperty("uvmap_file_name"))
	return resolvePublishPath(sess, item, settings, map[string]any{
		"uvmap_name": item.StringProperty("uvmap_file_name"),
	})
}

func (*UVMapPlugin) Publish(ctx context.Context, sess *session.Session, _ Settings, item *Item) error {
	path := item.StringProperty(PropPath)
	if err := ensureFolder(path); err != nil {
		return err
	}
	node := sess.Scene.Find(item.StringProperty("uvmap_name"))
	if node == nil {
		return fmt.Errorf("the collected object (%s) is no longer in the scene", item.StringProperty("uvmap_name"))
	}
	if err := sess.Scene.SaveNodes(path, []*scene.Node{node}); err != nil {
		return fmt.Errorf("exporting uvmap mesh: %w", err)
	}
	_, err := registerItem(ctx, sess, item, PublishTypeUVMap)
	return err
}

// AssemblyPlugin publishes a scene assembly node. Collection already
// rejected mixed definition/reference scenes, so a single item is
// always one kind or the other.
type AssemblyPlugin struct{}

func (*AssemblyPlugin) Name() string          { return "assembly" }
func (*AssemblyPlugin) ItemFilters() []string { return []string{TypeAssembly} }

func (*AssemblyPlugin) Accept(_ *session.Session, settings Settings, _ *Item) Acceptance {
	return Acceptance{Accepted: settings.Get(SettingPublishTemplate) != "", Checked: true}
}

func (*AssemblyPlugin) Validate(_ context.Context, sess *session.Session, settings Settings, item *Item) error {
	assembly := item.StringProperty("assembly")
	if sess.Scene.Find(assembly) == nil {
		return fmt.Errorf("the collected assembly (%s) is no longer in the scene", assembly)
	}
	name := displayName(assembly)
	item.SetProperty(PropName, name)
	return resolvePublishPath(sess, item, settings, map[string]any{"name": name})
}

func (*AssemblyPlugin) Publish(ctx context.Context, sess *session.Session, _ Settings, item *Item) error {
	path := item.StringProperty(PropPath)
	if err := ensureFolder(path); err != nil {
		return err
	}
	node := sess.Scene.Find(item.StringProperty("assembly"))
	if node == nil {
		return fmt.Errorf("the collected assembly (%s) is no longer in the scene", item.StringProperty("assembly"))
	}
	if err := sess.Scene.SaveNodes(path, []*scene.Node{node}); err != nil {
		return fmt.Errorf("exporting assembly: %w", err)
	}
	_, err := registerItem(ctx, sess, item, PublishTypeAssembly)
	return err
}
