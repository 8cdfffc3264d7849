// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"context"
	"fmt"

	"github.com/slateworks-vfx/slateworks/lib/scene"
	"github.com/slateworks-vfx/slateworks/lib/session"
)

// Published file type strings. The loader dispatches on these, so
// they are wire values shared with existing publish records.
const (
	PublishTypeAlembic       = "Alembic Cache"
	PublishTypeCamera        = "Camera"
	PublishTypeFBX           = "FBXGeometry"
	PublishTypeUVMap         = "UV Map"
	PublishTypeLightRig      = "MAYA LightRig"
	PublishTypeGroom         = "Maya XGen"
	PublishTypeGroomShader   = "MAYA XGShader"
	PublishTypeGroomGeometry = "MAYA XGGeometry"
	PublishTypeAssembly      = "Assembly"
	PublishTypeRenderedImage = "Rendered Image"
)

// SessionGeometryPlugin publishes every mesh in the session as one
// geometry cache.
type SessionGeometryPlugin struct{}

func (*SessionGeometryPlugin) Name() string          { return "session-geometry" }
func (*SessionGeometryPlugin) ItemFilters() []string { return []string{TypeGeometry} }

func (*SessionGeometryPlugin) Accept(_ *session.Session, settings Settings, _ *Item) Acceptance {
	return Acceptance{Accepted: settings.Get(SettingPublishTemplate) != "", Checked: true}
}

func (*SessionGeometryPlugin) Validate(_ context.Context, sess *session.Session, settings Settings, item *Item) error {
	if len(meshRoots(sess.Scene)) == 0 {
		return fmt.Errorf("no meshes in the session to export")
	}
	return resolvePublishPath(sess, item, settings, nil)
}

func (*SessionGeometryPlugin) Publish(ctx context.Context, sess *session.Session, _ Settings, item *Item) error {
	path := item.StringProperty(PropPath)
	if err := ensureFolder(path); err != nil {
		return err
	}
	if err := sess.Scene.ExportCache(path, meshRoots(sess.Scene), scene.CacheAlembic); err != nil {
		return fmt.Errorf("exporting session geometry: %w", err)
	}
	_, err := registerItem(ctx, sess, item, PublishTypeAlembic)
	return err
}

// MeshPlugin publishes one collected mesh group as a geometry cache.
type MeshPlugin struct{}

func (*MeshPlugin) Name() string          { return "mesh" }
func (*MeshPlugin) ItemFilters() []string { return []string{TypeMesh} }

func (*MeshPlugin) Accept(_ *session.Session, settings Settings, _ *Item) Acceptance {
	return Acceptance{Accepted: settings.Get(SettingPublishTemplate) != "", Checked: true}
}

func (*MeshPlugin) Validate(_ context.Context, sess *session.Session, settings Settings, item *Item) error {
	object := item.StringProperty("object")
	if sess.Scene.Find(object) == nil {
		return fmt.Errorf("the collected mesh (%s) is no longer in the scene", object)
	}
	name := displayName(object)
	item.SetProperty(PropName, name)
	return resolvePublishPath(sess, item, settings, map[string]any{"name": name})
}

func (*MeshPlugin) Publish(ctx context.Context, sess *session.Session, _ Settings, item *Item) error {
	return exportNodeCache(ctx, sess, item, scene.CacheAlembic, PublishTypeAlembic)
}

// CameraPlugin publishes a camera as a geometry cache.
type CameraPlugin struct{}

func (*CameraPlugin) Name() string          { return "camera" }
func (*CameraPlugin) ItemFilters() []string { return []string{TypeCamera} }

func (*CameraPlugin) Accept(_ *session.Session, settings Settings, _ *Item) Acceptance {
	return Acceptance{Accepted: settings.Get(SettingPublishTemplate) != "", Checked: true}
}

func (*CameraPlugin) Validate(_ context.Context, sess *session.Session, settings Settings, item *Item) error {
	camera := item.StringProperty("camera_name")
	node := sess.Scene.Find(camera)
	if node == nil || !node.HasChildOfKind(scene.KindCamera) {
		return fmt.Errorf("the collected camera (%s) is no longer in the scene", camera)
	}
	name := displayName(camera)
	item.SetProperty(PropName, name)
	return resolvePublishPath(sess, item, settings, map[string]any{"name": name})
}

func (*CameraPlugin) Publish(ctx context.Context, sess *session.Session, _ Settings, item *Item) error {
	path := item.StringProperty(PropPath)
	if err := ensureFolder(path); err != nil {
		return err
	}
	node := sess.Scene.Find(item.StringProperty("camera_name"))
	if err := sess.Scene.ExportCache(path, []*scene.Node{node}, scene.CacheAlembic); err != nil {
		return fmt.Errorf("exporting camera: %w", err)
	}
	_, err := registerItem(ctx, sess, item, PublishTypeCamera)
	return err
}

// FBXPlugin publishes one mesh group in the interchange cache flavor.
type FBXPlugin struct{}

func (*FBXPlugin) Name() string          { return "fbx-geometry" }
func (*FBXPlugin) ItemFilters() []string { return []string{TypeFBX} }

func (*FBXPlugin) Accept(_ *session.Session, settings Settings, _ *Item) Acceptance {
	return Acceptance{Accepted: settings.Get(SettingPublishTemplate) != "", Checked: true}
}

func (*FBXPlugin) Validate(_ context.Context, sess *session.Session, settings Settings, item *Item) error {
	object := item.StringProperty("object")
	if sess.Scene.Find(object) == nil {
		return fmt.Errorf("the collected object (%s) is no longer in the scene", object)
	}
	name := displayName(object)
	item.SetProperty(PropName, name)
	return resolvePublishPath(sess, item, settings, map[string]any{"name": name})
}

func (*FBXPlugin) Publish(ctx context.Context, sess *session.Session, _ Settings, item *Item) error {
	return exportNodeCache(ctx, sess, item, scene.CacheFBX, PublishTypeFBX)
}

// SimCurvePlugin publishes a simulation-curve group as a geometry
// cache. The loader binds these back onto groom descriptions by file
// name (see the sim-curve suffix convention).
type SimCurvePlugin struct{}

func (*SimCurvePlugin) Name() string          { return "sim-curves" }
func (*SimCurvePlugin) ItemFilters() []string { return []string{TypeSimCurve} }

func (*SimCurvePlugin) Accept(_ *session.Session, settings Settings, _ *Item) Acceptance {
	return Acceptance{Accepted: settings.Get(SettingPublishTemplate) != "", Checked: true}
}

func (*SimCurvePlugin) Validate(_ context.Context, sess *session.Session, settings Settings, item *Item) error {
	object := item.StringProperty("object")
	if sess.Scene.Find(object) == nil {
		return fmt.Errorf("the collected curve group (%s) is no longer in the scene", object)
	}
	name := displayName(object)
	item.SetProperty(PropName, name)
	return resolvePublishPath(sess, item, settings, map[string]any{"name": name})
}

func (*SimCurvePlugin) Publish(ctx context.Context, sess *session.Session, _ Settings, item *Item) error {
	return exportNodeCache(ctx, sess, item, scene.CacheAlembic, PublishTypeAlembic)
}

// exportNodeCache writes the item's "object" node to its resolved
// path in the given cache flavor and registers the file.
func exportNodeCache(ctx context.Context, sess *session.Session, item *Item, format scene.CacheFormat, publishType string) error {
	path := item.StringProperty(PropPath)
	if err := ensureFolder(path); err != nil {
		return err
	}
	node := sess.Scene.Find(item.StringProperty("object"))
	if node == nil {
		return fmt.Errorf("the collected object (%s) is no longer in the scene", item.StringProperty("object"))
	}
	if err := sess.Scene.ExportCache(path, []*scene.Node{node}, format); err != nil {
		return fmt.Errorf("exporting %s: %w", node.Name(), err)
	}
	_, err := registerItem(ctx, sess, item, publishType)
	return err
}

// meshRoots returns the top-level transforms with mesh shapes below
// them, the export selection for whole-session geometry.
func meshRoots(s *scene.Scene) []*scene.Node {
	var roots []*scene.Node
	for _, top := range s.TopLevel() {
		if top.Kind() == scene.KindTransform && hasMeshBelow(top) {
			roots = append(roots, top)
		}
	}
	return roots
}
