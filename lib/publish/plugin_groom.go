// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/slateworks-vfx/slateworks/lib/groom"
	"github.com/slateworks-vfx/slateworks/lib/hookup"
	"github.com/slateworks-vfx/slateworks/lib/scene"
	"github.com/slateworks-vfx/slateworks/lib/session"
)

// GroomCollectionPlugin exports a groom palette with its data
// directory. The palette file is rewritten after export so its
// recorded paths point at the publish area, then the collection's
// work data is copied under a versioned collections directory next to
// the published file.
type GroomCollectionPlugin struct{}

func (*GroomCollectionPlugin) Name() string          { return "groom-collection" }
func (*GroomCollectionPlugin) ItemFilters() []string { return []string{TypeGroom} }

func (*GroomCollectionPlugin) Accept(sess *session.Session, settings Settings, _ *Item) Acceptance {
	accepted := sess.Groom != nil && settings.Get(SettingPublishTemplate) != ""
	return Acceptance{Accepted: accepted, Checked: true}
}

func (*GroomCollectionPlugin) Validate(_ context.Context, sess *session.Session, settings Settings, item *Item) error {
	collection := item.StringProperty("collection")
	if !slices.Contains(sess.Groom.Palettes(), collection) {
		return fmt.Errorf("the collected groom collection (%s) is no longer in the scene", collection)
	}
	name := displayName(collection)
	item.SetProperty(PropName, name)
	return resolvePublishPath(sess, item, settings, map[string]any{"name": name})
}

func (*GroomCollectionPlugin) Publish(ctx context.Context, sess *session.Session, _ Settings, item *Item) error {
	path := item.StringProperty(PropPath)
	if err := ensureFolder(path); err != nil {
		return err
	}
	collection := item.StringProperty("collection")
	sessionDir := filepath.Dir(sess.Scene.Path())
	workData := filepath.Join(sessionDir, "collections", collection)

	if err := sess.Groom.ExportPalette(collection, path, sessionDir, workData); err != nil {
		return fmt.Errorf("exporting collection %s: %w", collection, err)
	}
	version := item.IntProperty(PropVersion)
	if err := groom.RewriteDataPaths(path, version, collection); err != nil {
		return fmt.Errorf("rewriting collection paths: %w", err)
	}
	if err := copyCollectionData(workData, path, version, collection); err != nil {
		return err
	}
	_, err := registerItem(ctx, sess, item, PublishTypeGroom)
	return err
}

// copyCollectionData mirrors the collection's work data directory
// into "<publish dir>/collections/v<version>/<collection>", matching
// the data path RewriteDataPaths records in the palette file.
func copyCollectionData(workData, publishPath string, version int, collection string) error {
	if !dirExists(workData) {
		return nil
	}
	target := filepath.Join(filepath.Dir(publishPath), "collections",
		fmt.Sprintf("v%03d", version), collection)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("creating collection data directory: %w", err)
	}
	if err := os.CopyFS(target, os.DirFS(workData)); err != nil {
		return fmt.Errorf("copying collection data: %w", err)
	}
	return nil
}

// GroomShaderPlugin publishes the shaders assigned to a collection's
// descriptions. Each shaded description gets a hookup marker recording
// its target key and shader, the shaders and markers are exported
// together, and the markers are removed from the session afterwards.
// Referencing the published file re-resolves the assignments through
// the marker pass.
type GroomShaderPlugin struct{}

func (*GroomShaderPlugin) Name() string          { return "groom-shaders" }
func (*GroomShaderPlugin) ItemFilters() []string { return []string{TypeGroomShader} }

func (*GroomShaderPlugin) Accept(sess *session.Session, settings Settings, _ *Item) Acceptance {
	accepted := sess.Groom != nil && settings.Get(SettingPublishTemplate) != ""
	return Acceptance{Accepted: accepted, Checked: true}
}

func (*GroomShaderPlugin) Validate(_ context.Context, sess *session.Session, settings Settings, item *Item) error {
	collection := item.StringProperty("collection")
	if !slices.Contains(sess.Groom.Palettes(), collection) {
		return fmt.Errorf("the collected groom collection (%s) is no longer in the scene", collection)
	}
	shaders, _, err := collectionShaders(sess, collection)
	if err != nil {
		return err
	}
	if len(shaders) == 0 {
		return fmt.Errorf("no shaders assigned to descriptions of collection %s", collection)
	}
	name := displayName(collection) + "Shader"
	item.SetProperty(PropName, name)
	return resolvePublishPath(sess, item, settings, map[string]any{"name": name})
}

func (*GroomShaderPlugin) Publish(ctx context.Context, sess *session.Session, _ Settings, item *Item) error {
	path := item.StringProperty(PropPath)
	if err := ensureFolder(path); err != nil {
		return err
	}
	collection := item.StringProperty("collection")
	shaders, hookups, err := collectionShaders(sess, collection)
	if err != nil {
		return err
	}

	markers := hookup.WriteMarkers(sess.Scene, hookup.GroomPrefix, hookups)
	exported := append(slices.Clone(shaders), markers...)
	saveErr := sess.Scene.SaveNodes(path, exported)
	hookup.CleanMarkers(sess.Scene, hookup.GroomPrefix)
	if saveErr != nil {
		return fmt.Errorf("exporting collection shaders: %w", saveErr)
	}

	_, err = registerItem(ctx, sess, item, PublishTypeGroomShader)
	return err
}

// collectionShaders walks a collection's descriptions and returns the
// assigned shader nodes plus the hookup map keyed by each shaded
// description's target key.
func collectionShaders(sess *session.Session, collection string) ([]*scene.Node, map[string]string, error) {
	descriptions, err := sess.Groom.Descriptions(collection)
	if err != nil {
		return nil, nil, err
	}
	hookups := make(map[string]string)
	var shaders []*scene.Node
	seen := make(map[*scene.Node]bool)
	for _, description := range descriptions {
		if !description.HasChildOfKind(scene.KindGroomDescription) {
			continue
		}
		material := sess.Scene.AssignedMaterial(description)
		if material == nil {
			continue
		}
		hookups[hookup.TargetKey(description)] = material.LocalName()
		if !seen[material] {
			seen[material] = true
			shaders = append(shaders, material)
		}
	}
	return shaders, hookups, nil
}

// GroomGeometryPlugin publishes the geometry a collection's
// descriptions are bound to: the top-level group of the bound
// transform is exported whole, so the published file references back
// into a complete hierarchy.
type GroomGeometryPlugin struct{}

func (*GroomGeometryPlugin) Name() string          { return "groom-geometry" }
func (*GroomGeometryPlugin) ItemFilters() []string { return []string{TypeGroomGeometry} }

func (*GroomGeometryPlugin) Accept(_ *session.Session, settings Settings, _ *Item) Acceptance {
	return Acceptance{Accepted: settings.Get(SettingPublishTemplate) != "", Checked: true}
}

func (*GroomGeometryPlugin) Validate(_ context.Context, sess *session.Session, settings Settings, item *Item) error {
	geometry := item.StringProperty("geometry")
	node := sess.Scene.Find(geometry)
	if node == nil || !node.HasChildOfKind(scene.KindMesh) {
		return fmt.Errorf("no meshes in the scene to export the collection geometry for")
	}
	name := displayName(geometry)
	item.SetProperty(PropName, name)
	return resolvePublishPath(sess, item, settings, map[string]any{"name": name})
}

func (*GroomGeometryPlugin) Publish(ctx context.Context, sess *session.Session, _ Settings, item *Item) error {
	geometry := item.StringProperty("geometry")
	matches := sess.Scene.FindAll(geometry)
	if len(matches) > 1 {
		return fmt.Errorf("more than one %q exists", geometry)
	}
	if len(matches) == 0 {
		return fmt.Errorf("the collected geometry (%s) is no longer in the scene", geometry)
	}

	top := matches[0]
	for top.Parent() != nil {
		top = top.Parent()
	}

	path := item.StringProperty(PropPath)
	if err := ensureFolder(path); err != nil {
		return err
	}
	if err := sess.Scene.SaveNodes(path, []*scene.Node{top}); err != nil {
		return fmt.Errorf("exporting %s: %w", top.Name(), err)
	}
	_, err := registerItem(ctx, sess, item, PublishTypeGroomGeometry)
	return err
}
