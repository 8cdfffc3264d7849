// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/slateworks-vfx/slateworks/lib/scene"
	"github.com/slateworks-vfx/slateworks/lib/session"
	"github.com/slateworks-vfx/slateworks/lib/track"
)

// Pipeline step identifiers. These are the tracking system's step
// record ids; the collector gates what it picks up on them, so a
// grooming session does not offer mesh publishes and vice versa.
const (
	StepModeling    = 15
	StepRigging     = 16
	StepAnimation   = 35
	StepLayout      = 106
	StepTexturing   = 136
	StepGrooming    = 138
	StepSimulation  = 143
	StepLighting    = 150
	StepCompositing = 155
)

// simCurveSuffix marks transforms carrying exported simulation
// curves for a groom description.
const simCurveSuffix = "_SIMCRV"

// proxyRigMarker in a session file name suppresses mesh collection:
// proxy rig files carry stand-in geometry that must not be published
// as modeling output.
const proxyRigMarker = "RSProxyRig"

// Context identifies what the collected publishes link to.
type Context struct {
	// Entity is the asset or shot the session belongs to.
	Entity string

	// Task is the tracking task the publishes register against.
	Task string

	// Step is the pipeline step id (see the Step constants).
	Step int
}

// Collector scans a session and builds the publish item tree.
type Collector struct {
	Session *session.Session
	Context Context

	// WorkTemplate names the template that parses the session path.
	WorkTemplate string

	// CacheDir overrides where standalone geometry caches are looked
	// for. Defaults to <session dir>/cache.
	CacheDir string

	// ImagesDir overrides where rendered frames are looked for.
	// Defaults to <session dir>/images.
	ImagesDir string
}

// Collect scans the open scene and returns the item tree. The scene
// must have been saved; collection is path-driven throughout.
func (c *Collector) Collect(ctx context.Context) (*Item, error) {
	s := c.Session.Scene
	scenePath := s.Path()
	if scenePath == "" {
		return nil, errUnsaved
	}
	sessionDir := filepath.Dir(scenePath)
	sessionBase := filepath.Base(scenePath)

	root := NewRoot()
	root.SetProperty(PropEntity, c.Context.Entity)
	root.SetProperty(PropTask, c.Context.Task)

	sessionItem := root.Create(TypeSession, "Session", sessionBase)
	sessionItem.SetProperty(PropWorkTemplate, c.WorkTemplate)

	step := c.Context.Step

	if step != StepGrooming && step != StepLighting && step != StepCompositing {
		c.collectSessionGeometry(sessionItem)
	}
	if step == StepModeling && !strings.Contains(sessionBase, proxyRigMarker) {
		c.collectMeshes(sessionItem)
	}
	if step == StepLayout || step == StepAnimation {
		c.collectCameras(sessionItem)
	}
	if step == StepRigging || step == StepTexturing {
		c.collectFBX(sessionItem)
		c.collectUVMaps(sessionItem)
	}
	if step == StepGrooming {
		c.collectGrooms(sessionItem, sessionDir)
	}
	if step == StepSimulation {
		c.collectSimCurves(sessionItem)
	}
	c.collectLightRigs(sessionItem)
	if err := c.collectCaches(ctx, sessionItem, sessionDir); err != nil {
		return nil, err
	}
	c.collectRenderedImages(sessionItem, sessionDir)
	if err := c.collectAssemblies(sessionItem); err != nil {
		return nil, err
	}
	return root, nil
}

func hasMeshBelow(n *scene.Node) bool {
	if n.HasChildOfKind(scene.KindMesh) {
		return true
	}
	for _, child := range n.ChildrenOfKind(scene.KindTransform) {
		if hasMeshBelow(child) {
			return true
		}
	}
	return false
}

func (c *Collector) collectSessionGeometry(parent *Item) {
	if len(meshRoots(c.Session.Scene)) == 0 {
		return
	}
	item := parent.Create(TypeGeometry, "Geometry", "All Session Geometry")
	item.SetProperty("description", "all geometry in the session")
}

func (c *Collector) collectMeshes(parent *Item) {
	for _, top := range meshRoots(c.Session.Scene) {
		item := parent.Create(TypeMesh, "Mesh", top.Name())
		item.SetProperty("object", top.Name())
	}
}

func (c *Collector) collectCameras(parent *Item) {
	for _, shape := range c.Session.Scene.ByKind(scene.KindCamera) {
		transform := shape.Parent()
		if transform == nil {
			continue
		}
		item := parent.Create(TypeCamera, "Camera", transform.Name())
		item.SetProperty("camera_name", transform.Name())
	}
}

func (c *Collector) collectFBX(parent *Item) {
	for _, top := range meshRoots(c.Session.Scene) {
		item := parent.Create(TypeFBX, "FBX Geometry", top.Name())
		item.SetProperty("object", top.Name())
	}
}

// collectUVMaps adds one item per distinct mesh parent. The file name
// variant swaps namespace separators for underscores so the uvmap
// path stays template-safe.
func (c *Collector) collectUVMaps(parent *Item) {
	seen := make(map[string]bool)
	for _, shape := range c.Session.Scene.ByKind(scene.KindMesh) {
		transform := shape.Parent()
		if transform == nil || seen[transform.Name()] {
			continue
		}
		seen[transform.Name()] = true
		item := parent.Create(TypeUVMap, "UV Map", transform.Name())
		item.SetProperty("uvmap_name", transform.Name())
		item.SetProperty("uvmap_file_name", strings.ReplaceAll(transform.Name(), ":", "_"))
	}
}

// collectGrooms adds collection, shader and bound-geometry items per
// groom palette. Collections are only publishable when the session
// has a collections data directory on disk next to it.
func (c *Collector) collectGrooms(parent *Item, sessionDir string) {
	groom := c.Session.Groom
	if groom == nil {
		return
	}
	collectionsDir := filepath.Join(sessionDir, "collections")
	hasData := dirExists(collectionsDir)

	for _, palette := range groom.Palettes() {
		if hasData {
			item := parent.Create(TypeGroom, "Groom Collection", palette)
			item.SetProperty("collection", palette)
		} else {
			c.Session.Logger.Warn("groom collection has no data directory, skipping",
				"collection", palette, "dir", collectionsDir)
		}

		shader := parent.Create(TypeGroomShader, "Groom Shaders", palette)
		shader.SetProperty("collection", palette)

		c.collectGroomGeometry(parent, palette)
	}
}

func (c *Collector) collectGroomGeometry(parent *Item, palette string) {
	groom := c.Session.Groom
	descriptions, err := groom.Descriptions(palette)
	if err != nil {
		return
	}
	seen := make(map[string]bool)
	for _, description := range descriptions {
		bound, err := groom.BoundGeometry(palette, description.LocalName())
		if err != nil {
			continue
		}
		for _, geometry := range bound {
			if seen[geometry] {
				continue
			}
			seen[geometry] = true
			item := parent.Create(TypeGroomGeometry, "Groom Geometry", geometry)
			item.SetProperty("geometry", geometry)
		}
	}
}

func (c *Collector) collectSimCurves(parent *Item) {
	for _, transform := range c.Session.Scene.Transforms() {
		if !strings.HasSuffix(transform.LocalName(), simCurveSuffix) {
			continue
		}
		item := parent.Create(TypeSimCurve, "Sim Curves", transform.Name())
		item.SetProperty("object", transform.Name())
	}
}

// collectLightRigs picks up top-level transforms named
// "<entity without underscores>_lightRig_<category>". Light rigs are
// publishable from any step.
func (c *Collector) collectLightRigs(parent *Item) {
	prefix := strings.ReplaceAll(c.Context.Entity, "_", "") + "_lightRig_"
	for _, top := range c.Session.Scene.TopLevel() {
		if top.Kind() != scene.KindTransform {
			continue
		}
		category, ok := strings.CutPrefix(top.LocalName(), prefix)
		if !ok || category == "" {
			continue
		}
		item := parent.Create(TypeLightRig, "Light Rig", top.Name())
		item.SetProperty("rig", top.Name())
		item.SetProperty("category", category)
	}
}

// collectCaches picks up standalone geometry caches from the session's
// cache directory, skipping paths already registered for the entity.
func (c *Collector) collectCaches(ctx context.Context, parent *Item, sessionDir string) error {
	cacheDir := c.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(sessionDir, "cache")
	}
	paths, err := filepath.Glob(filepath.Join(cacheDir, "*.slgc"))
	if err != nil || len(paths) == 0 {
		return nil
	}
	sort.Strings(paths)

	registered := make(map[string]bool)
	if c.Session.Track != nil {
		records, err := c.Session.Track.Find(ctx, track.EntityPublishedFile, []track.Filter{
			track.Is("entity", c.Context.Entity),
			track.Is("published_file_type", "Alembic Cache"),
		})
		if err != nil {
			return fmt.Errorf("listing registered caches: %w", err)
		}
		for _, record := range records {
			registered[record.String("path")] = true
		}
	}

	for _, path := range paths {
		if registered[path] {
			continue
		}
		item := parent.Create(TypeAlembicFile, "Geometry Cache", filepath.Base(path))
		item.SetProperty(PropPath, path)
	}
	return nil
}

// collectRenderedImages picks up frame sequences under the images
// directory, one item per render layer that has frames on disk.
func (c *Collector) collectRenderedImages(parent *Item, sessionDir string) {
	imagesDir := c.ImagesDir
	if imagesDir == "" {
		imagesDir = filepath.Join(sessionDir, "images")
	}
	for _, layer := range c.Session.Scene.ByKind(scene.KindRenderLayer) {
		layerDir := filepath.Join(imagesDir, layer.LocalName())
		frames, err := filepath.Glob(filepath.Join(layerDir, "*"))
		if err != nil || len(frames) == 0 {
			continue
		}
		sort.Strings(frames)
		item := parent.Create(TypeImageSequence, "Rendered Images", layer.LocalName())
		item.SetProperty("layer", layer.LocalName())
		item.SetProperty(PropPath, frames[0])
		item.SetProperty("frames", frames)
	}
}

// collectAssemblies adds one item per assembly node. A scene carrying
// both definition and reference assemblies is malformed and rejects
// collection outright.
func (c *Collector) collectAssemblies(parent *Item) error {
	s := c.Session.Scene
	definitions := s.ByKind(scene.KindAssemblyDefinition)
	references := s.ByKind(scene.KindAssemblyReference)
	if len(definitions) > 0 && len(references) > 0 {
		return fmt.Errorf("scene contains both assembly definition and assembly reference nodes")
	}
	for _, node := range append(definitions, references...) {
		item := parent.Create(TypeAssembly, "Assembly", node.Name())
		item.SetProperty("assembly", node.Name())
	}
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
