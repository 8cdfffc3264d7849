// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

// Package groom models the procedural-hair subsystem the hooks talk
// to: palettes (collections) of descriptions bound to scene geometry.
// It is the Slateworks analogue of a grooming plugin's palette API.
//
// Palettes live in the scene itself: a palette is a top-level
// groomPalette node whose children are description transforms, each
// carrying a groomDescription shape. Bound geometry and per-module
// attributes are node attributes, so groom state travels with the
// scene file with no side store.
//
// A description owns a fixed stack of modules (generator, renderer,
// primitive). The primitive module is where the sim-curve loader
// wires cache playback: useCache, liveMode, cacheFileName.
package groom

import (
	"fmt"
	"os"

	"github.com/slateworks-vfx/slateworks/lib/codec"
	"github.com/slateworks-vfx/slateworks/lib/scene"
)

// Description node attributes.
const (
	attrBoundGeometry = "boundGeometry"
	attrModules       = "modules"
)

// defaultModules is the module stack a new description starts with.
// The trailing entry is the primitive module.
var defaultModules = []string{"ClumpingModifier", "GLRenderer", "SplinePrimitive"}

// Registry is the palette API over a scene. It holds no state of its
// own — the scene is the store.
type Registry struct {
	scene *scene.Scene
}

// New returns the groom registry for a scene.
func New(s *scene.Scene) *Registry {
	return &Registry{scene: s}
}

// CreatePalette creates an empty palette (collection).
func (r *Registry) CreatePalette(name string) *scene.Node {
	return r.scene.CreateNode(scene.KindGroomPalette, name, nil)
}

// Palettes returns the names of every palette in the scene.
func (r *Registry) Palettes() []string {
	nodes := r.scene.ByKind(scene.KindGroomPalette)
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name()
	}
	return names
}

func (r *Registry) paletteNode(name string) (*scene.Node, error) {
	for _, n := range r.scene.ByKind(scene.KindGroomPalette) {
		if n.Name() == name {
			return n, nil
		}
	}
	return nil, fmt.Errorf("groom: palette %q does not exist", name)
}

// CreateDescription adds a description to a palette, bound to the
// given geometry (transform names). The description is a transform
// with a groomDescription shape, mirroring how mesh shapes sit under
// their transforms.
func (r *Registry) CreateDescription(palette, name string, boundGeometry ...string) (*scene.Node, error) {
	p, err := r.paletteNode(palette)
	if err != nil {
		return nil, err
	}
	description := r.scene.CreateNode(scene.KindTransform, name, p)
	shape := r.scene.CreateNode(scene.KindGroomDescription, name+"Shape", description)
	shape.SetAttr(attrBoundGeometry, append([]string(nil), boundGeometry...))
	shape.SetAttr(attrModules, append([]string(nil), defaultModules...))
	return description, nil
}

// Descriptions returns the description transforms of a palette.
func (r *Registry) Descriptions(palette string) ([]*scene.Node, error) {
	p, err := r.paletteNode(palette)
	if err != nil {
		return nil, err
	}
	return p.ChildrenOfKind(scene.KindTransform), nil
}

// PaletteOf returns the palette name a description belongs to.
func (r *Registry) PaletteOf(description string) (string, error) {
	for _, p := range r.scene.ByKind(scene.KindGroomPalette) {
		for _, d := range p.ChildrenOfKind(scene.KindTransform) {
			if d.Name() == description || d.LocalName() == description {
				return p.Name(), nil
			}
		}
	}
	return "", fmt.Errorf("groom: no palette contains description %q", description)
}

func (r *Registry) descriptionShape(palette, description string) (*scene.Node, error) {
	descriptions, err := r.Descriptions(palette)
	if err != nil {
		return nil, err
	}
	for _, d := range descriptions {
		if d.Name() == description || d.LocalName() == description {
			shapes := d.ChildrenOfKind(scene.KindGroomDescription)
			if len(shapes) == 0 {
				return nil, fmt.Errorf("groom: description %q has no shape", description)
			}
			return shapes[0], nil
		}
	}
	return nil, fmt.Errorf("groom: description %q not in palette %q", description, palette)
}

// BoundGeometry returns the transform names a description is bound to.
func (r *Registry) BoundGeometry(palette, description string) ([]string, error) {
	shape, err := r.descriptionShape(palette, description)
	if err != nil {
		return nil, err
	}
	return stringSliceAttr(shape, attrBoundGeometry), nil
}

// Objects returns a description's module names, generator first,
// primitive last.
func (r *Registry) Objects(palette, description string) ([]string, error) {
	shape, err := r.descriptionShape(palette, description)
	if err != nil {
		return nil, err
	}
	return stringSliceAttr(shape, attrModules), nil
}

// PrimitiveObject returns the description's primitive module — the
// module sim-curve cache attributes are set on.
func (r *Registry) PrimitiveObject(palette, description string) (string, error) {
	modules, err := r.Objects(palette, description)
	if err != nil {
		return "", err
	}
	if len(modules) == 0 {
		return "", fmt.Errorf("groom: description %q has no modules", description)
	}
	return modules[len(modules)-1], nil
}

// SetAttr sets a module attribute on (palette, description, object).
func (r *Registry) SetAttr(attr, value, palette, description, object string) error {
	shape, err := r.descriptionShape(palette, description)
	if err != nil {
		return err
	}
	shape.SetAttr(object+"."+attr, value)
	return nil
}

// Attr reads a module attribute, "" when unset.
func (r *Registry) Attr(attr, palette, description, object string) (string, error) {
	shape, err := r.descriptionShape(palette, description)
	if err != nil {
		return "", err
	}
	return shape.StringAttr(object + "." + attr), nil
}

// stringSliceAttr reads a []string attribute, tolerating the []any
// form CBOR decoding produces.
func stringSliceAttr(n *scene.Node, name string) []string {
	v, ok := n.Attr(name)
	if !ok {
		return nil
	}
	switch vv := v.(type) {
	case []string:
		return append([]string(nil), vv...)
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// paletteFile is the on-disk palette document.
type paletteFile struct {
	Palette      string              `json:"palette"`
	ProjectPath  string              `json:"project_path"`
	DataPath     string              `json:"data_path"`
	Descriptions []paletteFileRecord `json:"descriptions"`
}

type paletteFileRecord struct {
	Name          string            `json:"name"`
	BoundGeometry []string          `json:"bound_geometry,omitempty"`
	Modules       []string          `json:"modules,omitempty"`
	Attrs         map[string]string `json:"attrs,omitempty"`
}

// ExportPalette writes a palette and its descriptions to path. The
// project path recorded in the header is the scene's session
// directory; the publish plugin rewrites it afterwards (see
// RewriteDataPaths).
func (r *Registry) ExportPalette(palette, path, projectPath, dataPath string) error {
	p, err := r.paletteNode(palette)
	if err != nil {
		return err
	}
	file := paletteFile{Palette: p.Name(), ProjectPath: projectPath, DataPath: dataPath}
	for _, d := range p.ChildrenOfKind(scene.KindTransform) {
		shapes := d.ChildrenOfKind(scene.KindGroomDescription)
		if len(shapes) == 0 {
			continue
		}
		shape := shapes[0]
		record := paletteFileRecord{
			Name:          d.LocalName(),
			BoundGeometry: stringSliceAttr(shape, attrBoundGeometry),
			Modules:       stringSliceAttr(shape, attrModules),
		}
		for _, module := range record.Modules {
			for _, attr := range []string{"useCache", "liveMode", "cacheFileName"} {
				if v := shape.StringAttr(module + "." + attr); v != "" {
					if record.Attrs == nil {
						record.Attrs = make(map[string]string)
					}
					record.Attrs[module+"."+attr] = v
				}
			}
		}
		file.Descriptions = append(file.Descriptions, record)
	}
	data, err := codec.Marshal(file)
	if err != nil {
		return fmt.Errorf("encoding palette %q: %w", palette, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing palette file: %w", err)
	}
	return nil
}

// ImportBindPalette reads a palette file and re-creates the palette in
// the scene, rebinding each description to geometry by name. Bound
// geometry that is missing from the scene stays recorded on the
// description but is not an error — the host rebinds lazily.
func (r *Registry) ImportBindPalette(path string) error {
	file, err := readPaletteFile(path)
	if err != nil {
		return err
	}
	palette := r.CreatePalette(file.Palette)
	for _, record := range file.Descriptions {
		description := r.scene.CreateNode(scene.KindTransform, record.Name, palette)
		shape := r.scene.CreateNode(scene.KindGroomDescription, record.Name+"Shape", description)
		shape.SetAttr(attrBoundGeometry, append([]string(nil), record.BoundGeometry...))
		modules := record.Modules
		if len(modules) == 0 {
			modules = defaultModules
		}
		shape.SetAttr(attrModules, append([]string(nil), modules...))
		for k, v := range record.Attrs {
			shape.SetAttr(k, v)
		}
	}
	return nil
}

func readPaletteFile(path string) (*paletteFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading palette file: %w", err)
	}
	var file paletteFile
	if err := codec.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding palette file %s: %w", path, err)
	}
	if file.Palette == "" {
		return nil, fmt.Errorf("%s: not a palette file", path)
	}
	return &file, nil
}
