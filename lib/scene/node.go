// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package scene

import (
	"strings"
)

// Kind identifies what a node is. The values are stored verbatim in
// scene files, so they are format constants.
type Kind string

const (
	// KindTransform is a grouping/placement node. Meshes, cameras and
	// groom descriptions hang under transforms; the hookup resolver
	// matches against transform names.
	KindTransform Kind = "transform"

	// KindMesh is polygon geometry, always a child of a transform.
	KindMesh Kind = "mesh"

	// KindCamera is a camera shape under its transform.
	KindCamera Kind = "camera"

	// KindLight is a light shape. Light rigs are transforms grouping
	// several of these.
	KindLight Kind = "light"

	// KindMaterial is a surface shader.
	KindMaterial Kind = "material"

	// KindShadingGroup binds objects to a material. Assignment goes
	// through the group, never directly to the material.
	KindShadingGroup Kind = "shadingGroup"

	// KindFileTexture is a file texture node created by the loader.
	KindFileTexture Kind = "fileTexture"

	// KindImagePlane is a camera image plane created by the loader.
	KindImagePlane Kind = "imagePlane"

	// KindScript is a data-carrier node: a name plus a payload string
	// attribute. Shader hookup markers are script nodes.
	KindScript Kind = "script"

	// KindReference records a file reference: source path and the
	// namespace its content was merged under.
	KindReference Kind = "reference"

	// KindRenderLayer is a render layer definition.
	KindRenderLayer Kind = "renderLayer"

	// KindGroomPalette is a groom collection root (see lib/groom).
	KindGroomPalette Kind = "groomPalette"

	// KindGroomDescription is a groom description shape under its
	// transform, parallel to KindMesh for hair.
	KindGroomDescription Kind = "groomDescription"

	// KindAssemblyDefinition and KindAssemblyReference are scene
	// assembly nodes. An assembly asset carries one kind or the
	// other, never both.
	KindAssemblyDefinition Kind = "assemblyDefinition"
	KindAssemblyReference  Kind = "assemblyReference"
)

// PayloadAttr is the attribute holding a script node's payload string
// (the "before-script" slot hookup markers store their shader name in).
const PayloadAttr = "beforeScript"

// Node is a single scene-graph node. Nodes are owned by their Scene;
// create them with [Scene.CreateNode] and remove them with
// [Scene.Delete]. The zero value is not usable.
type Node struct {
	scene     *Scene
	parent    *Node
	children  []*Node
	kind      Kind
	name      string // local name, no namespace
	namespace string // "" for the root namespace, "a:b" when nested
	attrs     map[string]any
}

// Kind returns the node's kind.
func (n *Node) Kind() Kind { return n.kind }

// LocalName returns the node's name without any namespace qualifier.
func (n *Node) LocalName() string { return n.name }

// Namespace returns the node's namespace, "" for the root namespace.
func (n *Node) Namespace() string { return n.namespace }

// Name returns the namespace-qualified name, "ns:name", or the bare
// local name for root-namespace nodes.
func (n *Node) Name() string {
	if n.namespace == "" {
		return n.name
	}
	return n.namespace + ":" + n.name
}

// Parent returns the parent node, or nil for top-level nodes.
func (n *Node) Parent() *Node {
	if n.parent == nil || n.parent.parent == nil {
		// The scene root is an implementation detail; top-level nodes
		// report no parent.
		if n.parent == n.scene.root {
			return nil
		}
	}
	return n.parent
}

// Children returns the node's direct children in creation order. The
// returned slice is a copy.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildrenOfKind returns direct children of the given kind.
func (n *Node) ChildrenOfKind(kind Kind) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// HasChildOfKind reports whether any direct child has the given kind.
// The hookup resolver uses this to skip transforms with no shape.
func (n *Node) HasChildOfKind(kind Kind) bool {
	for _, c := range n.children {
		if c.kind == kind {
			return true
		}
	}
	return false
}

// LongName returns the full root-to-leaf path with qualified segment
// names, e.g. "|assetA:grp|assetA:table_top".
func (n *Node) LongName() string {
	var segments []string
	for cur := n; cur != nil && cur != n.scene.root; cur = cur.parent {
		segments = append(segments, cur.Name())
	}
	var b strings.Builder
	for i := len(segments) - 1; i >= 0; i-- {
		b.WriteString("|")
		b.WriteString(segments[i])
	}
	return b.String()
}

// SetAttr sets a node attribute. Values must be CBOR-representable;
// in practice the hooks store strings, ints, floats, bools and string
// slices.
func (n *Node) SetAttr(name string, value any) {
	if n.attrs == nil {
		n.attrs = make(map[string]any)
	}
	n.attrs[name] = value
}

// Attr returns a node attribute and whether it was set.
func (n *Node) Attr(name string) (any, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// AttrNames returns the names of every attribute set on the node, in
// map order.
func (n *Node) AttrNames() []string {
	names := make([]string, 0, len(n.attrs))
	for name := range n.attrs {
		names = append(names, name)
	}
	return names
}

// StringAttr returns a string attribute, "" when unset or non-string.
func (n *Node) StringAttr(name string) string {
	s, _ := n.attrs[name].(string)
	return s
}

// IntAttr returns an integer attribute, 0 when unset. Scene files
// round-trip integers through CBOR, which may widen them, so both
// int and int64 are accepted.
func (n *Node) IntAttr(name string) int {
	switch v := n.attrs[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
