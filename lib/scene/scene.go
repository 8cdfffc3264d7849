// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package scene

import (
	"fmt"
	"strings"
)

// Scene is an open scene: a node tree plus shading assignments and a
// selection list. The zero value is not usable; call [New].
type Scene struct {
	root        *Node
	path        string
	selection   []*Node
	assignments map[*Node]*Node // shaded object -> shading group
}

// New returns an empty, unsaved scene.
func New() *Scene {
	s := &Scene{assignments: make(map[*Node]*Node)}
	s.root = &Node{scene: s}
	return s
}

// Path returns the file path the scene was last saved to or loaded
// from, "" for an unsaved session.
func (s *Scene) Path() string { return s.path }

// SetPath records the session path without writing anything. The
// publisher's collector requires a non-empty path before it will run.
func (s *Scene) SetPath(path string) { s.path = path }

// splitQualified splits "ns:sub:name" into namespace and local name.
// A leading ":" (explicit root namespace) is dropped.
func splitQualified(name string) (namespace, local string) {
	name = strings.TrimPrefix(name, ":")
	i := strings.LastIndex(name, ":")
	if i < 0 {
		return "", name
	}
	return name[:i], name[i+1:]
}

// CreateNode creates a node of the given kind under parent (nil for
// top level). The name may be namespace-qualified ("ns:name"). When a
// sibling of the same qualified name already exists the new node gets
// a numeric suffix, matching host-application behavior.
func (s *Scene) CreateNode(kind Kind, name string, parent *Node) *Node {
	if parent == nil {
		parent = s.root
	}
	namespace, local := splitQualified(name)
	local = s.dedupeName(parent, namespace, local)
	n := &Node{scene: s, parent: parent, kind: kind, name: local, namespace: namespace}
	parent.children = append(parent.children, n)
	return n
}

func (s *Scene) dedupeName(parent *Node, namespace, local string) string {
	taken := func(candidate string) bool {
		for _, c := range parent.children {
			if c.name == candidate && c.namespace == namespace {
				return true
			}
		}
		return false
	}
	if !taken(local) {
		return local
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s%d", local, i)
		if !taken(candidate) {
			return candidate
		}
	}
}

// Delete removes a node and its entire subtree. Shading assignments
// and selection entries referring to deleted nodes are dropped.
func (s *Scene) Delete(n *Node) {
	if n == nil || n == s.root {
		return
	}
	parent := n.parent
	for i, c := range parent.children {
		if c == n {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			break
		}
	}
	s.forgetSubtree(n)
}

func (s *Scene) forgetSubtree(n *Node) {
	delete(s.assignments, n)
	for i := 0; i < len(s.selection); i++ {
		if s.selection[i] == n {
			s.selection = append(s.selection[:i], s.selection[i+1:]...)
			i--
		}
	}
	for _, c := range n.children {
		s.forgetSubtree(c)
	}
	n.parent = nil
}

// walk visits every node in depth-first creation order.
func (s *Scene) walk(visit func(*Node)) {
	var rec func(*Node)
	rec = func(n *Node) {
		for _, c := range n.children {
			visit(c)
			rec(c)
		}
	}
	rec(s.root)
}

// Find returns the first node whose qualified name matches, in
// depth-first order, or nil. A leading ":" (explicit root namespace)
// is accepted and ignored.
func (s *Scene) Find(name string) *Node {
	name = strings.TrimPrefix(name, ":")
	var found *Node
	s.walk(func(n *Node) {
		if found == nil && n.Name() == name {
			found = n
		}
	})
	return found
}

// FindAll returns every node whose qualified name matches.
func (s *Scene) FindAll(name string) []*Node {
	name = strings.TrimPrefix(name, ":")
	var out []*Node
	s.walk(func(n *Node) {
		if n.Name() == name {
			out = append(out, n)
		}
	})
	return out
}

// Exists reports whether a node with the given qualified name exists.
func (s *Scene) Exists(name string) bool { return s.Find(name) != nil }

// ByKind returns all nodes of the given kind in depth-first order.
func (s *Scene) ByKind(kind Kind) []*Node {
	var out []*Node
	s.walk(func(n *Node) {
		if n.kind == kind {
			out = append(out, n)
		}
	})
	return out
}

// Transforms returns every transform node in the scene.
func (s *Scene) Transforms() []*Node { return s.ByKind(KindTransform) }

// TopLevel returns the scene's top-level nodes (the host's
// "assemblies" listing).
func (s *Scene) TopLevel() []*Node {
	return s.root.Children()
}

// Select replaces the current selection.
func (s *Scene) Select(nodes ...*Node) {
	s.selection = append(s.selection[:0], nodes...)
}

// Selection returns the current selection as a copy.
func (s *Scene) Selection() []*Node {
	out := make([]*Node, len(s.selection))
	copy(out, s.selection)
	return out
}

// Assign assigns a material to an object via the material's shading
// group, creating the group ("<material>SG", in the material's
// namespace) when it does not exist yet. Assigning a non-material is
// an error.
func (s *Scene) Assign(object, material *Node) error {
	if object == nil || material == nil {
		return fmt.Errorf("assign: nil node")
	}
	if material.kind != KindMaterial {
		return fmt.Errorf("assign: %s is a %s, not a material", material.Name(), material.kind)
	}
	group := s.shadingGroupFor(material)
	s.assignments[object] = group
	return nil
}

// shadingGroupFor finds the shading group wired to material, creating
// one when missing.
func (s *Scene) shadingGroupFor(material *Node) *Node {
	target := material.LongName()
	for _, g := range s.ByKind(KindShadingGroup) {
		if g.StringAttr("surfaceShader") == target {
			return g
		}
	}
	group := s.CreateNode(KindShadingGroup, material.Name()+"SG", nil)
	group.SetAttr("surfaceShader", target)
	return group
}

// AssignedGroup returns the shading group assigned to an object, or
// nil when the object is unshaded.
func (s *Scene) AssignedGroup(object *Node) *Node {
	return s.assignments[object]
}

// AssignedMaterial returns the material behind an object's shading
// group, or nil.
func (s *Scene) AssignedMaterial(object *Node) *Node {
	group := s.assignments[object]
	if group == nil {
		return nil
	}
	target := group.StringAttr("surfaceShader")
	var found *Node
	s.walk(func(n *Node) {
		if found == nil && n.kind == KindMaterial && n.LongName() == target {
			found = n
		}
	})
	return found
}

// GroupMembers returns the objects assigned to a shading group, in
// depth-first scene order.
func (s *Scene) GroupMembers(group *Node) []*Node {
	var out []*Node
	s.walk(func(n *Node) {
		if s.assignments[n] == group {
			out = append(out, n)
		}
	})
	return out
}
