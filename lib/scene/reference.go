// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Reference node attributes.
const (
	attrFileName  = "fileName"
	attrNamespace = "namespace"
)

// ReferenceFile merges the scene file at path into the open scene
// under the given namespace and records a reference node for it. The
// file must exist on disk.
func (s *Scene) ReferenceFile(path, namespace string) (*Node, error) {
	if namespace == "" {
		return nil, fmt.Errorf("reference: namespace is required")
	}
	doc, err := readDoc(path)
	if err != nil {
		return nil, err
	}
	s.mergeDoc(doc, namespace)

	refName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + "RN"
	ref := s.CreateNode(KindReference, refName, nil)
	ref.SetAttr(attrFileName, path)
	ref.SetAttr(attrNamespace, namespace)
	return ref, nil
}

// ReferenceForPath returns the reference node recording path, or nil.
func (s *Scene) ReferenceForPath(path string) *Node {
	for _, ref := range s.ByKind(KindReference) {
		if ref.StringAttr(attrFileName) == path {
			return ref
		}
	}
	return nil
}

// RemoveReference deletes a reference node and every top-level node in
// the namespace it was brought in under (the host's "remove
// reference" command). Nodes the user re-parented elsewhere survive,
// matching host behavior of only unloading reference roots.
func (s *Scene) RemoveReference(ref *Node) error {
	if ref == nil || ref.kind != KindReference {
		return fmt.Errorf("remove reference: not a reference node")
	}
	namespace := ref.StringAttr(attrNamespace)
	for _, n := range s.TopLevel() {
		if n != ref && (n.namespace == namespace || strings.HasPrefix(n.namespace, namespace+":")) {
			s.Delete(n)
		}
	}
	s.Delete(ref)
	return nil
}

// ImportFile merges the scene file at path into the open scene. With a
// non-empty namespace every imported node is renamed into it; with ""
// (or ":") content lands in the root namespace. No reference node is
// recorded — imported nodes are indistinguishable from local ones.
func (s *Scene) ImportFile(path, namespace string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	namespace = strings.TrimPrefix(namespace, ":")
	doc, err := readDoc(path)
	if err != nil {
		return err
	}
	s.mergeDoc(doc, namespace)
	return nil
}
