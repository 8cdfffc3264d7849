// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package scene

import (
	"testing"
)

func TestQualifiedNames(t *testing.T) {
	t.Parallel()

	s := New()
	group := s.CreateNode(KindTransform, "assetA:grp", nil)
	table := s.CreateNode(KindTransform, "assetA:table_top", group)
	s.CreateNode(KindMesh, "assetA:table_topShape", table)

	if got := table.Name(); got != "assetA:table_top" {
		t.Errorf("Name() = %q, want %q", got, "assetA:table_top")
	}
	if got := table.LocalName(); got != "table_top" {
		t.Errorf("LocalName() = %q, want %q", got, "table_top")
	}
	if got := table.LongName(); got != "|assetA:grp|assetA:table_top" {
		t.Errorf("LongName() = %q, want %q", got, "|assetA:grp|assetA:table_top")
	}
	if !table.HasChildOfKind(KindMesh) {
		t.Error("HasChildOfKind(KindMesh) = false, want true")
	}
}

func TestFindAcceptsExplicitRootNamespace(t *testing.T) {
	t.Parallel()

	s := New()
	s.CreateNode(KindMaterial, "lambert2", nil)
	if s.Find(":lambert2") == nil {
		t.Error("Find(\":lambert2\") = nil, want the root-namespace material")
	}
}

func TestCreateNodeDeduplicatesSiblings(t *testing.T) {
	t.Parallel()

	s := New()
	first := s.CreateNode(KindTransform, "chair", nil)
	second := s.CreateNode(KindTransform, "chair", nil)
	third := s.CreateNode(KindTransform, "chair", nil)

	if first.Name() != "chair" {
		t.Errorf("first = %q, want %q", first.Name(), "chair")
	}
	if second.Name() != "chair1" {
		t.Errorf("second = %q, want %q", second.Name(), "chair1")
	}
	if third.Name() != "chair2" {
		t.Errorf("third = %q, want %q", third.Name(), "chair2")
	}

	// Same local name in a different namespace does not collide.
	other := s.CreateNode(KindTransform, "assetB:chair", nil)
	if other.Name() != "assetB:chair" {
		t.Errorf("namespaced = %q, want %q", other.Name(), "assetB:chair")
	}
}

func TestDeleteRemovesSubtreeAndAssignments(t *testing.T) {
	t.Parallel()

	s := New()
	group := s.CreateNode(KindTransform, "grp", nil)
	child := s.CreateNode(KindTransform, "child", group)
	s.CreateNode(KindMesh, "childShape", child)
	material := s.CreateNode(KindMaterial, "lambert1", nil)
	if err := s.Assign(child, material); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	s.Select(child)

	s.Delete(group)

	if s.Exists("child") {
		t.Error("child still exists after deleting its parent")
	}
	if got := s.AssignedGroup(child); got != nil {
		t.Errorf("AssignedGroup after delete = %v, want nil", got)
	}
	if got := len(s.Selection()); got != 0 {
		t.Errorf("selection has %d entries after delete, want 0", got)
	}
}

func TestAssignRoutesThroughShadingGroup(t *testing.T) {
	t.Parallel()

	s := New()
	object := s.CreateNode(KindTransform, "table_top", nil)
	material := s.CreateNode(KindMaterial, "assetA:lambert2", nil)

	if err := s.Assign(object, material); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	group := s.AssignedGroup(object)
	if group == nil {
		t.Fatal("AssignedGroup = nil after Assign")
	}
	if group.Kind() != KindShadingGroup {
		t.Errorf("group kind = %s, want %s", group.Kind(), KindShadingGroup)
	}
	if got := s.AssignedMaterial(object); got != material {
		t.Errorf("AssignedMaterial = %v, want the assigned material", got)
	}

	// Assigning a second object to the same material reuses the group.
	other := s.CreateNode(KindTransform, "table_leg", nil)
	if err := s.Assign(other, material); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if s.AssignedGroup(other) != group {
		t.Error("second assignment created a new shading group")
	}
	if got := len(s.GroupMembers(group)); got != 2 {
		t.Errorf("GroupMembers = %d entries, want 2", got)
	}
}

func TestAssignRejectsNonMaterial(t *testing.T) {
	t.Parallel()

	s := New()
	object := s.CreateNode(KindTransform, "thing", nil)
	mesh := s.CreateNode(KindMesh, "thingShape", object)
	if err := s.Assign(object, mesh); err == nil {
		t.Error("Assign(mesh) succeeded, want error")
	}
}
