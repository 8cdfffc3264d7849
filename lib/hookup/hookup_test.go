// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package hookup

import (
	"testing"

	"github.com/slateworks-vfx/slateworks/lib/groom"
	"github.com/slateworks-vfx/slateworks/lib/scene"
)

// addMarker creates a hookup marker script node with the given
// qualified name and shader payload.
func addMarker(s *scene.Scene, name, payload string) *scene.Node {
	marker := s.CreateNode(scene.KindScript, name, nil)
	marker.SetAttr(scene.PayloadAttr, payload)
	return marker
}

// addMesh creates a transform with a mesh shape under an optional
// parent and returns the transform.
func addMesh(s *scene.Scene, name string, parent *scene.Node) *scene.Node {
	transform := s.CreateNode(scene.KindTransform, name, parent)
	s.CreateNode(scene.KindMesh, name+"Shape", transform)
	return transform
}

func TestCollectBuildsRecords(t *testing.T) {
	t.Parallel()

	s := scene.New()
	addMarker(s, "assetA:SHADER_HOOKUP_table_top", "lambert2")
	addMarker(s, "SHADER_HOOKUP_chair", "blinn1")
	s.CreateNode(scene.KindScript, "unrelated_script", nil)

	records, err := Collect(s, MeshPrefix)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Collect returned %d records, want 2", len(records))
	}

	// Sorted by marker name: the root-namespace marker first.
	if records[0].Body != "chair" || records[0].Shader != ":blinn1" {
		t.Errorf("record 0 = %q -> %q, want chair -> :blinn1", records[0].Body, records[0].Shader)
	}
	if records[1].Body != "table_top" || records[1].Shader != "assetA:lambert2" {
		t.Errorf("record 1 = %q -> %q, want table_top -> assetA:lambert2", records[1].Body, records[1].Shader)
	}

	// Anchored and case-insensitive.
	if !records[1].Matches("TABLE_TOP") {
		t.Error("pattern did not match its own body case-insensitively")
	}
	if records[1].Matches("the_table_top_extended") {
		t.Error("pattern matched an unanchored superstring")
	}
}

func TestCollectNoMarkersIsEmpty(t *testing.T) {
	t.Parallel()

	s := scene.New()
	records, err := Collect(s, MeshPrefix)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Collect on an empty scene returned %d records", len(records))
	}
}

func TestCollectBadPatternFails(t *testing.T) {
	t.Parallel()

	s := scene.New()
	addMarker(s, "SHADER_HOOKUP_broken[", "lambert1")
	if _, err := Collect(s, MeshPrefix); err == nil {
		t.Fatal("Collect succeeded on an invalid pattern body, want error")
	}
}

func TestTargetKey(t *testing.T) {
	t.Parallel()

	s := scene.New()
	group := s.CreateNode(scene.KindTransform, "assetA:grp", nil)
	table := addMesh(s, "assetA:table_top", group)

	tests := []struct {
		name string
		node *scene.Node
		want string
	}{
		{"nested namespaced", table, "grp_table_top"},
		{"top level", group, "grp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TargetKey(tt.node); got != tt.want {
				t.Errorf("TargetKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveMeshAssignsOnMatch(t *testing.T) {
	t.Parallel()

	s := scene.New()
	table := addMesh(s, "table_top", nil)
	material := s.CreateNode(scene.KindMaterial, "assetA:lambert2", nil)
	addMarker(s, "assetA:SHADER_HOOKUP_table_top", "lambert2")

	records, err := Collect(s, MeshPrefix)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	assigned, err := ResolveMesh(s, records)
	if err != nil {
		t.Fatalf("ResolveMesh: %v", err)
	}
	if assigned != 1 {
		t.Fatalf("assigned = %d, want 1", assigned)
	}
	if got := s.AssignedMaterial(table); got != material {
		t.Errorf("AssignedMaterial = %v, want assetA:lambert2", got)
	}
}

func TestResolveMeshNoMatchingObject(t *testing.T) {
	t.Parallel()

	s := scene.New()
	chair := addMesh(s, "chair", nil)
	s.CreateNode(scene.KindMaterial, "assetA:lambert2", nil)
	addMarker(s, "assetA:SHADER_HOOKUP_table_top", "lambert2")

	records, _ := Collect(s, MeshPrefix)
	assigned, err := ResolveMesh(s, records)
	if err != nil {
		t.Fatalf("ResolveMesh: %v", err)
	}
	if assigned != 0 {
		t.Errorf("assigned = %d, want 0", assigned)
	}
	if s.AssignedGroup(chair) != nil {
		t.Error("non-matching candidate was assigned a shader")
	}
}

func TestResolveMeshMissingShaderSkips(t *testing.T) {
	t.Parallel()

	s := scene.New()
	table := addMesh(s, "table_top", nil)
	// Marker references a shader that is not in the scene.
	addMarker(s, "assetA:SHADER_HOOKUP_table_top", "lambert2")

	records, _ := Collect(s, MeshPrefix)
	assigned, err := ResolveMesh(s, records)
	if err != nil {
		t.Fatalf("ResolveMesh: %v", err)
	}
	if assigned != 0 {
		t.Errorf("assigned = %d, want 0", assigned)
	}
	if s.AssignedGroup(table) != nil {
		t.Error("candidate assigned despite missing shader")
	}
}

func TestResolveMeshSkipsShapelessTransforms(t *testing.T) {
	t.Parallel()

	s := scene.New()
	// A transform named like the pattern but with no mesh child.
	bare := s.CreateNode(scene.KindTransform, "table_top", nil)
	s.CreateNode(scene.KindMaterial, "lambert2", nil)
	addMarker(s, "SHADER_HOOKUP_table_top", "lambert2")

	records, _ := Collect(s, MeshPrefix)
	assigned, err := ResolveMesh(s, records)
	if err != nil {
		t.Fatalf("ResolveMesh: %v", err)
	}
	if assigned != 0 || s.AssignedGroup(bare) != nil {
		t.Error("shapeless transform was assigned a shader")
	}
}

func TestResolveMeshFirstMatchInNameOrderWins(t *testing.T) {
	t.Parallel()

	s := scene.New()
	table := addMesh(s, "table_top", nil)
	first := s.CreateNode(scene.KindMaterial, "lambert2", nil)
	s.CreateNode(scene.KindMaterial, "blinn3", nil)
	// Both patterns match; "SHADER_HOOKUP_table_.*" sorts before
	// "SHADER_HOOKUP_table_top".
	addMarker(s, "SHADER_HOOKUP_table_.*", "lambert2")
	addMarker(s, "SHADER_HOOKUP_table_top", "blinn3")

	records, _ := Collect(s, MeshPrefix)
	if _, err := ResolveMesh(s, records); err != nil {
		t.Fatalf("ResolveMesh: %v", err)
	}
	if got := s.AssignedMaterial(table); got != first {
		t.Errorf("AssignedMaterial = %v, want the first record in name order", got)
	}
}

func TestResolveMeshPatternBodyIsRegex(t *testing.T) {
	t.Parallel()

	// A "." in the marker name is a metacharacter: the pattern
	// "table.top" matches the key "tableXtop". Legacy behavior,
	// preserved.
	s := scene.New()
	odd := addMesh(s, "tableXtop", nil)
	s.CreateNode(scene.KindMaterial, "lambert2", nil)
	addMarker(s, "SHADER_HOOKUP_table.top", "lambert2")

	records, _ := Collect(s, MeshPrefix)
	assigned, err := ResolveMesh(s, records)
	if err != nil {
		t.Fatalf("ResolveMesh: %v", err)
	}
	if assigned != 1 || s.AssignedGroup(odd) == nil {
		t.Error("metacharacter pattern did not match; legacy regex semantics lost")
	}
}

func TestResolveDescriptions(t *testing.T) {
	t.Parallel()

	s := scene.New()
	g := groom.New(s)
	g.CreatePalette("hair_collection")
	if _, err := g.CreateDescription("hair_collection", "scalp_long", "head_geo"); err != nil {
		t.Fatalf("CreateDescription: %v", err)
	}
	material := s.CreateNode(scene.KindMaterial, "hairA:hairShader1", nil)
	addMarker(s, "hairA:XGSHADER_HOOKUP_hair_collection_scalp_long", "hairShader1")

	records, err := Collect(s, GroomPrefix)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	assigned, err := ResolveDescriptions(s, g, records, "hair_collection")
	if err != nil {
		t.Fatalf("ResolveDescriptions: %v", err)
	}
	if assigned != 1 {
		t.Fatalf("assigned = %d, want 1", assigned)
	}
	descriptions, _ := g.Descriptions("hair_collection")
	if got := s.AssignedMaterial(descriptions[0]); got != material {
		t.Errorf("description material = %v, want hairA:hairShader1", got)
	}
}

func TestResolveDescriptionsPreconditions(t *testing.T) {
	t.Parallel()

	s := scene.New()
	g := groom.New(s)

	if _, err := ResolveDescriptions(s, nil, nil, "hair_collection"); err == nil {
		t.Error("nil registry accepted, want error")
	}
	if _, err := ResolveDescriptions(s, g, nil, ""); err == nil {
		t.Error("empty collection accepted, want error")
	}
	if _, err := ResolveDescriptions(s, g, nil, "no_such_collection"); err == nil {
		t.Error("missing collection accepted, want error")
	}
}

func TestWriteAndCleanMarkers(t *testing.T) {
	t.Parallel()

	s := scene.New()
	nodes := WriteMarkers(s, GroomPrefix, map[string]string{
		"grp_head": "hairShader1",
		"grp_tail": "hairShader2",
	})
	if len(nodes) != 2 {
		t.Fatalf("WriteMarkers created %d nodes, want 2", len(nodes))
	}
	// Deterministic creation order: sorted by key.
	if nodes[0].Name() != GroomPrefix+"grp_head" {
		t.Errorf("first marker = %q, want %q", nodes[0].Name(), GroomPrefix+"grp_head")
	}
	if got := nodes[1].StringAttr(scene.PayloadAttr); got != "hairShader2" {
		t.Errorf("payload = %q, want %q", got, "hairShader2")
	}

	// Round trip through Collect.
	records, err := Collect(s, GroomPrefix)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Collect returned %d records, want 2", len(records))
	}

	if removed := CleanMarkers(s, GroomPrefix); removed != 2 {
		t.Errorf("CleanMarkers removed %d, want 2", removed)
	}
	if len(s.ByKind(scene.KindScript)) != 0 {
		t.Error("markers survived CleanMarkers")
	}
}
