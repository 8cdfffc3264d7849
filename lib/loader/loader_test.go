// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/slateworks-vfx/slateworks/lib/groom"
	"github.com/slateworks-vfx/slateworks/lib/scene"
	"github.com/slateworks-vfx/slateworks/lib/session"
	"github.com/slateworks-vfx/slateworks/lib/track"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	s := scene.New()
	return &session.Session{
		Scene:       s,
		Groom:       groom.New(s),
		Project:     "show",
		ProjectRoot: t.TempDir(),
		HostVersion: 2018,
		Logger:      slog.New(slog.DiscardHandler),
	}
}

// writeShaderFile saves a scene containing a material and a hookup
// marker for the given target key, returning the file path.
func writeShaderFile(t *testing.T, prefix, key, shader, filename string) string {
	t.Helper()
	s := scene.New()
	s.CreateNode(scene.KindMaterial, shader, nil)
	marker := s.CreateNode(scene.KindScript, prefix+key, nil)
	marker.SetAttr(scene.PayloadAttr, shader)

	path := filepath.Join(t.TempDir(), filename)
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return path
}

func publishRecord(path, name, fileType string) track.Record {
	return track.Record{
		"path":                path,
		"name":                name,
		"published_file_type": fileType,
	}
}

func TestParseAction(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"reference", "import", "texture_node", "udim_texture_node", "image_plane"} {
		if _, err := ParseAction(valid); err != nil {
			t.Errorf("ParseAction(%q): %v", valid, err)
		}
	}
	if _, err := ParseAction("explode"); err == nil {
		t.Error("ParseAction accepted an unknown action")
	}
}

func TestGenerateActionsGatesUDIM(t *testing.T) {
	t.Parallel()

	requested := []Action{ActionReference, ActionUDIMTextureNode}

	sess := newTestSession(t)
	sess.HostVersion = 2014
	if got := GenerateActions(sess, requested); len(got) != 1 || got[0].Action != ActionReference {
		t.Errorf("actions on old host = %v", got)
	}

	sess.HostVersion = 2015
	if got := GenerateActions(sess, requested); len(got) != 2 {
		t.Errorf("actions on current host = %v", got)
	}
}

func TestReferenceCreatesNamespace(t *testing.T) {
	t.Parallel()

	// Asset file with one transform.
	asset := scene.New()
	asset.CreateNode(scene.KindTransform, "body", nil)
	path := filepath.Join(t.TempDir(), "hero.slsc")
	if err := asset.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	sess := newTestSession(t)
	err := Execute(sess, ActionReference, publishRecord(path, "hero rig.v003", "Maya Rig"))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	// Namespace: publish name before the dot, spaces to underscores.
	if !sess.Scene.Exists("hero_rig:body") {
		t.Error("referenced node not found under derived namespace")
	}
}

func TestReferenceMissingFile(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t)
	err := Execute(sess, ActionReference, publishRecord("/no/such/file.slsc", "x", "Maya Rig"))
	if err == nil {
		t.Error("Execute succeeded for missing file")
	}
}

func TestReferenceShaderNetworkRunsHookup(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t)
	table := sess.Scene.CreateNode(scene.KindTransform, "table_top", nil)
	sess.Scene.CreateNode(scene.KindMesh, "table_topShape", table)

	path := writeShaderFile(t, "SHADER_HOOKUP_", "table_top", "lambert2", "chairShading.slsc")
	err := Execute(sess, ActionReference, publishRecord(path, "chairShading", "Maya Shader Network"))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	material := sess.Scene.AssignedMaterial(table)
	if material == nil || material.Name() != "chairShading:lambert2" {
		t.Errorf("assigned material = %v, want chairShading:lambert2", material)
	}
}

func TestReferenceGroomShader(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t)
	sess.Groom.CreatePalette("hair")
	if _, err := sess.Groom.CreateDescription("hair", "scalp", "head_geo"); err != nil {
		t.Fatalf("CreateDescription: %v", err)
	}

	path := writeShaderFile(t, "XGSHADER_HOOKUP_", "hair_scalp", "hairShader1", "hair_GRM_v001.slsc")
	err := Execute(sess, ActionReference, publishRecord(path, "hair_GRM", "MAYA XGShader"))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	descriptions, _ := sess.Groom.Descriptions("hair")
	material := sess.Scene.AssignedMaterial(descriptions[0])
	if material == nil || material.Name() != "hair_GRM:hairShader1" {
		t.Errorf("description material = %v, want hair_GRM:hairShader1", material)
	}
}

func TestReferenceGroomShaderErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing suffix", func(t *testing.T) {
		sess := newTestSession(t)
		path := writeShaderFile(t, "XGSHADER_HOOKUP_", "hair_scalp", "hairShader1", "hairShading.slsc")
		err := Execute(sess, ActionReference, publishRecord(path, "hairShading", "MAYA XGShader"))
		if err == nil {
			t.Fatal("Execute accepted groom shader file without suffix")
		}
		if sess.Scene.ReferenceForPath(path) != nil {
			t.Error("failed reference left in scene")
		}
	})

	t.Run("missing collection", func(t *testing.T) {
		sess := newTestSession(t)
		path := writeShaderFile(t, "XGSHADER_HOOKUP_", "hair_scalp", "hairShader1", "hair_GRM_v001.slsc")
		err := Execute(sess, ActionReference, publishRecord(path, "hair_GRM", "MAYA XGShader"))
		if err == nil {
			t.Fatal("Execute accepted groom shader with no collection in scene")
		}
		if sess.Scene.ReferenceForPath(path) != nil {
			t.Error("failed reference left in scene")
		}
	})
}

func TestSimulatedCurveCacheBinding(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t)
	sess.Groom.CreatePalette("hair")
	if _, err := sess.Groom.CreateDescription("hair", "scalp", "head_geo"); err != nil {
		t.Fatalf("CreateDescription: %v", err)
	}

	cache := filepath.Join(t.TempDir(), "scalp_SIMCRV.abc")
	if err := os.WriteFile(cache, []byte("cache"), 0o644); err != nil {
		t.Fatalf("writing cache: %v", err)
	}

	err := Execute(sess, ActionReference, publishRecord(cache, "scalp_SIMCRV", "Alembic Cache"))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	object, err := sess.Groom.PrimitiveObject("hair", "scalp")
	if err != nil {
		t.Fatalf("PrimitiveObject: %v", err)
	}
	for attr, want := range map[string]string{
		"useCache":      "1",
		"liveMode":      "0",
		"cacheFileName": cache,
	} {
		got, err := sess.Groom.Attr(attr, "hair", "scalp", object)
		if err != nil {
			t.Fatalf("Attr(%s): %v", attr, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", attr, got, want)
		}
	}

	// No reference node: the cache binds in place.
	if sess.Scene.ReferenceForPath(cache) != nil {
		t.Error("curve cache created a reference node")
	}
}

func TestSimulatedCurveCacheUnknownDescription(t *testing.T) {
	t.Parallel()

	sess := newTestSession(t)
	cache := filepath.Join(t.TempDir(), "scalp_SIMCRV.abc")
	if err := os.WriteFile(cache, []byte("cache"), 0o644); err != nil {
		t.Fatalf("writing cache: %v", err)
	}
	err := Execute(sess, ActionImport, publishRecord(cache, "scalp_SIMCRV", "Alembic Cache"))
	if err == nil {
		t.Error("Execute bound cache for a description that does not exist")
	}
}

func TestImportGroomPalette(t *testing.T) {
	t.Parallel()

	// Build and export a palette from a source session.
	source := newTestSession(t)
	source.Groom.CreatePalette("hair")
	if _, err := source.Groom.CreateDescription("hair", "scalp", "head_geo"); err != nil {
		t.Fatalf("CreateDescription: %v", err)
	}
	path := filepath.Join(t.TempDir(), "hair.slpal")
	if err := source.Groom.ExportPalette("hair", path, "/p/show/work/grm", "/p/show/work/grm/data"); err != nil {
		t.Fatalf("ExportPalette: %v", err)
	}

	sess := newTestSession(t)
	err := Execute(sess, ActionImport, publishRecord(path, "hair", "Maya XGen"))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := sess.Groom.Palettes(); len(got) != 1 || got[0] != "hair" {
		t.Errorf("Palettes = %v, want [hair]", got)
	}
}

func TestImportNamespaces(t *testing.T) {
	t.Parallel()

	asset := scene.New()
	asset.CreateNode(scene.KindTransform, "body", nil)
	path := filepath.Join(t.TempDir(), "asset.slsc")
	if err := asset.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	t.Run("default namespace", func(t *testing.T) {
		sess := newTestSession(t)
		err := Execute(sess, ActionImport, publishRecord(path, "hero skin", "Maya Model"))
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if !sess.Scene.Exists("hero_skin:body") {
			t.Error("imported node not in derived namespace")
		}
	})

	t.Run("groom geometry goes to root", func(t *testing.T) {
		sess := newTestSession(t)
		err := Execute(sess, ActionImport, publishRecord(path, "hero skin", "MAYA XGGeometry"))
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		if !sess.Scene.Exists("body") {
			t.Error("groom geometry not imported into root namespace")
		}
		if sess.Scene.Exists("hero_skin:body") {
			t.Error("groom geometry landed in a namespace")
		}
	})
}
