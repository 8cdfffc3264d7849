// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/slateworks-vfx/slateworks/lib/hookup"
	"github.com/slateworks-vfx/slateworks/lib/session"
	"github.com/slateworks-vfx/slateworks/lib/track"
)

// Published file types with load-time side effects.
const (
	typeShaderNetwork = "Maya Shader Network"
	typeGroomShader   = "MAYA XGShader"
	typeGroom         = "Maya XGen"
	typeGroomGeometry = "MAYA XGGeometry"
)

// simCurveSuffix marks simulated groom curve caches. Loading one
// binds the cache to its description instead of bringing nodes into
// the scene.
const simCurveSuffix = "_SIMCRV"

// groomShaderSuffix separates the collection name from the rest of a
// groom shader file name.
const groomShaderSuffix = "_GRM"

// createReference references the file into the scene under a
// namespace derived from the publish name, then runs any load-time
// hookups its file type calls for.
func createReference(sess *session.Session, path string, publish track.Record) error {
	if err := requireFile(path); err != nil {
		return err
	}
	if done, err := bindSimCurves(sess, path); done || err != nil {
		return err
	}

	namespace := publishNamespace(publish)
	ref, err := sess.Scene.ReferenceFile(path, namespace)
	if err != nil {
		return fmt.Errorf("loader: referencing %s: %w", path, err)
	}

	switch publish.String("published_file_type") {
	case typeShaderNetwork:
		records, err := hookup.Collect(sess.Scene, hookup.MeshPrefix)
		if err != nil {
			return err
		}
		assigned, err := hookup.ResolveMesh(sess.Scene, records)
		if err != nil {
			return err
		}
		sess.Logger.Info("shader hookup complete", "assigned", assigned)

	case typeGroomShader:
		filename := filepath.Base(path)
		if !strings.Contains(filename, groomShaderSuffix) {
			sess.Scene.RemoveReference(ref)
			return fmt.Errorf("loader: groom shader file name %q lacks the %s marker", filename, groomShaderSuffix)
		}
		collection, _, _ := strings.Cut(filename, groomShaderSuffix)
		if !sess.Scene.Exists(collection) {
			sess.Scene.RemoveReference(ref)
			return fmt.Errorf("loader: collection %q does not exist", collection)
		}
		records, err := hookup.Collect(sess.Scene, hookup.GroomPrefix)
		if err != nil {
			return err
		}
		assigned, err := hookup.ResolveDescriptions(sess.Scene, sess.Groom, records, collection)
		if err != nil {
			return err
		}
		sess.Logger.Info("groom shader hookup complete",
			"collection", collection,
			"assigned", assigned,
		)
	}
	return nil
}

// doImport merges the file's contents into the scene. Groom palettes
// rebuild through the groom registry rather than a plain merge, and
// groom geometry imports into the root namespace so description
// bindings resolve.
func doImport(sess *session.Session, path string, publish track.Record) error {
	if err := requireFile(path); err != nil {
		return err
	}
	if done, err := bindSimCurves(sess, path); done || err != nil {
		return err
	}

	fileType := publish.String("published_file_type")
	if fileType == typeGroom {
		if sess.Groom == nil {
			return fmt.Errorf("loader: groom subsystem unavailable")
		}
		return sess.Groom.ImportBindPalette(path)
	}

	namespace := publishNamespace(publish)
	if fileType == typeGroomGeometry {
		namespace = ":"
	}
	return sess.Scene.ImportFile(path, namespace)
}

// bindSimCurves detects a simulated curve cache by its file name and
// binds it to the matching groom description. Reports whether the
// path was handled.
func bindSimCurves(sess *session.Session, path string) (bool, error) {
	basename := filepath.Base(path)
	if !strings.Contains(basename, simCurveSuffix) {
		return false, nil
	}
	if sess.Groom == nil {
		return true, fmt.Errorf("loader: groom subsystem unavailable")
	}

	description, _, _ := strings.Cut(basename, simCurveSuffix)
	palette, err := sess.Groom.PaletteOf(description)
	if err != nil {
		return true, fmt.Errorf("loader: binding curve cache %s: %w", basename, err)
	}
	object, err := sess.Groom.PrimitiveObject(palette, description)
	if err != nil {
		return true, err
	}

	if err := sess.Groom.SetAttr("useCache", "1", palette, description, object); err != nil {
		return true, err
	}
	if err := sess.Groom.SetAttr("liveMode", "0", palette, description, object); err != nil {
		return true, err
	}
	if err := sess.Groom.SetAttr("cacheFileName", path, palette, description, object); err != nil {
		return true, err
	}
	sess.Logger.Info("bound simulated curve cache",
		"palette", palette,
		"description", description,
		"cache", path,
	)
	return true, nil
}
