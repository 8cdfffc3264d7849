// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/slateworks-vfx/slateworks/lib/session"
	"github.com/slateworks-vfx/slateworks/lib/track"
)

// errUnsaved is the shared "save first" failure every plugin hits on
// an unsaved session.
var errUnsaved = fmt.Errorf("the session has not been saved")

var nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]+`)

// displayName reduces an object name to the alphanumeric-only form
// used as the publish name field, so namespaced and grouped objects
// produce filesystem- and template-safe names.
func displayName(object string) string {
	return nonAlphanumeric.ReplaceAllString(object, "")
}

// resolvePublishPath derives the item's output path: fields parsed
// from the session path via the inherited work template, overridden
// per plugin, applied to the plugin's publish template. The resolved
// path and the work file's version land in the item's properties.
func resolvePublishPath(sess *session.Session, item *Item, settings Settings, overrides map[string]any) error {
	scenePath := sess.Scene.Path()
	if scenePath == "" {
		return errUnsaved
	}

	workName := item.StringProperty(PropWorkTemplate)
	if workName == "" {
		return fmt.Errorf("no work template configured for %s", item.Name())
	}
	work, err := sess.Template(workName)
	if err != nil {
		return err
	}
	fields, err := work.ParsePath(scenePath)
	if err != nil {
		return fmt.Errorf("parsing session path: %w", err)
	}
	for key, value := range overrides {
		fields[key] = value
	}

	publishTemplate, err := sess.Template(settings.Get(SettingPublishTemplate))
	if err != nil {
		return err
	}
	if missing := publishTemplate.MissingKeys(fields); len(missing) > 0 {
		return fmt.Errorf("work file %q is missing keys required by template %q: %s",
			scenePath, publishTemplate.Name(), strings.Join(missing, ", "))
	}
	publishPath, err := publishTemplate.Apply(fields)
	if err != nil {
		return err
	}

	item.SetProperty(PropPath, publishPath)
	if version, ok := fields["version"]; ok {
		item.SetProperty(PropVersion, version)
	}
	return nil
}

// ensureFolder creates the parent directory of a publish path.
func ensureFolder(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating publish folder: %w", err)
	}
	return nil
}

// checksumFile returns the hex BLAKE3 digest of a file's contents.
func checksumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening published file: %w", err)
	}
	defer f.Close()
	hasher := blake3.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("hashing published file: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// registerItem is the base publish step: hash the output file and
// create the PublishedFile record linking it to the session's entity
// and task. The item must already carry a resolved path; the publish
// type is recorded back on the item on success.
func registerItem(ctx context.Context, sess *session.Session, item *Item, publishType string) (track.Record, error) {
	if sess.Track == nil {
		return nil, fmt.Errorf("tracking client unavailable")
	}
	path := item.StringProperty(PropPath)
	if path == "" {
		return nil, fmt.Errorf("no publish path resolved for %s", item.Name())
	}
	checksum, err := checksumFile(path)
	if err != nil {
		return nil, err
	}
	record, err := track.RegisterPublish(ctx, sess.Track, track.PublishRegistration{
		Project:     sess.Project,
		Entity:      item.StringProperty(PropEntity),
		Task:        item.StringProperty(PropTask),
		Path:        path,
		Name:        item.StringProperty(PropName),
		Version:     item.IntProperty(PropVersion),
		PublishType: publishType,
		Checksum:    checksum,
	})
	if err != nil {
		return nil, fmt.Errorf("registering publish: %w", err)
	}
	item.SetProperty(PropType, publishType)
	return record, nil
}
