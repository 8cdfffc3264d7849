// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/slateworks-vfx/slateworks/lib/session"
)

// AlembicCachePlugin registers standalone geometry caches from the
// session's cache directory in place. The cache was written by a
// simulation or export step; the plugin only links it to the entity,
// versioned with the work file.
type AlembicCachePlugin struct{}

func (*AlembicCachePlugin) Name() string          { return "geometry-cache" }
func (*AlembicCachePlugin) ItemFilters() []string { return []string{TypeAlembicFile} }

func (*AlembicCachePlugin) Accept(_ *session.Session, _ Settings, _ *Item) Acceptance {
	return Acceptance{Accepted: true, Checked: true}
}

func (*AlembicCachePlugin) Validate(_ context.Context, sess *session.Session, _ Settings, item *Item) error {
	path := item.StringProperty(PropPath)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("the collected cache is no longer on disk: %s", path)
	}
	item.SetProperty(PropName, fileBaseName(path))
	return setWorkVersion(sess, item)
}

func (*AlembicCachePlugin) Publish(ctx context.Context, sess *session.Session, _ Settings, item *Item) error {
	_, err := registerItem(ctx, sess, item, PublishTypeAlembic)
	return err
}

// RenderedImagePlugin registers a rendered frame sequence in place,
// one publish per render layer, pointing at the first frame.
type RenderedImagePlugin struct{}

func (*RenderedImagePlugin) Name() string          { return "rendered-images" }
func (*RenderedImagePlugin) ItemFilters() []string { return []string{TypeImageSequence} }

func (*RenderedImagePlugin) Accept(_ *session.Session, _ Settings, _ *Item) Acceptance {
	return Acceptance{Accepted: true, Checked: true}
}

func (*RenderedImagePlugin) Validate(_ context.Context, sess *session.Session, _ Settings, item *Item) error {
	path := item.StringProperty(PropPath)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("the collected frames are no longer on disk: %s", path)
	}
	item.SetProperty(PropName, item.StringProperty("layer"))
	return setWorkVersion(sess, item)
}

func (*RenderedImagePlugin) Publish(ctx context.Context, sess *session.Session, _ Settings, item *Item) error {
	_, err := registerItem(ctx, sess, item, PublishTypeRenderedImage)
	return err
}

// setWorkVersion stamps the item with the work file's version number
// for in-place publishes that have no publish template of their own.
func setWorkVersion(sess *session.Session, item *Item) error {
	scenePath := sess.Scene.Path()
	if scenePath == "" {
		return errUnsaved
	}
	workName := item.StringProperty(PropWorkTemplate)
	if workName == "" {
		return nil
	}
	work, err := sess.Template(workName)
	if err != nil {
		return err
	}
	fields, err := work.ParsePath(scenePath)
	if err != nil {
		return fmt.Errorf("parsing session path: %w", err)
	}
	if version, ok := fields["version"]; ok {
		item.SetProperty(PropVersion, version)
	}
	return nil
}

// fileBaseName strips the directory and extension from a path.
func fileBaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
