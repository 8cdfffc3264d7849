// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/slateworks-vfx/slateworks/lib/scene"
	"github.com/slateworks-vfx/slateworks/lib/session"
)

// frameSpec matches printf-style frame number placeholders like
// %04d in a published sequence path.
var frameSpec = regexp.MustCompile(`%0\dd`)

// createImagePlane creates an image plane for the published image.
// Sequence paths carry a frame placeholder; the plane points at the
// first frame on disk and animates over the rest via its frame
// extension. A sequence with no frames on disk creates nothing.
func createImagePlane(sess *session.Session, path string) (*scene.Node, error) {
	hasFrames := false
	if spec := frameSpec.FindString(path); spec != "" {
		hasFrames = true
		matches, err := filepath.Glob(strings.Replace(path, spec, "*", 1))
		if err != nil {
			return nil, fmt.Errorf("loader: globbing frames for %s: %w", path, err)
		}
		if len(matches) == 0 {
			sess.Logger.Error("no frames on disk for published sequence", "path", path)
			return nil, nil
		}
		sort.Strings(matches)
		path = matches[0]
	} else if err := requireFile(path); err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	plane := sess.Scene.CreateNode(scene.KindImagePlane, name, nil)
	plane.SetAttr("imageName", path)
	plane.SetAttr("showInAllViews", 1)
	if hasFrames {
		plane.SetAttr("useFrameExtension", 1)
	}
	sess.Logger.Info("created image plane", "name", plane.Name(), "path", path)
	return plane, nil
}
