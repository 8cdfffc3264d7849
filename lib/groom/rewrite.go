// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package groom

import (
	"fmt"
	"os"
	"strings"

	"github.com/slateworks-vfx/slateworks/lib/codec"
)

// RewriteDataPaths post-processes an exported palette file so its
// recorded paths point at the publish area instead of the work area:
// every "/work/" segment in the project path becomes "/publish/", and
// the data path is rebuilt as
// "<root>/collections/v<version>/<collection>" where <root> is the
// data path's prefix before "/collections/". The publisher runs this
// after ExportPalette, before registering the file.
func RewriteDataPaths(path string, version int, collection string) error {
	file, err := readPaletteFile(path)
	if err != nil {
		return err
	}

	file.ProjectPath = strings.ReplaceAll(file.ProjectPath, "/work/", "/publish/")

	root := file.DataPath
	if i := strings.Index(root, "/collections/"); i >= 0 {
		root = root[:i]
	}
	root = strings.ReplaceAll(root, "/work/", "/publish/")
	file.DataPath = fmt.Sprintf("%s/collections/v%03d/%s", root, version, collection)

	data, err := codec.Marshal(file)
	if err != nil {
		return fmt.Errorf("encoding palette file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("rewriting palette file: %w", err)
	}
	return nil
}

// DataPaths returns the project and data paths recorded in a palette
// file. Used by tests and the scene inspection CLI.
func DataPaths(path string) (projectPath, dataPath string, err error) {
	file, err := readPaletteFile(path)
	if err != nil {
		return "", "", err
	}
	return file.ProjectPath, file.DataPath, nil
}
