// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/slateworks-vfx/slateworks/lib/scene"
	"github.com/slateworks-vfx/slateworks/lib/session"
	"github.com/slateworks-vfx/slateworks/lib/track"
)

// typeTextureFolder publishes a whole texture directory with a
// manifest instead of a single image.
const typeTextureFolder = "Texture Folder"

// udimAnchor is the tile every UDIM sequence starts at. Only files
// carrying it produce texture nodes; the node's tiling mode pulls in
// the sibling tiles.
var udimAnchor = regexp.MustCompile(`1001\.[a-z]`)

// Color space rules for UDIM textures, keyed by channel name found
// in the file name. Matching is case-insensitive.
var (
	srgbChannels = []string{"Diffuse", "Reflection"}
	rawChannels  = []string{"Glossiness", "IOR", "Normal"}
)

// createTextureNodes creates file texture nodes for a publish:
// a single node for a plain image, one node per texture set for a
// Texture Folder publish.
func createTextureNodes(sess *session.Session, path string, publish track.Record) ([]*scene.Node, error) {
	if publish.String("published_file_type") == typeTextureFolder {
		return createTextureFolderNodes(sess, path)
	}
	node, err := createTextureNode(sess, path)
	if err != nil {
		return nil, err
	}
	return []*scene.Node{node}, nil
}

// createTextureNode creates a plain file texture node pointing at
// the image. The node is named after the image so downstream tools
// can tell textures apart.
func createTextureNode(sess *session.Session, path string) (*scene.Node, error) {
	if err := requireFile(path); err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	node := sess.Scene.CreateNode(scene.KindFileTexture, name, nil)
	node.SetAttr("fileTextureName", path)
	return node, nil
}

// createUDIMTextureNode creates a file texture node in UDIM tiling
// mode and applies the color space the channel name calls for.
func createUDIMTextureNode(sess *session.Session, path string) (*scene.Node, error) {
	node, err := createTextureNode(sess, path)
	if err != nil {
		return nil, err
	}
	node.SetAttr("uvTilingMode", 3)
	node.SetAttr("uvTileProxyQuality", 4)

	lower := strings.ToLower(node.LocalName())
	for _, channel := range srgbChannels {
		if strings.Contains(lower, strings.ToLower(channel)) {
			node.SetAttr("colorSpace", "sRGB")
		}
	}
	for _, channel := range rawChannels {
		if strings.Contains(lower, strings.ToLower(channel)) {
			node.SetAttr("colorSpace", "Raw")
		}
	}
	return node, nil
}

// textureManifest is the authored JSON document published alongside
// a texture folder. Comments and trailing commas are tolerated.
type textureManifest struct {
	TextureSets map[string]any `json:"texturesets"`
}

// createTextureFolderNodes reads the folder's manifest and creates
// texture nodes for its image files. A manifest whose first texture
// set key is numeric marks a UDIM folder: only tile-1001 anchors get
// nodes, in UDIM mode. Any other manifest creates a plain node per
// image. A folder without a manifest creates nothing.
func createTextureFolderNodes(sess *session.Session, dir string) ([]*scene.Node, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("loader: reading texture folder: %w", err)
	}

	var images []string
	manifestPath := ""
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		full := filepath.Join(dir, entry.Name())
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case "":
			// Not an image.
		case ".obj", ".mtl":
			// Lookdev geometry riding along with the textures.
		case ".json":
			manifestPath = full
		default:
			images = append(images, full)
		}
	}
	if manifestPath == "" {
		sess.Logger.Warn("texture folder has no manifest", "dir", dir)
		return nil, nil
	}
	sort.Strings(images)

	manifest, err := readTextureManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	if len(manifest.TextureSets) == 0 {
		return nil, nil
	}

	var nodes []*scene.Node
	if manifestIsUDIM(manifest) {
		for _, image := range images {
			if !udimAnchor.MatchString(filepath.Base(image)) {
				continue
			}
			node, err := createUDIMTextureNode(sess, image)
			if err != nil {
				return nodes, err
			}
			nodes = append(nodes, node)
		}
	} else {
		for _, image := range images {
			node, err := createTextureNode(sess, image)
			if err != nil {
				return nodes, err
			}
			nodes = append(nodes, node)
		}
	}
	return nodes, nil
}

func readTextureManifest(path string) (*textureManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: reading texture manifest: %w", err)
	}
	var manifest textureManifest
	if err := json.Unmarshal(jsonc.ToJSON(data), &manifest); err != nil {
		return nil, fmt.Errorf("loader: parsing texture manifest %s: %w", path, err)
	}
	return &manifest, nil
}

// manifestIsUDIM reports whether the manifest's first texture set
// key (in sorted order) is numeric, which marks tile-based naming.
func manifestIsUDIM(manifest *textureManifest) bool {
	keys := make([]string, 0, len(manifest.TextureSets))
	for key := range manifest.TextureSets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	_, err := strconv.Atoi(keys[0])
	return err == nil
}
