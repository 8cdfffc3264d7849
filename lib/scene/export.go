// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package scene

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/blake3"

	"github.com/slateworks-vfx/slateworks/lib/codec"
)

// CacheFormat selects the flavor of geometry cache written by
// ExportCache. The publish plugins map publish types onto these.
type CacheFormat string

const (
	// CacheAlembic is the point-cache flavor used for session
	// geometry publishes.
	CacheAlembic CacheFormat = "alembic"

	// CacheFBX is the interchange flavor used for fbx geometry
	// publishes.
	CacheFBX CacheFormat = "fbx"
)

// Geometry caches use LZ4 block compression: cache payloads are large,
// write-once and read often, so decode speed wins over ratio.
const (
	cacheMagic   = "slgc"
	cacheVersion = 1
)

type cacheFile struct {
	Magic      string `json:"magic"`
	Version    int    `json:"version"`
	Format     string `json:"format"`
	Hash       []byte `json:"hash"`
	RawSize    int    `json:"raw_size"`
	Compressed bool   `json:"compressed"`
	Payload    []byte `json:"payload"`
}

type cacheEntry struct {
	Path  string         `json:"path"` // long name at export time
	Kind  string         `json:"kind"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// ExportCache writes the given nodes' subtrees as a geometry cache.
// Every node in the subtrees is recorded with its long name, so the
// cache can be re-associated with scene objects downstream.
func (s *Scene) ExportCache(path string, nodes []*Node, format CacheFormat) error {
	if len(nodes) == 0 {
		return fmt.Errorf("export cache: nothing to export")
	}
	var entries []cacheEntry
	var rec func(n *Node)
	rec = func(n *Node) {
		entries = append(entries, cacheEntry{
			Path:  n.LongName(),
			Kind:  string(n.kind),
			Attrs: n.attrs,
		})
		for _, c := range n.children {
			rec(c)
		}
	}
	for _, n := range nodes {
		rec(n)
	}

	raw, err := codec.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding cache entries: %w", err)
	}

	payload, compressed := compressCachePayload(raw)
	sum := blake3.Sum256(payload)
	out, err := codec.Marshal(cacheFile{
		Magic:      cacheMagic,
		Version:    cacheVersion,
		Format:     string(format),
		Hash:       sum[:],
		RawSize:    len(raw),
		Compressed: compressed,
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("encoding cache file: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

// compressCachePayload LZ4-compresses raw, falling back to storing it
// uncompressed when LZ4 reports the data incompressible or the result
// would not be smaller.
func compressCachePayload(raw []byte) (payload []byte, compressed bool) {
	destination := make([]byte, lz4.CompressBlockBound(len(raw)))
	written, err := lz4.CompressBlock(raw, destination, nil)
	if err != nil || written == 0 || written >= len(raw) {
		return raw, false
	}
	return destination[:written], true
}

// ReadCache reads a geometry cache back, verifying format and content
// hash. Used by tests and the scene inspection CLI.
func ReadCache(path string) (CacheFormat, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading cache file: %w", err)
	}
	var file cacheFile
	if err := codec.Unmarshal(data, &file); err != nil {
		return "", nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if file.Magic != cacheMagic {
		return "", nil, fmt.Errorf("%s: not a geometry cache", path)
	}
	sum := blake3.Sum256(file.Payload)
	if !bytes.Equal(sum[:], file.Hash) {
		return "", nil, fmt.Errorf("%s: content hash mismatch", path)
	}
	raw := file.Payload
	if file.Compressed {
		raw = make([]byte, file.RawSize)
		n, err := lz4.UncompressBlock(file.Payload, raw)
		if err != nil {
			return "", nil, fmt.Errorf("%s: decompressing payload: %w", path, err)
		}
		if n != file.RawSize {
			return "", nil, fmt.Errorf("%s: payload is %d bytes, header says %d", path, n, file.RawSize)
		}
	}
	var entries []cacheEntry
	if err := codec.Unmarshal(raw, &entries); err != nil {
		return "", nil, fmt.Errorf("%s: decoding entries: %w", path, err)
	}
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return CacheFormat(file.Format), paths, nil
}
