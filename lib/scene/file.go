// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package scene

import (
	"bytes"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/slateworks-vfx/slateworks/lib/codec"
)

// Scene file layout: a single CBOR document holding a small header and
// the zstd-compressed CBOR node table. The header carries a BLAKE3
// hash of the compressed payload; Load refuses files whose payload no
// longer matches. Format constants — changing them breaks every scene
// on disk.
const (
	fileMagic   = "slsc"
	fileVersion = 1
)

type sceneFile struct {
	Magic   string `json:"magic"`
	Version int    `json:"version"`
	Hash    []byte `json:"hash"`
	RawSize int    `json:"raw_size"`
	Payload []byte `json:"payload"`
}

// nodeRecord is the serialized form of a node. IDs are assigned in
// depth-first pre-order, so a parent always precedes its children.
type nodeRecord struct {
	ID        int            `json:"id"`
	Parent    int            `json:"parent"` // 0 = top level
	Kind      string         `json:"kind"`
	Name      string         `json:"name"`
	Namespace string         `json:"namespace,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

type sceneDoc struct {
	Nodes       []nodeRecord `json:"nodes"`
	Assignments map[int]int  `json:"assignments,omitempty"` // object id -> shading group id
}

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("scene: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("scene: zstd decoder initialization failed: " + err.Error())
	}
}

// encodeDoc builds the serialized document for the given top-level
// nodes (their subtrees included). Assignments to shading groups
// outside the exported set are dropped.
func (s *Scene) encodeDoc(topLevel []*Node) *sceneDoc {
	doc := &sceneDoc{}
	ids := make(map[*Node]int)

	var rec func(n *Node, parent int)
	rec = func(n *Node, parent int) {
		id := len(doc.Nodes) + 1
		ids[n] = id
		attrs := make(map[string]any, len(n.attrs))
		for k, v := range n.attrs {
			attrs[k] = v
		}
		if len(attrs) == 0 {
			attrs = nil
		}
		doc.Nodes = append(doc.Nodes, nodeRecord{
			ID:        id,
			Parent:    parent,
			Kind:      string(n.kind),
			Name:      n.name,
			Namespace: n.namespace,
			Attrs:     attrs,
		})
		for _, c := range n.children {
			rec(c, id)
		}
	}
	for _, n := range topLevel {
		rec(n, 0)
	}

	for object, group := range s.assignments {
		objectID, ok := ids[object]
		if !ok {
			continue
		}
		groupID, ok := ids[group]
		if !ok {
			continue
		}
		if doc.Assignments == nil {
			doc.Assignments = make(map[int]int)
		}
		doc.Assignments[objectID] = groupID
	}
	return doc
}

func writeDoc(path string, doc *sceneDoc) error {
	raw, err := codec.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding scene document: %w", err)
	}
	payload := zstdEncoder.EncodeAll(raw, nil)
	sum := blake3.Sum256(payload)

	out, err := codec.Marshal(sceneFile{
		Magic:   fileMagic,
		Version: fileVersion,
		Hash:    sum[:],
		RawSize: len(raw),
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("encoding scene file: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing scene file: %w", err)
	}
	return nil
}

func readDoc(path string) (*sceneDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	var file sceneFile
	if err := codec.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if file.Magic != fileMagic {
		return nil, fmt.Errorf("%s: not a scene file", path)
	}
	if file.Version != fileVersion {
		return nil, fmt.Errorf("%s: unsupported scene file version %d", path, file.Version)
	}
	sum := blake3.Sum256(file.Payload)
	if !bytes.Equal(sum[:], file.Hash) {
		return nil, fmt.Errorf("%s: content hash mismatch, file is corrupt", path)
	}
	raw, err := zstdDecoder.DecodeAll(file.Payload, make([]byte, 0, file.RawSize))
	if err != nil {
		return nil, fmt.Errorf("%s: decompressing payload: %w", path, err)
	}
	var doc sceneDoc
	if err := codec.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%s: decoding node table: %w", path, err)
	}
	return &doc, nil
}

// Save writes the whole scene to path and records path as the session
// path.
func (s *Scene) Save(path string) error {
	if err := writeDoc(path, s.encodeDoc(s.root.children)); err != nil {
		return err
	}
	s.path = path
	return nil
}

// SaveNodes writes only the given nodes (with their subtrees) to path.
// This is the export-selected path: the session path is not changed.
// Shading groups assigned to exported objects must themselves be in
// the node list to survive the round trip.
func (s *Scene) SaveNodes(path string, nodes []*Node) error {
	return writeDoc(path, s.encodeDoc(nodes))
}

// mergeDoc instantiates a document's nodes into the scene. Namespace
// handling and reference bookkeeping live in reference.go; this is the
// shared low-level merge. Returns the created top-level nodes.
func (s *Scene) mergeDoc(doc *sceneDoc, namespace string) []*Node {
	byID := make(map[int]*Node, len(doc.Nodes))
	var topLevel []*Node
	for _, r := range doc.Nodes {
		parent := s.root
		if r.Parent != 0 {
			parent = byID[r.Parent]
		}
		mergedNamespace := r.Namespace
		if namespace != "" {
			if mergedNamespace == "" {
				mergedNamespace = namespace
			} else {
				mergedNamespace = namespace + ":" + mergedNamespace
			}
		}
		n := &Node{
			scene:     s,
			parent:    parent,
			kind:      Kind(r.Kind),
			name:      s.dedupeName(parent, mergedNamespace, r.Name),
			namespace: mergedNamespace,
		}
		if len(r.Attrs) > 0 {
			n.attrs = make(map[string]any, len(r.Attrs))
			for k, v := range r.Attrs {
				n.attrs[k] = v
			}
		}
		parent.children = append(parent.children, n)
		byID[r.ID] = n
		if r.Parent == 0 {
			topLevel = append(topLevel, n)
		}
	}
	for objectID, groupID := range doc.Assignments {
		object, group := byID[objectID], byID[groupID]
		if object != nil && group != nil && group.kind == KindShadingGroup {
			s.assignments[object] = group
		}
	}
	return topLevel
}

// Load opens a scene file as a new session.
func Load(path string) (*Scene, error) {
	doc, err := readDoc(path)
	if err != nil {
		return nil, err
	}
	s := New()
	s.mergeDoc(doc, "")
	s.path = path
	return s, nil
}
