// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

// Package scene implements the in-process scene graph that the loader
// and publisher hooks operate on. It is the Slateworks stand-in for a
// host 3D application's scene-command layer: a tree of typed, named,
// namespace-qualified nodes with string/numeric attributes, shading
// assignments, and a selection list.
//
// The command surface mirrors what the hooks need from a host session:
//
//   - Node creation, deletion (subtree), renaming, and lookup by
//     qualified name or kind ([Scene.CreateNode], [Scene.Delete],
//     [Scene.Find], [Scene.ByKind], [Scene.Transforms]).
//   - Shading: [Scene.Assign] routes an object through its material's
//     shading group, [Scene.AssignedGroup] reads the association back.
//   - Namespaces: a node's local name is namespace-free; the qualified
//     form is "ns:name" and long paths are "|"-separated from the root
//     ([Node.LongName]).
//   - File I/O: scenes persist as CBOR documents with a zstd-compressed
//     node payload and a BLAKE3 content hash verified on open
//     ([Scene.Save], [Load]). [Scene.SaveNodes] is the export-selected
//     path used by the shader and light-rig publishes.
//   - Reference and import: merging another scene file into the open
//     one under a namespace ([Scene.ReferenceFile], [Scene.ImportFile],
//     [Scene.RemoveReference]).
//   - Geometry caches: [Scene.ExportCache] writes the LZ4-compressed
//     cache container used by the alembic and FBX publish plugins.
//
// The scene is single-writer by construction: hooks run synchronously
// from one goroutine, so no locking is done here.
package scene
