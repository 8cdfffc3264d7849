// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

// Package hookup re-attaches published shader assignments to freshly
// referenced or imported geometry. The scene file format does not
// preserve per-object shading ties across the shader-network
// export/import round trip this pipeline performs, so the publisher
// embeds marker script nodes — name pattern plus shader payload — in
// the published file, and the loader replays them after the merge.
//
// A marker is a script node named "<prefix><pattern-body>" whose
// payload string is the shader's local name; the marker's namespace
// qualifies the shader reference. The pattern body is compiled
// verbatim as an anchored, case-insensitive regular expression and
// matched against each candidate's target key: the candidate's long
// path with namespaces stripped from every segment, joined with "_".
//
// Marker enumeration is sorted by marker name, so overlapping
// patterns resolve deterministically — first match in name order wins
// for each candidate.
package hookup

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/slateworks-vfx/slateworks/lib/groom"
	"github.com/slateworks-vfx/slateworks/lib/scene"
)

// Marker name prefixes used by the pipeline.
const (
	// MeshPrefix marks hookups for ordinary mesh geometry, written by
	// the shader-network publish and consumed on reference of a
	// "Maya Shader Network" publish.
	MeshPrefix = "SHADER_HOOKUP_"

	// GroomPrefix marks hookups for groom descriptions, written by
	// the groom-shader publish and consumed on reference of a
	// "MAYA XGShader" publish.
	GroomPrefix = "XGSHADER_HOOKUP_"
)

// Record is one collected hookup: a match pattern and the shader it
// assigns.
type Record struct {
	// Marker is the qualified name of the script node the record came
	// from.
	Marker string

	// Body is the raw pattern body (the marker's local name with the
	// prefix removed). It is compiled verbatim — regex metacharacters
	// in marker names are interpreted, a legacy behavior existing
	// marker data relies on.
	Body string

	// Shader is the namespace-qualified shader reference:
	// "<marker namespace>:<payload>".
	Shader string

	pattern *regexp.Regexp
}

// Matches reports whether the record's pattern matches a target key.
// Matching is anchored and case-insensitive.
func (r Record) Matches(key string) bool {
	return r.pattern.MatchString(key)
}

// Collect scans the scene for marker script nodes whose local name
// starts with prefix and returns their hookup records sorted by
// marker name. No markers yields an empty slice. A marker whose body
// is not a valid regular expression is an error — the enclosing
// load action is expected to abort.
func Collect(s *scene.Scene, prefix string) ([]Record, error) {
	var records []Record
	for _, marker := range s.ByKind(scene.KindScript) {
		if !strings.HasPrefix(marker.LocalName(), prefix) {
			continue
		}
		body := strings.TrimPrefix(marker.LocalName(), prefix)
		pattern, err := regexp.Compile("(?i)^" + body + "$")
		if err != nil {
			return nil, fmt.Errorf("hookup marker %s: bad pattern %q: %w", marker.Name(), body, err)
		}
		records = append(records, Record{
			Marker:  marker.Name(),
			Body:    body,
			Shader:  marker.Namespace() + ":" + marker.StringAttr(scene.PayloadAttr),
			pattern: pattern,
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Marker < records[j].Marker })
	return records, nil
}

// TargetKey computes the normalized match subject for a node: its
// root-to-leaf path with the namespace stripped from every segment
// independently, joined with "_". Identically-named objects under
// different parents or namespaces produce distinct keys.
func TargetKey(n *scene.Node) string {
	segments := strings.Split(strings.TrimPrefix(n.LongName(), "|"), "|")
	for i, segment := range segments {
		if j := strings.LastIndex(segment, ":"); j >= 0 {
			segments[i] = segment[j+1:]
		}
	}
	return strings.Join(segments, "_")
}

// ResolveMesh walks every transform in the scene that has a mesh
// shape and assigns the first matching record's shader to it. Records
// whose shader no longer exists are skipped silently. Returns the
// number of assignments made.
func ResolveMesh(s *scene.Scene, records []Record) (int, error) {
	return resolve(s, records, s.Transforms(), scene.KindMesh)
}

// ResolveDescriptions is the groom variant: candidates are the
// descriptions of the named collection. The groom registry and a
// collection name are required; their absence aborts the enclosing
// action.
func ResolveDescriptions(s *scene.Scene, g *groom.Registry, records []Record, collection string) (int, error) {
	if g == nil {
		return 0, fmt.Errorf("hookup: groom subsystem unavailable")
	}
	if collection == "" {
		return 0, fmt.Errorf("hookup: collection is required for the groom variant")
	}
	descriptions, err := g.Descriptions(collection)
	if err != nil {
		return 0, err
	}
	return resolve(s, records, descriptions, scene.KindGroomDescription)
}

func resolve(s *scene.Scene, records []Record, candidates []*scene.Node, shapeKind scene.Kind) (int, error) {
	assigned := 0
	for _, candidate := range candidates {
		if !candidate.HasChildOfKind(shapeKind) {
			continue
		}
		key := TargetKey(candidate)
		for _, record := range records {
			if !record.Matches(key) {
				continue
			}
			shader := s.Find(record.Shader)
			if shader == nil || shader.Kind() != scene.KindMaterial {
				// Stale marker; try the next pattern.
				continue
			}
			s.Select(candidate)
			if err := s.Assign(candidate, shader); err != nil {
				return assigned, err
			}
			assigned++
			break
		}
	}
	return assigned, nil
}

// WriteMarkers creates a marker script node per hookup. Keys are
// target keys (namespace-stripped, "_"-joined paths) and values are
// shader local names. Returns the created nodes so the caller can
// include them in an export selection.
func WriteMarkers(s *scene.Scene, prefix string, hookups map[string]string) []*scene.Node {
	keys := make([]string, 0, len(hookups))
	for key := range hookups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	nodes := make([]*scene.Node, 0, len(keys))
	for _, key := range keys {
		marker := s.CreateNode(scene.KindScript, prefix+key, nil)
		marker.SetAttr(scene.PayloadAttr, hookups[key])
		nodes = append(nodes, marker)
	}
	return nodes
}

// CleanMarkers deletes every marker with the given prefix from the
// scene and returns how many were removed. Markers should exist in
// the published file only.
func CleanMarkers(s *scene.Scene, prefix string) int {
	removed := 0
	for _, marker := range s.ByKind(scene.KindScript) {
		if strings.HasPrefix(marker.LocalName(), prefix) {
			s.Delete(marker)
			removed++
		}
	}
	return removed
}
