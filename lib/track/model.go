// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package track

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Record is one tracking entity, as returned by the service. Field
// values come back from JSON, so numbers are float64 unless accessed
// through the typed helpers.
type Record map[string]any

// ID returns the record's numeric identifier, or 0 if unset.
func (r Record) ID() int64 {
	switch v := r["id"].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// Type returns the record's entity type, or "" if unset.
func (r Record) Type() string {
	s, _ := r["type"].(string)
	return s
}

// String returns the named field as a string, or "" if the field is
// missing or not a string.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// Int returns the named field as an int, or 0 if the field is missing
// or not numeric.
func (r Record) Int(field string) int {
	switch v := r[field].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Relation is a filter comparison operator.
type Relation string

const (
	// RelationIs matches records whose field equals the value.
	RelationIs Relation = "is"
	// RelationIn matches records whose field equals any element of
	// a list value.
	RelationIn Relation = "in"
	// RelationContains matches records whose string field contains
	// the value as a substring.
	RelationContains Relation = "contains"
)

// Filter is one condition in a Find query. All filters in a query
// must match for a record to be returned.
type Filter struct {
	Field    string   `json:"field"`
	Relation Relation `json:"relation"`
	Value    any      `json:"value"`
}

// Is builds an equality filter.
func Is(field string, value any) Filter {
	return Filter{Field: field, Relation: RelationIs, Value: value}
}

// In builds a membership filter.
func In(field string, values ...any) Filter {
	return Filter{Field: field, Relation: RelationIn, Value: values}
}

// Contains builds a substring filter.
func Contains(field, value string) Filter {
	return Filter{Field: field, Relation: RelationContains, Value: value}
}

// Match reports whether the record satisfies the filter. Numeric
// comparisons tolerate the int/float64 mismatch between in-process
// values and values that round-tripped through JSON.
func (f Filter) Match(r Record) bool {
	field, ok := r[f.Field]
	if !ok {
		return false
	}
	switch f.Relation {
	case RelationIs:
		return valueEqual(field, f.Value)
	case RelationIn:
		values, ok := f.Value.([]any)
		if !ok {
			return false
		}
		for _, v := range values {
			if valueEqual(field, v) {
				return true
			}
		}
		return false
	case RelationContains:
		haystack, ok1 := field.(string)
		needle, ok2 := f.Value.(string)
		return ok1 && ok2 && strings.Contains(haystack, needle)
	default:
		return false
	}
}

func valueEqual(a, b any) bool {
	if an, aok := toFloat(a); aok {
		bn, bok := toFloat(b)
		return bok && an == bn
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// PublishRegistration describes one published file to register with
// the tracking service. Version and Name identify the publish within
// the entity's stream; PublishType is the pipeline file type string
// (for example "Alembic Cache" or "Maya Shader Network").
type PublishRegistration struct {
	Project     string
	Entity      string
	Task        string
	Path        string
	Name        string
	Version     int
	PublishType string
	Checksum    string
	Description string
}

// Validate checks that required registration fields are set.
func (p PublishRegistration) Validate() error {
	switch {
	case p.Project == "":
		return fmt.Errorf("publish registration: project is required")
	case p.Path == "":
		return fmt.Errorf("publish registration: path is required")
	case p.PublishType == "":
		return fmt.Errorf("publish registration: publish type is required")
	case p.Version < 1:
		return fmt.Errorf("publish registration: version %d out of range", p.Version)
	}
	return nil
}

// Record converts the registration into a PublishedFile record. Name
// falls back to the path's base name when unset.
func (p PublishRegistration) Record() Record {
	name := p.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(p.Path), filepath.Ext(p.Path))
	}
	return Record{
		"project":        p.Project,
		"entity":         p.Entity,
		"task":           p.Task,
		"path":           p.Path,
		"name":           name,
		"version_number": p.Version,
		"published_file_type": p.PublishType,
		"checksum":       p.Checksum,
		"description":    p.Description,
	}
}
