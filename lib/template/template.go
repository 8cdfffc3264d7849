// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

// Package template provides named path templates for pipeline file
// locations. A template is a path pattern with {field} placeholders;
// applying a map of field values yields a concrete path, and parsing
// a concrete path back recovers the field values.
//
// Templates are declared in a YAML document keyed by template name:
//
//	maya_asset_publish: "{root}/assets/{asset}/publish/{name}_v{version:03}.slsc"
//
// Integer fields may carry a zero-padding width after a colon.
package template

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var fieldPattern = regexp.MustCompile(`\{([A-Za-z][A-Za-z0-9_]*)(?::(0[0-9]+))?\}`)

// Field is one placeholder in a template pattern.
type Field struct {
	Name string
	// Pad is the zero-padding width for integer fields, 0 for
	// plain string fields.
	Pad int
}

// Template is a parsed path pattern.
type Template struct {
	name    string
	pattern string
	fields  []Field
	// matcher parses concrete paths back into field values.
	matcher *regexp.Regexp
	// repeats counts occurrences per field name; repeated fields
	// must parse to the same value everywhere they appear.
	repeats map[string]int
}

// Parse compiles a single pattern outside of any template set.
func Parse(name, pattern string) (*Template, error) {
	fields := []Field{}
	seen := map[string]int{}
	var matcher strings.Builder
	matcher.WriteString("^")
	last := 0
	for _, loc := range fieldPattern.FindAllStringSubmatchIndex(pattern, -1) {
		if err := checkLiteral(pattern, pattern[last:loc[0]]); err != nil {
			return nil, err
		}
		matcher.WriteString(regexp.QuoteMeta(pattern[last:loc[0]]))
		name := pattern[loc[2]:loc[3]]
		pad := 0
		if loc[4] >= 0 {
			n, err := strconv.Atoi(pattern[loc[4]:loc[5]])
			if err != nil || n < 1 {
				return nil, fmt.Errorf("template %q: bad pad width in field %q", pattern, name)
			}
			pad = n
		}
		// RE2 has no backreferences, so a repeated field gets a
		// numbered capture group and ParsePath checks the values
		// agree.
		group := name
		if n := seen[name]; n > 0 {
			group = fmt.Sprintf("%s_%d", name, n)
		} else {
			fields = append(fields, Field{Name: name, Pad: pad})
		}
		seen[name]++
		if pad > 0 {
			fmt.Fprintf(&matcher, `(?P<%s>[0-9]{%d,})`, group, pad)
		} else {
			fmt.Fprintf(&matcher, `(?P<%s>[^/]+)`, group)
		}
		last = loc[1]
	}
	if err := checkLiteral(pattern, pattern[last:]); err != nil {
		return nil, err
	}
	matcher.WriteString(regexp.QuoteMeta(pattern[last:]))
	matcher.WriteString("$")

	re, err := regexp.Compile(matcher.String())
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", pattern, err)
	}
	return &Template{name: name, pattern: pattern, fields: fields, matcher: re, repeats: seen}, nil
}

// checkLiteral rejects brace characters left over after placeholder
// scanning. A brace in literal text means an unbalanced placeholder or
// an unrecognized field format, and either one would otherwise leak
// into every path the template resolves.
func checkLiteral(pattern, literal string) error {
	if strings.ContainsAny(literal, "{}") {
		return fmt.Errorf("template %q: malformed placeholder in %q", pattern, literal)
	}
	return nil
}

// Name returns the template's declared name.
func (t *Template) Name() string { return t.name }

// Pattern returns the raw pattern string.
func (t *Template) Pattern() string { return t.pattern }

// Fields returns the placeholder fields in pattern order, without
// duplicates.
func (t *Template) Fields() []Field {
	out := make([]Field, len(t.fields))
	copy(out, t.fields)
	return out
}

// MissingKeys reports which fields have no value in the given map,
// sorted by name.
func (t *Template) MissingKeys(values map[string]any) []string {
	var missing []string
	for _, f := range t.fields {
		if _, ok := values[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	sort.Strings(missing)
	return missing
}

// Apply substitutes field values into the pattern. Integer fields
// accept int values and are zero-padded to the declared width; all
// other fields accept strings. Missing fields are an error.
func (t *Template) Apply(values map[string]any) (string, error) {
	if missing := t.MissingKeys(values); len(missing) > 0 {
		return "", fmt.Errorf("template %s: missing fields %s", t.name, strings.Join(missing, ", "))
	}
	var out strings.Builder
	last := 0
	for _, loc := range fieldPattern.FindAllStringSubmatchIndex(t.pattern, -1) {
		out.WriteString(t.pattern[last:loc[0]])
		name := t.pattern[loc[2]:loc[3]]
		pad := 0
		if loc[4] >= 0 {
			pad, _ = strconv.Atoi(t.pattern[loc[4]:loc[5]])
		}
		formatted, err := formatValue(name, values[name], pad)
		if err != nil {
			return "", fmt.Errorf("template %s: %w", t.name, err)
		}
		out.WriteString(formatted)
		last = loc[1]
	}
	out.WriteString(t.pattern[last:])
	return out.String(), nil
}

func formatValue(name string, v any, pad int) (string, error) {
	if pad > 0 {
		n, ok := toInt(v)
		if !ok {
			return "", fmt.Errorf("field %s: want integer, got %T", name, v)
		}
		return fmt.Sprintf("%0*d", pad, n), nil
	}
	switch s := v.(type) {
	case string:
		if s == "" {
			return "", fmt.Errorf("field %s: empty value", name)
		}
		return s, nil
	case int:
		return strconv.Itoa(s), nil
	case int64:
		return strconv.FormatInt(s, 10), nil
	default:
		return "", fmt.Errorf("field %s: unsupported value type %T", name, v)
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	default:
		return 0, false
	}
}

// ParsePath recovers field values from a concrete path produced by
// this template. Integer fields come back as int values.
func (t *Template) ParsePath(path string) (map[string]any, error) {
	m := t.matcher.FindStringSubmatch(path)
	if m == nil {
		return nil, fmt.Errorf("path %q does not match template %s", path, t.name)
	}
	values := map[string]any{}
	for _, f := range t.fields {
		raw := m[t.matcher.SubexpIndex(f.Name)]
		for i := 1; i < t.repeats[f.Name]; i++ {
			other := m[t.matcher.SubexpIndex(fmt.Sprintf("%s_%d", f.Name, i))]
			if other != raw {
				return nil, fmt.Errorf("field %s: conflicting values %q and %q in %q", f.Name, raw, other, path)
			}
		}
		if f.Pad > 0 {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
			values[f.Name] = n
		} else {
			values[f.Name] = raw
		}
	}
	return values, nil
}

// Set is a named collection of templates loaded from one document.
type Set struct {
	templates map[string]*Template
}

// LoadFile reads a YAML template document from disk.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading templates: %w", err)
	}
	return Load(data)
}

// Load parses a YAML template document.
func Load(data []byte) (*Set, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	set := &Set{templates: make(map[string]*Template, len(raw))}
	for name, pattern := range raw {
		t, err := Parse(name, pattern)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}
		set.templates[name] = t
	}
	return set, nil
}

// Get returns the named template.
func (s *Set) Get(name string) (*Template, error) {
	t, ok := s.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q is not defined", name)
	}
	return t, nil
}

// Names lists the defined template names, sorted.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
