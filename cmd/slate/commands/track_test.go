// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"testing"

	"github.com/slateworks-vfx/slateworks/lib/track"
)

func TestParseFilters(t *testing.T) {
	t.Parallel()

	filters, err := parseFilters([]string{"entity=hero_chair", "version_number=3"})
	if err != nil {
		t.Fatalf("parseFilters: %v", err)
	}
	if len(filters) != 2 {
		t.Fatalf("got %d filters", len(filters))
	}

	record := track.Record{"entity": "hero_chair", "version_number": float64(3)}
	for _, filter := range filters {
		if !filter.Match(record) {
			t.Errorf("filter %+v did not match %v", filter, record)
		}
	}

	if _, err := parseFilters([]string{"no-equals"}); err == nil {
		t.Error("malformed filter accepted")
	}
}
