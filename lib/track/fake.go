// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package track

import (
	"context"
	"fmt"
	"sync"
)

// Fake is an in-memory Client for tests. Records live in a plain
// slice; filters evaluate with the same Match semantics the service
// uses.
type Fake struct {
	mu      sync.Mutex
	nextID  int64
	records []Record
}

var _ Client = (*Fake)(nil)

// NewFake returns an empty in-memory tracking client.
func NewFake() *Fake {
	return &Fake{nextID: 1}
}

// Seed adds a record directly, assigning an id. Returns the stored
// record for use in test expectations.
func (f *Fake) Seed(entityType string, data Record) Record {
	record, _ := f.Create(context.Background(), entityType, data)
	return record
}

// Find implements Client.
func (f *Fake) Find(_ context.Context, entityType string, filters []Filter) ([]Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Record
	for _, record := range f.records {
		if record.Type() != entityType {
			continue
		}
		if matchAll(record, filters) {
			out = append(out, cloneRecord(record))
		}
	}
	return out, nil
}

// FindOne implements Client.
func (f *Fake) FindOne(ctx context.Context, entityType string, filters []Filter) (Record, error) {
	records, err := f.Find(ctx, entityType, filters)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("track: no %s matches the given filters", entityType)
	}
	return records[0], nil
}

// Create implements Client.
func (f *Fake) Create(_ context.Context, entityType string, data Record) (Record, error) {
	if entityType == "" {
		return nil, fmt.Errorf("track: entity type is required")
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	record := cloneRecord(data)
	record["id"] = f.nextID
	record["type"] = entityType
	f.nextID++
	f.records = append(f.records, record)
	return cloneRecord(record), nil
}

func matchAll(record Record, filters []Filter) bool {
	for _, filter := range filters {
		if !filter.Match(record) {
			return false
		}
	}
	return true
}

func cloneRecord(record Record) Record {
	out := make(Record, len(record))
	for k, v := range record {
		out[k] = v
	}
	return out
}
