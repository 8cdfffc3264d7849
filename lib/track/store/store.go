// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

// Package store is the persistence layer of slate-track-service.
// Entities are rows in a single records table with their fields as
// a JSON document; filter evaluation happens in Go after narrowing
// by entity type, which keeps the schema stable as entity shapes
// evolve.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/slateworks-vfx/slateworks/lib/sqlitepool"
	"github.com/slateworks-vfx/slateworks/lib/track"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    entity_type TEXT NOT NULL,
    data        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS records_entity_type ON records(entity_type);
`

// Store wraps a SQLite pool holding tracking records.
type Store struct {
	pool *sqlitepool.Pool
}

// Open creates or opens the tracking database at path. Use ":memory:"
// with pool size 1 for tests.
func Open(path string, poolSize int, logger *slog.Logger) (*Store, error) {
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     path,
		PoolSize: poolSize,
		Logger:   logger,
		Schema:   schema,
	})
	if err != nil {
		return nil, fmt.Errorf("opening track store: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

// Create stores a new record and returns it with id and type set.
func (s *Store) Create(ctx context.Context, entityType string, data track.Record) (track.Record, error) {
	if entityType == "" {
		return nil, fmt.Errorf("track store: entity type is required")
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	record := make(track.Record, len(data)+2)
	for k, v := range data {
		record[k] = v
	}
	delete(record, "id")
	record["type"] = entityType

	encoded, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("track store: encoding record: %w", err)
	}
	err = sqlitex.Execute(conn, "INSERT INTO records (entity_type, data) VALUES (?, ?)", &sqlitex.ExecOptions{
		Args: []any{entityType, string(encoded)},
	})
	if err != nil {
		return nil, fmt.Errorf("track store: inserting %s: %w", entityType, err)
	}

	id := conn.LastInsertRowID()
	record["id"] = id

	// Rewrite the row with the id embedded so Find never has to
	// patch it in.
	encoded, err = json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("track store: encoding record: %w", err)
	}
	err = sqlitex.Execute(conn, "UPDATE records SET data = ? WHERE id = ?", &sqlitex.ExecOptions{
		Args: []any{string(encoded), id},
	})
	if err != nil {
		return nil, fmt.Errorf("track store: updating %s %d: %w", entityType, id, err)
	}
	return record, nil
}

// Find returns all records of the given entity type matching every
// filter, in insertion order.
func (s *Store) Find(ctx context.Context, entityType string, filters []track.Filter) ([]track.Record, error) {
	if entityType == "" {
		return nil, fmt.Errorf("track store: entity type is required")
	}
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer s.pool.Put(conn)

	var records []track.Record
	err = sqlitex.Execute(conn, "SELECT data FROM records WHERE entity_type = ? ORDER BY id", &sqlitex.ExecOptions{
		Args: []any{entityType},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			var record track.Record
			if err := json.Unmarshal([]byte(stmt.ColumnText(0)), &record); err != nil {
				return fmt.Errorf("decoding record: %w", err)
			}
			for _, filter := range filters {
				if !filter.Match(record) {
					return nil
				}
			}
			records = append(records, record)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("track store: querying %s: %w", entityType, err)
	}
	return records, nil
}
