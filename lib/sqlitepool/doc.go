// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides the SQLite connection pool behind the
// tracking store.
//
// It wraps zombiezen.com/go/sqlite with the pragmas the tracking
// workload needs: WAL journal mode so registrations never block finds,
// NORMAL synchronous for process-crash durability without
// fsync-per-commit overhead, and a busy timeout to ride out write
// contention. The schema script in [Config] is applied to every
// connection, so callers get a ready-to-query database from the first
// Take.
//
// The pool is built on zombiezen's sqlitex.Pool, which manages a
// fixed-size set of connections. Callers [Pool.Take] a connection,
// perform work, and [Pool.Put] it back. Connections are NOT safe for
// concurrent use — each goroutine must hold its own connection for the
// duration of its work.
//
// # Usage
//
//	pool, err := sqlitepool.Open(sqlitepool.Config{
//	    Path:   "/var/slateworks/track/track.db",
//	    Logger: logger,
//	    Schema: schema,
//	})
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	conn, err := pool.Take(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Put(conn)
//
// # Design
//
// This package is intentionally thin: it applies the pragmas and
// schema and exposes the underlying zombiezen types directly. There is
// no attempt to abstract away SQLite's connection model or invent a
// query builder. The store writes SQL and uses sqlitex.Execute for
// cached statements.
package sqlitepool
