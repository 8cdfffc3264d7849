// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

// Command slate-track-service serves the production tracking JSON
// API backed by a local SQLite database. Pipeline tools talk to it
// through lib/track.
//
// The API is three endpoints:
//
//	POST /api/v1/find    query records by entity type and filters
//	POST /api/v1/create  store a new record
//	GET  /healthz        liveness probe (unauthenticated)
//
// The find and create endpoints require a bearer token, supplied at
// startup via --api-key-stdin or the SLATE_TRACK_API_KEY environment
// variable.
package main
