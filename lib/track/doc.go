// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

// Package track is the client for the production tracking service.
// Entities (assets, shots, tasks, published files) live in the
// tracking database; the pipeline reads them through Find and writes
// publish registrations through Create.
//
// The wire protocol is a small JSON API served by slate-track-service.
// Tests use the in-memory Fake, which implements the same Client
// interface without a server.
package track
