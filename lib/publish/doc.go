// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

// Package publish is the session publisher: it scans an open scene
// for publishable content, runs a plugin pipeline over the collected
// items, and registers the resulting files with the tracking service.
//
// The flow is collect → attach → validate → publish. A Collector
// builds an item tree from the scene, gated by the pipeline step the
// artist is working in. A Publisher attaches every registered plugin
// whose item filters match, validates every task, and only then runs
// the publish pass, stopping at the first failure so a half-published
// version never silently succeeds.
//
// Plugins resolve their output path from the session's path templates:
// fields parsed from the work file path are re-applied to the plugin's
// publish template, so versioning follows the work file with no
// per-plugin counters.
package publish
