// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides shared plumbing for Slateworks network
// services: the standard structured logger and an HTTP server with
// managed listener lifecycle and graceful shutdown.
package service
