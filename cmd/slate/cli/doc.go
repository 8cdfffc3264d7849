// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command-line framework for the slate CLI.
//
// The central type is [Command]: a named subcommand with optional
// nested [Command.Subcommands], a [pflag.FlagSet] factory, and a Run
// function. Commands are assembled into a tree in cmd/slate/commands
// and dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and help output with examples.
//
// An unknown subcommand gets a "did you mean" suggestion computed by
// Levenshtein edit distance against the known names.
package cli
