// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the slate CLI command tree: loader actions,
// session publishing, scene inspection and tracking queries, all
// driven by the project configuration file.
package commands

import (
	"fmt"

	"github.com/slateworks-vfx/slateworks/cmd/slate/cli"
	"github.com/slateworks-vfx/slateworks/lib/version"
)

// Root builds the complete slate CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "slate",
		Description: `Slateworks: session loader and publisher for the studio pipeline.

Run loader actions against published files, publish the current
session, inspect scene files and query the tracking service.`,
		Subcommands: []*cli.Command{
			loadCommand(),
			publishCommand(),
			sceneCommand(),
			trackCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ []string) error {
					fmt.Printf("slate %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Reference a published shader network into a scene",
				Command:     "slate load reference --scene shot.slsc --publish-id 42",
			},
			{
				Description: "Publish a modeling session",
				Command:     "slate publish --scene chairMain_v003.slsc --entity hero_chair --step 15",
			},
			{
				Description: "List the nodes of a scene file",
				Command:     "slate scene ls shot.slsc",
			},
			{
				Description: "Find publishes for an entity",
				Command:     "slate track find PublishedFile entity=hero_chair",
			},
		},
	}
}
