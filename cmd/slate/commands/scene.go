// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/slateworks-vfx/slateworks/cmd/slate/cli"
	"github.com/slateworks-vfx/slateworks/lib/scene"
)

func sceneCommand() *cli.Command {
	return &cli.Command{
		Name:    "scene",
		Summary: "Inspect scene files",
		Subcommands: []*cli.Command{
			{
				Name:    "ls",
				Summary: "List the node tree of a scene file",
				Usage:   "slate scene ls <file>",
				Run: func(args []string) error {
					if len(args) != 1 {
						return fmt.Errorf("usage: slate scene ls <file>")
					}
					s, err := scene.Load(args[0])
					if err != nil {
						return err
					}
					tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
					for _, top := range s.TopLevel() {
						printNode(tw, top, 0)
					}
					return tw.Flush()
				},
			},
			{
				Name:    "show",
				Summary: "Show a node's attributes",
				Usage:   "slate scene show <file> <node>",
				Run: func(args []string) error {
					if len(args) != 2 {
						return fmt.Errorf("usage: slate scene show <file> <node>")
					}
					s, err := scene.Load(args[0])
					if err != nil {
						return err
					}
					node := s.Find(args[1])
					if node == nil {
						return fmt.Errorf("no node named %q in %s", args[1], args[0])
					}
					fmt.Printf("%s (%s)\n", node.LongName(), node.Kind())
					for _, name := range attrNames(node) {
						value, _ := node.Attr(name)
						fmt.Printf("  %s = %v\n", name, value)
					}
					return nil
				},
			},
		},
	}
}

func printNode(tw *tabwriter.Writer, n *scene.Node, depth int) {
	fmt.Fprintf(tw, "%s%s\t%s\n", strings.Repeat("  ", depth), n.Name(), n.Kind())
	for _, child := range n.Children() {
		printNode(tw, child, depth+1)
	}
}

func attrNames(n *scene.Node) []string {
	names := n.AttrNames()
	sort.Strings(names)
	return names
}
