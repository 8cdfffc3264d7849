// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/slateworks-vfx/slateworks/cmd/slate/cli"
	"github.com/slateworks-vfx/slateworks/lib/publish"
)

func publishCommand() *cli.Command {
	var (
		configPath   string
		scenePath    string
		entity       string
		task         string
		step         int
		workTemplate string
		listOnly     bool
	)
	return &cli.Command{
		Name:    "publish",
		Summary: "Collect and publish the session",
		Usage:   "slate publish --scene <file> --entity <name> --step <id> [flags]",
		Description: `Collect publishable content from a session and publish it.

The collector gates what it picks up on the pipeline step id, runs
every matching plugin's validation, and only publishes when the whole
session validates.`,
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("publish", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "project config file (default: $SLATE_CONFIG)")
			flags.StringVar(&scenePath, "scene", "", "session scene file")
			flags.StringVar(&entity, "entity", "", "entity the publishes link to")
			flags.StringVar(&task, "task", "", "task the publishes link to")
			flags.IntVar(&step, "step", 0, "pipeline step id")
			flags.StringVar(&workTemplate, "work-template", "asset_work", "template that parses the session path")
			flags.BoolVar(&listOnly, "list", false, "collect and list items without publishing")
			return flags
		},
		Run: func(args []string) error {
			logger := newLogger()
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if scenePath == "" {
				return fmt.Errorf("--scene is required")
			}
			if entity == "" {
				return fmt.Errorf("--entity is required")
			}
			sess, err := openSession(cfg, scenePath, !listOnly, logger)
			if err != nil {
				return err
			}

			ctx := context.Background()
			collector := &publish.Collector{
				Session:      sess,
				Context:      publish.Context{Entity: entity, Task: task, Step: step},
				WorkTemplate: workTemplate,
			}
			tree, err := collector.Collect(ctx)
			if err != nil {
				return err
			}

			if listOnly {
				tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
				tree.Walk(func(item *publish.Item) {
					if item.Type() == "root" {
						return
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\n", item.Type(), item.DisplayType(), item.Name())
				})
				return tw.Flush()
			}

			publisher := &publish.Publisher{Session: sess, Plugins: publish.StandardPlugins()}
			if err := publisher.Run(ctx, tree); err != nil {
				return err
			}

			published := 0
			tree.Walk(func(item *publish.Item) {
				if item.StringProperty(publish.PropType) != "" {
					published++
				}
			})
			logger.Info("session published", "items", published, "scene", scenePath)
			return nil
		},
	}
}
