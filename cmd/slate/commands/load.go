// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/slateworks-vfx/slateworks/cmd/slate/cli"
	"github.com/slateworks-vfx/slateworks/lib/loader"
	"github.com/slateworks-vfx/slateworks/lib/track"
)

func loadCommand() *cli.Command {
	var (
		configPath string
		scenePath  string
		publishID  int64
		dryRun     bool
	)
	return &cli.Command{
		Name:    "load",
		Summary: "Run a loader action against a published file",
		Usage:   "slate load <action> --scene <file> --publish-id <id> [flags]",
		Description: `Run a loader action against a published file.

Actions: reference, import, texture_node, udim_texture_node,
image_plane. The publish record is looked up in the tracking service
and the scene is saved back in place after the action succeeds.`,
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("load", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "project config file (default: $SLATE_CONFIG)")
			flags.StringVar(&scenePath, "scene", "", "scene file to act on")
			flags.Int64Var(&publishID, "publish-id", 0, "id of the publish record to load")
			flags.BoolVar(&dryRun, "dry-run", false, "list the actions the session offers and exit")
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
			sess, err := openSession(cfg, scenePath, true, logger)
			if err != nil {
				return err
			}

			if dryRun {
				actions := make([]loader.Action, 0, len(args))
				for _, arg := range args {
					action, err := loader.ParseAction(arg)
					if err != nil {
						return err
					}
					actions = append(actions, action)
				}
				for _, instance := range loader.GenerateActions(sess, actions) {
					fmt.Printf("%s\t%s\n", instance.Action, instance.Caption)
				}
				return nil
			}

			if len(args) != 1 {
				return fmt.Errorf("exactly one action required, got %q", strings.Join(args, " "))
			}
			action, err := loader.ParseAction(args[0])
			if err != nil {
				return err
			}
			if publishID == 0 {
				return fmt.Errorf("--publish-id is required")
			}

			ctx := context.Background()
			publish, err := sess.Track.FindOne(ctx, track.EntityPublishedFile, []track.Filter{
				track.Is("id", publishID),
			})
			if err != nil {
				return err
			}

			if err := loader.Execute(sess, action, publish); err != nil {
				return err
			}
			if err := sess.Scene.Save(scenePath); err != nil {
				return fmt.Errorf("saving scene: %w", err)
			}
			logger.Info("action complete", "action", string(action), "scene", scenePath)
			return nil
		},
	}
}
