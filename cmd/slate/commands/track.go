// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/slateworks-vfx/slateworks/cmd/slate/cli"
	"github.com/slateworks-vfx/slateworks/lib/track"
)

func trackCommand() *cli.Command {
	var configPath string
	return &cli.Command{
		Name:    "track",
		Summary: "Query the tracking service",
		Subcommands: []*cli.Command{
			{
				Name:    "find",
				Summary: "Find records by field filters",
				Usage:   "slate track find <entity-type> [field=value ...]",
				Description: `Find tracking records.

Filters are field=value pairs combined with AND. Values that parse
as integers match numerically.`,
				Flags: func() *pflag.FlagSet {
					flags := pflag.NewFlagSet("find", pflag.ContinueOnError)
					flags.StringVar(&configPath, "config", "", "project config file (default: $SLATE_CONFIG)")
					return flags
				},
				Run: func(args []string) error {
					if len(args) < 1 {
						return fmt.Errorf("usage: slate track find <entity-type> [field=value ...]")
					}
					cfg, err := loadConfig(configPath)
					if err != nil {
						return err
					}
					client, err := trackClient(cfg, newLogger())
					if err != nil {
						return err
					}

					filters, err := parseFilters(args[1:])
					if err != nil {
						return err
					}
					records, err := client.Find(context.Background(), args[0], filters)
					if err != nil {
						return err
					}
					return cli.WriteJSON(records)
				},
			},
		},
	}
}

// parseFilters turns field=value arguments into equality filters.
// Integer-looking values are matched as numbers so id=42 works against
// numeric fields.
func parseFilters(args []string) ([]track.Filter, error) {
	var filters []track.Filter
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("bad filter %q, want field=value", arg)
		}
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			filters = append(filters, track.Is(field, n))
			continue
		}
		filters = append(filters, track.Is(field, value))
	}
	return filters, nil
}
