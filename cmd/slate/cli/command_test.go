// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestExecuteDispatchesSubcommand(t *testing.T) {
	t.Parallel()

	var got []string
	root := &Command{
		Name: "slate",
		Subcommands: []*Command{
			{
				Name: "find",
				Run: func(args []string) error {
					got = args
					return nil
				},
			},
		},
	}
	if err := root.Execute([]string{"find", "a", "b"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("subcommand args = %v", got)
	}
}

func TestExecuteSuggestsOnTypo(t *testing.T) {
	t.Parallel()

	root := &Command{
		Name: "slate",
		Subcommands: []*Command{
			{Name: "publish"},
			{Name: "track"},
		},
	}
	err := root.Execute([]string{"publsh"})
	if err == nil || !strings.Contains(err.Error(), `did you mean "publish"`) {
		t.Errorf("typo error = %v", err)
	}
}

func TestExecuteParsesFlags(t *testing.T) {
	t.Parallel()

	var scenePath string
	var rest []string
	command := &Command{
		Name: "load",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("load", pflag.ContinueOnError)
			flags.StringVar(&scenePath, "scene", "", "scene file")
			return flags
		},
		Run: func(args []string) error {
			rest = args
			return nil
		},
	}
	if err := command.Execute([]string{"--scene", "shot.slsc", "reference"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if scenePath != "shot.slsc" {
		t.Errorf("scene flag = %q", scenePath)
	}
	if len(rest) != 1 || rest[0] != "reference" {
		t.Errorf("positional args = %v", rest)
	}
}

func TestExecuteRejectsUnknownFlag(t *testing.T) {
	t.Parallel()

	command := &Command{
		Name: "load",
		Flags: func() *pflag.FlagSet {
			return pflag.NewFlagSet("load", pflag.ContinueOnError)
		},
		Run: func([]string) error { return nil },
	}
	if err := command.Execute([]string{"--bogus"}); err == nil {
		t.Error("unknown flag accepted")
	}
}

func TestPrintHelpListsSubcommands(t *testing.T) {
	t.Parallel()

	root := &Command{
		Name:    "slate",
		Summary: "pipeline tools",
		Subcommands: []*Command{
			{Name: "publish", Summary: "publish the session"},
		},
		Examples: []Example{
			{Description: "publish a modeling session", Command: "slate publish --scene chair.slsc"},
		},
	}
	var out strings.Builder
	root.PrintHelp(&out)
	for _, want := range []string{"publish the session", "slate publish --scene chair.slsc", "Commands:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("help output missing %q:\n%s", want, out.String())
		}
	}
}

func TestLevenshtein(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"track", "tarck", 2},
		{"publish", "publsh", 1},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
