// Copyright 2026 The Slateworks Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/slateworks-vfx/slateworks/lib/service"
	"github.com/slateworks-vfx/slateworks/lib/track/store"
	"github.com/slateworks-vfx/slateworks/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		showVersion  bool
		address      string
		databasePath string
		poolSize     int
		apiKeyStdin  bool
	)
	pflag.BoolVar(&showVersion, "version", false, "print version information and exit")
	pflag.StringVar(&address, "address", "127.0.0.1:8440", "TCP listen address")
	pflag.StringVar(&databasePath, "database", "", "SQLite database path (required)")
	pflag.IntVar(&poolSize, "pool-size", 0, "SQLite connection pool size (0 = default)")
	pflag.BoolVar(&apiKeyStdin, "api-key-stdin", false, "read the API key from stdin instead of SLATE_TRACK_API_KEY")
	pflag.Parse()

	if showVersion {
		fmt.Printf("slate-track-service %s\n", version.Info())
		return nil
	}

	if databasePath == "" {
		return fmt.Errorf("--database is required")
	}

	logger := service.NewLogger()

	apiKey := os.Getenv("SLATE_TRACK_API_KEY")
	if apiKeyStdin {
		key, err := readAPIKey()
		if err != nil {
			return err
		}
		apiKey = key
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set SLATE_TRACK_API_KEY or pass --api-key-stdin")
	}

	trackStore, err := store.Open(databasePath, poolSize, logger)
	if err != nil {
		return err
	}
	defer trackStore.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := service.NewHTTPServer(service.HTTPServerConfig{
		Address: address,
		Handler: newHandler(trackStore, apiKey, logger),
		Logger:  logger,
	})

	logger.Info("track service starting",
		"address", address,
		"database", databasePath,
		"version", version.Short(),
	)
	return server.Serve(ctx)
}

// readAPIKey reads the API key from stdin. On a terminal the key is
// read without echo; piped input is read as a single line.
func readAPIKey() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "API key: ")
		key, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading API key: %w", err)
		}
		return strings.TrimSpace(string(key)), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading API key from stdin: %w", err)
	}
	return strings.TrimSpace(line), nil
}
