// Copyright (C) 2025 Mono Technologies Inc.
//
// This program is free software; you can redistribute it and/or
// modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.

// Package cmd implements the CLI commands for the route agent using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is the application version string.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "dar",
	Short: "Dar - Domain-Aware Routing agent",
	Long: `Dar materializes controller-requested routes into kernel policy
routing tables, one table per uplink, and reports outcomes back.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("Dar v%s (built: %s)\n", Version, BuildTime))
}

// Execute runs the root command and handles any errors.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion updates the version and build time for display in help and version output.
func SetVersion(version, buildTime string) {
	Version = version
	BuildTime = buildTime
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("Dar v%s (built: %s)\n", version, buildTime))
}

// exitWithError is a helper function that exits with code 1.
// It can be overridden in tests to avoid actual exit.
var exitWithError = func() {
	os.Exit(1)
}
