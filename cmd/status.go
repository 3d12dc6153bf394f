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

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/happy42779/domain-aware-routing/agent"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show agent status",
	Long:  `Displays agent version, uptime and the number of tracked routes.`,
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	if err := executeStatus(cmd.OutOrStdout(), defaultClient); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

// executeStatus executes the status command with the given client.
func executeStatus(w io.Writer, client ClientInterface) error {
	resp, err := client.Send(agent.Request{Command: "status"})
	if err != nil {
		return err
	}

	if !resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		fmt.Fprintln(w, "Unable to parse status data")
		return nil
	}

	fmt.Fprintln(w, "Dar Route Agent")
	fmt.Fprintln(w, "===============")
	fmt.Fprintf(w, "Version:  %v\n", data["version"])
	fmt.Fprintf(w, "Uptime:   %v\n", data["uptime"])
	fmt.Fprintf(w, "Routes:   %v\n", data["routes"])
	if tables, ok := data["tables"].([]interface{}); ok && len(tables) > 0 {
		fmt.Fprintf(w, "Tables:   %v\n", tables)
	}
	return nil
}
