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

var (
	delNexthop string
	delTable   int
)

var deleteCmd = &cobra.Command{
	Use:   "delete <destination>",
	Short: "Delete a route",
	Long: `Deletes a route from a kernel routing table via the agent.
Deleting a route that is not installed is treated as success.

Examples:
  dar delete 10.1.0.0/16 --via 192.168.1.1 --table 100
  dar delete default --table 101`,
	Args: cobra.ExactArgs(1),
	Run:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().StringVar(&delNexthop, "via", "", "Nexthop gateway address")
	deleteCmd.Flags().IntVar(&delTable, "table", 0, "Routing table ID (default: main)")
}

func runDelete(cmd *cobra.Command, args []string) {
	if err := executeDelete(cmd.OutOrStdout(), defaultClient, args[0]); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

// executeDelete executes the delete command with the given client.
func executeDelete(w io.Writer, client ClientInterface, destination string) error {
	resp, err := client.Send(agent.Request{
		Command:     "delete-route",
		Destination: destination,
		Nexthop:     delNexthop,
		Table:       delTable,
	})
	if err != nil {
		return err
	}

	if !resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}

	fmt.Fprintf(w, "[OK] %s\n", resp.Message)
	return nil
}
