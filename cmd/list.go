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
	"time"

	"github.com/spf13/cobra"

	"github.com/happy42779/domain-aware-routing/agent"
)

var listTable int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List routes tracked by the agent",
	Long: `Lists the routes the agent has installed, grouped by routing table.

Examples:
  dar list
  dar list --table 100`,
	Run: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVar(&listTable, "table", 0, "Only show routes in this table")
}

func runList(cmd *cobra.Command, args []string) {
	if err := executeList(cmd.OutOrStdout(), defaultClient); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

// executeList executes the list command with the given client.
func executeList(w io.Writer, client ClientInterface) error {
	resp, err := client.Send(agent.Request{
		Command: "list-routes",
		Table:   listTable,
	})
	if err != nil {
		return err
	}

	if !resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}

	if len(resp.Routes) == 0 {
		fmt.Fprintln(w, "No routes tracked")
		return nil
	}

	currentTable := -1
	for _, r := range resp.Routes {
		if r.Table != currentTable {
			currentTable = r.Table
			fmt.Fprintf(w, "Table %d:\n", currentTable)
		}
		created := ""
		if r.CreatedAt > 0 {
			created = time.UnixMilli(r.CreatedAt).Format(time.RFC3339)
		}
		fmt.Fprintf(w, "  %s  %s\n", r.String(), created)
	}
	return nil
}
