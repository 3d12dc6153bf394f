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

var flushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Delete all agent-installed routes",
	Long:  `Deletes every route the agent has installed across all tables.`,
	Run:   runFlush,
}

func init() {
	rootCmd.AddCommand(flushCmd)
}

func runFlush(cmd *cobra.Command, args []string) {
	if err := executeFlush(cmd.OutOrStdout(), defaultClient); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

// executeFlush executes the flush command with the given client.
func executeFlush(w io.Writer, client ClientInterface) error {
	resp, err := client.Send(agent.Request{Command: "flush"})
	if err != nil {
		return err
	}

	if !resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}

	fmt.Fprintf(w, "[OK] %s\n", resp.Message)
	return nil
}
