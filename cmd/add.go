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
	"github.com/happy42779/domain-aware-routing/types"
)

var (
	addNexthop   string
	addInterface string
	addMetric    int
	addTable     int
	addReplace   bool
)

var addCmd = &cobra.Command{
	Use:   "add <destination>",
	Short: "Add a route",
	Long: `Adds a route to a kernel routing table via the agent.

Examples:
  dar add 10.1.0.0/16 --via 192.168.1.1 --table 100
  dar add default --via 10.0.0.1 --table 101 --metric 50
  dar add 10.2.0.0/24 --dev eth1 --table 100`,
	Args: cobra.ExactArgs(1),
	Run:  runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addNexthop, "via", "", "Nexthop gateway address")
	addCmd.Flags().StringVar(&addInterface, "dev", "", "Egress interface name")
	addCmd.Flags().IntVar(&addMetric, "metric", 0, "Route metric (lower is preferred)")
	addCmd.Flags().IntVar(&addTable, "table", 0, "Routing table ID (default: main)")
	addCmd.Flags().BoolVar(&addReplace, "replace", false, "Replace an existing route with the same identity")
}

func runAdd(cmd *cobra.Command, args []string) {
	if err := executeAdd(cmd.OutOrStdout(), defaultClient, args[0]); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

// executeAdd executes the add command with the given client.
func executeAdd(w io.Writer, client ClientInterface, destination string) error {
	resp, err := client.Send(agent.Request{
		Command: "add-route",
		Route: &types.Route{
			Destination: destination,
			Nexthop:     addNexthop,
			Interface:   addInterface,
			Metric:      addMetric,
			Table:       addTable,
		},
		ReplaceExisting: addReplace,
	})
	if err != nil {
		return err
	}

	if !resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}

	fmt.Fprintf(w, "[OK] %s\n", resp.Message)
	if resp.Route != nil {
		fmt.Fprintf(w, "     %s\n", resp.Route.String())
	}
	return nil
}
