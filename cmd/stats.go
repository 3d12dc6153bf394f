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

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/happy42779/domain-aware-routing/agent"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show kernel apply latency statistics",
	Long:  `Plots the latency of recent kernel route operations as recorded by the agent.`,
	Run:   runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) {
	if err := executeStats(cmd.OutOrStdout(), defaultClient); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

// executeStats executes the stats command with the given client.
func executeStats(w io.Writer, client ClientInterface) error {
	resp, err := client.Send(agent.Request{Command: "stats"})
	if err != nil {
		return err
	}

	if !resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		fmt.Fprintln(w, "Unable to parse stats data")
		return nil
	}

	raw, _ := data["samples"].([]interface{}) //nolint:errcheck // Empty samples handled below
	samples := make([]float64, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(float64); ok {
			samples = append(samples, f)
		}
	}

	if len(samples) < 2 {
		fmt.Fprintln(w, "Not enough samples yet")
		return nil
	}

	var sum, max float64
	for _, s := range samples {
		sum += s
		if s > max {
			max = s
		}
	}

	fmt.Fprintf(w, "Kernel apply latency (ms) - last %d operations:\n", len(samples))
	fmt.Fprintln(w, asciigraph.Plot(samples,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Caption("")))
	fmt.Fprintf(w, "\navg %.3f ms, max %.3f ms\n", sum/float64(len(samples)), max)
	return nil
}
