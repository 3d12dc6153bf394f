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
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/happy42779/domain-aware-routing/agent"
	"github.com/happy42779/domain-aware-routing/agent/logger"
	"github.com/happy42779/domain-aware-routing/system"
)

var (
	listenAddr  string
	metricsAddr string
	logLevel    string
	logFile     string
	logDB       string
	consoleLog  bool
	flushOnExit bool
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Run the route agent",
	Long:  `Starts the route agent which listens for controller commands over TCP.`,
	Run:   runAgent,
}

func init() {
	rootCmd.AddCommand(agentCmd)
	agentCmd.Flags().StringVar(&listenAddr, "listen", agent.GetListenAddr(), "Address to listen on")
	agentCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Address for the Prometheus /metrics endpoint (disabled if empty)")
	agentCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	agentCmd.Flags().StringVar(&logFile, "log-file", "/var/log/dar/agent.log", "Log file path")
	agentCmd.Flags().StringVar(&logDB, "log-db", "", "SQLite database for log persistence (disabled if empty)")
	agentCmd.Flags().BoolVar(&consoleLog, "console", false, "Also log to the console")
	agentCmd.Flags().BoolVar(&flushOnExit, "flush-on-exit", false, "Delete all agent-installed routes on shutdown")
}

func runAgent(cmd *cobra.Command, args []string) {
	if err := initializeLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	manager := agent.NewManager(system.NewDefaultApplier())

	server, err := agent.NewServer(manager, listenAddr, Version)
	if err != nil {
		logger.Error("Failed to create server", logger.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}

	if metricsAddr != "" {
		go serveMetrics(metricsAddr)
	}

	// Handle shutdown gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutting down...")
		if flushOnExit {
			deleted, errs := manager.Flush()
			logger.Info("Flushed managed routes",
				logger.Field{Key: "deleted", Value: deleted},
				logger.Field{Key: "failed", Value: len(errs)})
		}
		if err := server.Stop(); err != nil {
			logger.Error("Failed to stop server", logger.Field{Key: "error", Value: err.Error()})
		}
		os.Exit(0)
	}()

	if err := server.Start(); err != nil {
		logger.Error("Server failed", logger.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info("Metrics listening", logger.Field{Key: "addr", Value: addr})
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server failed", logger.Field{Key: "error", Value: err.Error()})
	}
}

// initializeLogger sets up the structured logger from the agent flags.
func initializeLogger() error {
	config := logger.Config{
		Level:     logLevel,
		Format:    "json",
		Component: "agent",
	}

	var backends []logger.Backend

	fileBackend, err := logger.NewFileBackend(logFile, config.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize file backend: %w", err)
	}
	backends = append(backends, fileBackend)

	if consoleLog {
		backends = append(backends, logger.NewConsoleBackend("dar"))
	}

	if logDB != "" {
		sqliteBackend, err := logger.NewSQLiteBackend(logDB)
		if err != nil {
			return fmt.Errorf("failed to initialize sqlite backend: %w", err)
		}
		backends = append(backends, sqliteBackend)
	}

	logger.Init(config, backends)
	logger.Info("Logging initialized",
		logger.Field{Key: "level", Value: config.Level},
		logger.Field{Key: "file", Value: logFile})
	return nil
}
