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

package logger

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// ConsoleBackend writes human-readable log entries to stderr via hclog,
// used when the agent runs in the foreground.
type ConsoleBackend struct {
	logger hclog.Logger
}

// NewConsoleBackend creates a new console backend.
func NewConsoleBackend(name string) *ConsoleBackend {
	return &ConsoleBackend{
		logger: hclog.New(&hclog.LoggerOptions{
			Name:   name,
			Level:  hclog.Debug, // Level filtering happens in the logger itself
			Output: os.Stderr,
			Color:  hclog.AutoColor,
		}),
	}
}

// Write writes a log entry to the console
func (b *ConsoleBackend) Write(entry *Entry) error {
	args := make([]interface{}, 0, 2*len(entry.Fields)+2)
	if entry.Component != "" {
		args = append(args, "component", entry.Component)
	}
	for k, v := range entry.Fields {
		args = append(args, k, v)
	}

	switch entry.Level {
	case "debug":
		b.logger.Debug(entry.Message, args...)
	case "warn":
		b.logger.Warn(entry.Message, args...)
	case "error":
		b.logger.Error(entry.Message, args...)
	default:
		b.logger.Info(entry.Message, args...)
	}
	return nil
}

// Close is a no-op for console backend
func (b *ConsoleBackend) Close() error {
	return nil
}
