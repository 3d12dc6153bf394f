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
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileBackend writes log entries to a file
type FileBackend struct {
	path   string
	format string // "json" or "text"
	file   *os.File
	mu     sync.Mutex
}

// NewFileBackend creates a new file backend
func NewFileBackend(path string, format string) (*FileBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &FileBackend{
		path:   path,
		format: format,
		file:   file,
	}, nil
}

// Write writes a log entry to the file
func (b *FileBackend) Write(entry *Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	output, err := entry.Render(b.format)
	if err != nil {
		return err
	}

	if _, err := b.file.WriteString(output + "\n"); err != nil {
		return fmt.Errorf("failed to write to log file: %w", err)
	}

	return nil
}

// Close closes the log file
func (b *FileBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.file.Close()
}
