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
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // pure-Go driver, no cgo
)

// SQLiteBackend persists log entries to a SQLite database so route
// decisions can be inspected after the fact.
type SQLiteBackend struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteBackend opens (creating if needed) the log database at path.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		level TEXT NOT NULL,
		component TEXT,
		message TEXT NOT NULL,
		fields TEXT
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create logs table: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

// Write inserts a log entry into the database
func (b *SQLiteBackend) Write(entry *Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	fields, err := json.Marshal(entry.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal log fields: %w", err)
	}

	_, err = b.db.Exec(
		"INSERT INTO logs (timestamp, level, component, message, fields) VALUES (?, ?, ?, ?, ?)",
		entry.Timestamp, entry.Level, entry.Component, entry.Message, string(fields),
	)
	if err != nil {
		return fmt.Errorf("failed to insert log entry: %w", err)
	}
	return nil
}

// Close closes the database
func (b *SQLiteBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.db.Close()
}
