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
	"bytes"
	"sync"
)

// BufferBackend collects rendered entries in memory so tests can assert
// on log output without touching the filesystem.
type BufferBackend struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	format string // "json" or "text"
}

// NewBufferBackend creates a backend rendering entries in the given format.
func NewBufferBackend(format string) *BufferBackend {
	return &BufferBackend{format: format}
}

// Write renders one entry into the buffer.
func (b *BufferBackend) Write(entry *Entry) error {
	line, err := entry.Render(b.format)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.WriteString(line + "\n")
	return nil
}

// String returns everything written so far.
func (b *BufferBackend) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Reset discards the collected output.
func (b *BufferBackend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// Close is a no-op.
func (b *BufferBackend) Close() error {
	return nil
}
