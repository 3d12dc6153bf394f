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
	"encoding/json"
	"fmt"
	"time"
)

// Entry represents a single log entry with structured fields
type Entry struct {
	Timestamp string                 `json:"timestamp"` // RFC3339 format
	Level     string                 `json:"level"`     // debug, info, warn, error
	Component string                 `json:"component"` // agent, applier, server, etc.
	Message   string                 `json:"message"`   // Log message
	Fields    map[string]interface{} `json:"fields"`    // Additional structured fields
}

// NewEntry creates a new log entry with the current timestamp
func NewEntry(level, component, message string, fields map[string]interface{}) *Entry {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	return &Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Component: component,
		Message:   message,
		Fields:    fields,
	}
}

// ToJSON returns the JSON representation of the log entry
func (e *Entry) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Render returns the entry in the requested format, "json" or "text".
// Unknown formats fall back to text.
func (e *Entry) Render(format string) (string, error) {
	if format == "json" {
		b, err := e.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to marshal log entry: %w", err)
		}
		return string(b), nil
	}
	return e.ToText(), nil
}

// ToText returns a human-readable text representation of the log entry
func (e *Entry) ToText() string {
	s := e.Timestamp + " [" + e.Level + "]"
	if e.Component != "" {
		s += " [" + e.Component + "]"
	}
	s += " " + e.Message

	for k, v := range e.Fields {
		s += " " + k + "=" + jsonString(v)
	}
	return s
}

// jsonString converts a value to a JSON string representation
func jsonString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
