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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelInfo, ParseLevel("info"))
	assert.Equal(t, LevelWarn, ParseLevel("warn"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("nonsense"), "unknown levels default to info")
}

func TestLogger_LevelFiltering(t *testing.T) {
	buf := NewBufferBackend("text")
	log := New(Config{Level: "warn", Format: "text", Component: "test"}, []Backend{buf})

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestLogger_JSONOutput(t *testing.T) {
	buf := NewBufferBackend("json")
	log := New(Config{Level: "debug", Format: "json", Component: "applier"}, []Backend{buf})

	log.Info("Added route", Field{Key: "table", Value: 100})

	var entry Entry
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &entry))
	assert.Equal(t, "info", entry.Level)
	assert.Equal(t, "applier", entry.Component)
	assert.Equal(t, "Added route", entry.Message)
	assert.Equal(t, float64(100), entry.Fields["table"])
	assert.NotEmpty(t, entry.Timestamp)
}

func TestLogger_With(t *testing.T) {
	buf := NewBufferBackend("text")
	log := New(Config{Level: "debug", Format: "text", Component: "agent"}, []Backend{buf})

	child := log.With(Field{Key: "table", Value: 100})
	child.Info("mutation")

	output := buf.String()
	assert.Contains(t, output, "mutation")
	assert.Contains(t, output, "table=100")

	// Parent is unaffected by the child's preset fields
	buf.Reset()
	log.Info("plain")
	assert.NotContains(t, buf.String(), "table=100")
}

func TestLogger_WithComponentOverride(t *testing.T) {
	buf := NewBufferBackend("text")
	log := New(Config{Level: "debug", Format: "text", Component: "agent"}, []Backend{buf})

	child := log.With(Field{Key: "component", Value: "server"})
	child.Info("listening")

	assert.Contains(t, buf.String(), "[server]")
}

func TestLogger_MultipleBackends(t *testing.T) {
	text := NewBufferBackend("text")
	js := NewBufferBackend("json")
	log := New(Config{Level: "info", Format: "text", Component: "agent"}, []Backend{text, js})

	log.Info("fan out")

	assert.Contains(t, text.String(), "fan out")
	assert.Contains(t, js.String(), `"message":"fan out"`)
}

func TestEntry_ToText(t *testing.T) {
	entry := NewEntry("info", "server", "Agent listening",
		map[string]interface{}{"addr": "0.0.0.0:8080"})

	text := entry.ToText()
	assert.True(t, strings.Contains(text, "[info]"))
	assert.True(t, strings.Contains(text, "[server]"))
	assert.True(t, strings.Contains(text, "Agent listening"))
	assert.True(t, strings.Contains(text, "addr=0.0.0.0:8080"))
}

func TestEntry_Render(t *testing.T) {
	entry := NewEntry("debug", "agent", "tick", nil)

	text, err := entry.Render("text")
	require.NoError(t, err)
	assert.Contains(t, text, "[debug]")

	js, err := entry.Render("json")
	require.NoError(t, err)
	assert.Contains(t, js, `"message":"tick"`)

	fallback, err := entry.Render("yaml")
	require.NoError(t, err)
	assert.Equal(t, text, fallback, "unknown formats render as text")
}

func TestGlobalLogger(t *testing.T) {
	buf := NewBufferBackend("text")
	Init(Config{Level: "debug", Format: "text", Component: "agent"}, []Backend{buf})

	Debug("d")
	Info("i")
	Warn("w")
	Error("e")

	output := buf.String()
	for _, msg := range []string{"d", "i", "w", "e"} {
		assert.Contains(t, output, "] "+msg)
	}
}
