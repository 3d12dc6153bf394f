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

// Package agent implements the route agent server and its wire protocol.
package agent

import "github.com/happy42779/domain-aware-routing/types"

// Request represents a command sent to the agent
type Request struct {
	Route           *types.Route  `json:"route,omitempty"`
	Command         string        `json:"command"` // add-route, delete-route, batch-add, batch-delete, list-routes, flush, status, stats
	Destination     string        `json:"destination,omitempty"`
	Nexthop         string        `json:"nexthop,omitempty"`
	Routes          []types.Route `json:"routes,omitempty"`       // For batch-add
	Destinations    []string      `json:"destinations,omitempty"` // For batch-delete
	Table           int           `json:"table,omitempty"`
	ReplaceExisting bool          `json:"replace_existing,omitempty"`
}

// BatchResult reports the outcome of one entry in a batch request
type BatchResult struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Index   int    `json:"index"`
	Success bool   `json:"success"`
}

// Response represents the agent's response
type Response struct {
	Data    interface{}   `json:"data,omitempty"`
	Message string        `json:"message,omitempty"`
	Error   string        `json:"error,omitempty"`
	Route   *types.Route  `json:"route,omitempty"`
	Routes  []types.Route `json:"routes,omitempty"`
	Results []BatchResult `json:"results,omitempty"`
	Success bool          `json:"success"`
}
