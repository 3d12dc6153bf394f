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

// Package types defines the core data structures for the routing agent.
// A Route describes one entry in a kernel policy routing table; its
// identity within a table is the (destination, nexthop) pair.
package types

import (
	"fmt"

	"github.com/happy42779/domain-aware-routing/validation"
)

const (
	// MainTable is the kernel's main routing table.
	MainTable = 254

	// DefaultMetric is applied when the caller does not specify a metric.
	DefaultMetric = 77
)

// Route represents a policy route managed by the agent.
type Route struct {
	Destination string `json:"destination"`          // CIDR notation (e.g. "10.1.0.0/16", "default" for 0.0.0.0/0)
	Nexthop     string `json:"nexthop,omitempty"`    // Gateway IP; empty for on-link routes
	Interface   string `json:"interface,omitempty"`  // Egress interface name; optional when resolvable from nexthop
	Metric      int    `json:"metric,omitempty"`     // Route priority (lower is preferred); 0 is treated as unset
	Table       int    `json:"table,omitempty"`      // Routing table ID (0 means main)
	CreatedAt   int64  `json:"created_at,omitempty"` // Epoch millis, agent-assigned on add
}

// Normalize fills in implementation defaults for unspecified fields.
// Table 0 maps to the main table, and a zero metric gets the agent
// default. An explicit metric of 0 is indistinguishable from unset on
// the wire (omitempty) and is also defaulted; callers wanting the
// highest preference should use metric 1.
func (r *Route) Normalize() {
	if r.Table == 0 {
		r.Table = MainTable
	}
	if r.Metric == 0 {
		r.Metric = DefaultMetric
	}
}

// Validate checks the route for structural and semantic validity.
// It performs no I/O; reachability of the nexthop is the applier's job.
func (r Route) Validate() error {
	if err := validation.ValidateCIDR(r.Destination); err != nil {
		return fmt.Errorf("invalid destination: %w", err)
	}
	if r.Nexthop != "" {
		if err := validation.ValidateIP(r.Nexthop); err != nil {
			return fmt.Errorf("invalid nexthop: %w", err)
		}
	}
	if err := validation.ValidateInterfaceName(r.Interface); err != nil {
		return fmt.Errorf("invalid interface: %w", err)
	}
	if r.Metric < 0 {
		return fmt.Errorf("invalid metric %d: must be non-negative", r.Metric)
	}
	if err := validation.ValidateTable(r.Table); err != nil {
		return fmt.Errorf("invalid table: %w", err)
	}
	if r.Nexthop == "" && r.Interface == "" {
		return fmt.Errorf("route must specify either nexthop or interface")
	}
	return nil
}

// Key returns the route's identity within its table.
func (r Route) Key() string {
	return RouteKey(r.Destination, r.Nexthop)
}

// RouteKey builds the identity key for a (destination, nexthop) pair.
func RouteKey(destination, nexthop string) string {
	return destination + "|" + nexthop
}

// String renders the route in ip-route style for logs and CLI output.
func (r Route) String() string {
	s := r.Destination
	if r.Nexthop != "" {
		s += " via " + r.Nexthop
	}
	if r.Interface != "" {
		s += " dev " + r.Interface
	}
	return fmt.Sprintf("%s metric %d table %d", s, r.Metric, r.Table)
}
