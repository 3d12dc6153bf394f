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

// Package validation provides reusable validation helpers for route
// specifications received from the controller.
package validation

import (
	"fmt"
	"net"
)

// MaxTableID is the largest routing table identifier accepted by the
// kernel (RT_TABLE_MAX).
const MaxTableID = 0xFFFFFFF

// ValidateIP validates that a string is a valid IPv4 or IPv6 address.
func ValidateIP(ip string) error {
	if ip == "" {
		return fmt.Errorf("IP address cannot be empty")
	}

	if net.ParseIP(ip) == nil {
		return fmt.Errorf("invalid IP address: %s", ip)
	}

	return nil
}

// ValidateCIDR validates that a string is valid CIDR notation.
func ValidateCIDR(cidr string) error {
	if cidr == "" {
		return fmt.Errorf("CIDR cannot be empty")
	}

	// Special case: "default" is allowed for default routes
	if cidr == "default" {
		return nil
	}

	_, _, err := net.ParseCIDR(cidr)
	if err != nil {
		return fmt.Errorf("invalid CIDR notation %s: %w", cidr, err)
	}

	return nil
}

// ValidateTable validates a routing table identifier. Table 0 is accepted
// and maps to the main table.
func ValidateTable(table int) error {
	if table < 0 {
		return fmt.Errorf("table ID %d cannot be negative", table)
	}
	if table > MaxTableID {
		return fmt.Errorf("table ID %d out of valid range [0, %d]", table, MaxTableID)
	}
	return nil
}

// ValidateInterfaceName validates a network interface name (IFNAMSIZ
// limits names to 15 bytes, no slashes or whitespace).
func ValidateInterfaceName(name string) error {
	if name == "" {
		return nil // Interface is often optional
	}
	if len(name) > 15 {
		return fmt.Errorf("interface name %s too long (max 15 characters)", name)
	}
	for _, c := range name {
		if c == '/' || c == ' ' || c == '\t' || c == '\n' {
			return fmt.Errorf("interface name %s contains invalid character", name)
		}
	}
	return nil
}
