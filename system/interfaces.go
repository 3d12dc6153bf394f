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

// Package system provides the kernel routing boundary. It is the only
// package that performs real I/O against the routing subsystem; every
// other component treats its outcome as ground truth.
package system

import (
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
)

// NetlinkClient abstracts netlink operations for testability.
// This interface allows mocking of all netlink system calls.
type NetlinkClient interface {
	// Link operations
	LinkByName(name string) (netlink.Link, error)
	LinkList() ([]netlink.Link, error)

	// Address operations
	AddrList(link netlink.Link, family int) ([]netlink.Addr, error)

	// Route operations
	RouteAdd(route *netlink.Route) error
	RouteReplace(route *netlink.Route) error
	RouteDel(route *netlink.Route) error
	RouteListFiltered(family int, filter *netlink.Route, filterMask uint64) ([]netlink.Route, error)
}

// DefaultNetlinkClient implements NetlinkClient using real netlink calls.
type DefaultNetlinkClient struct{}

// NewDefaultNetlinkClient creates a new DefaultNetlinkClient.
func NewDefaultNetlinkClient() *DefaultNetlinkClient {
	return &DefaultNetlinkClient{}
}

func (c *DefaultNetlinkClient) LinkByName(name string) (netlink.Link, error) {
	return netlink.LinkByName(name)
}

func (c *DefaultNetlinkClient) LinkList() ([]netlink.Link, error) {
	return netlink.LinkList()
}

func (c *DefaultNetlinkClient) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	return netlink.AddrList(link, family)
}

func (c *DefaultNetlinkClient) RouteAdd(route *netlink.Route) error {
	return netlink.RouteAdd(route)
}

func (c *DefaultNetlinkClient) RouteReplace(route *netlink.Route) error {
	return netlink.RouteReplace(route)
}

func (c *DefaultNetlinkClient) RouteDel(route *netlink.Route) error {
	return netlink.RouteDel(route)
}

func (c *DefaultNetlinkClient) RouteListFiltered(family int, filter *netlink.Route, filterMask uint64) ([]netlink.Route, error) {
	return netlink.RouteListFiltered(family, filter, filterMask)
}

// findInterfaceForGateway finds the interface that can reach the given
// gateway by checking which interface has an IP address on the same
// subnet as the gateway.
func findInterfaceForGateway(nl NetlinkClient, gateway net.IP) (int, error) {
	links, err := nl.LinkList()
	if err != nil {
		return 0, fmt.Errorf("failed to list interfaces: %w", err)
	}

	for _, link := range links {
		addrs, err := nl.AddrList(link, netlink.FAMILY_V4)
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if addr.IPNet.Contains(gateway) {
				return link.Attrs().Index, nil
			}
		}
	}

	return 0, fmt.Errorf("no interface found with network containing gateway %s", gateway.String())
}
