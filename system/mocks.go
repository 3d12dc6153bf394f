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

package system

import (
	"fmt"
	"sync"

	"github.com/vishvananda/netlink"
)

// MockNetlinkClient is a mock implementation of NetlinkClient for testing.
type MockNetlinkClient struct {
	mu sync.Mutex

	// State
	Links     map[string]netlink.Link
	Addresses map[string][]netlink.Addr
	Routes    []netlink.Route

	// Call counters for verification
	LinkByNameCalls        int
	LinkListCalls          int
	AddrListCalls          int
	RouteAddCalls          int
	RouteReplaceCalls      int
	RouteDelCalls          int
	RouteListFilteredCalls int

	// Error injection for testing error paths
	LinkByNameError        error
	LinkListError          error
	AddrListError          error
	RouteAddError          error
	RouteReplaceError      error
	RouteDelError          error
	RouteListFilteredError error
}

// NewMockNetlinkClient creates a new MockNetlinkClient.
func NewMockNetlinkClient() *MockNetlinkClient {
	return &MockNetlinkClient{
		Links:     make(map[string]netlink.Link),
		Addresses: make(map[string][]netlink.Addr),
		Routes:    make([]netlink.Route, 0),
	}
}

func (m *MockNetlinkClient) LinkByName(name string) (netlink.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinkByNameCalls++

	if m.LinkByNameError != nil {
		return nil, m.LinkByNameError
	}

	link, ok := m.Links[name]
	if !ok {
		return nil, fmt.Errorf("Link not found")
	}
	return link, nil
}

func (m *MockNetlinkClient) LinkList() ([]netlink.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinkListCalls++

	if m.LinkListError != nil {
		return nil, m.LinkListError
	}

	links := make([]netlink.Link, 0, len(m.Links))
	for _, link := range m.Links {
		links = append(links, link)
	}
	return links, nil
}

func (m *MockNetlinkClient) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddrListCalls++

	if m.AddrListError != nil {
		return nil, m.AddrListError
	}

	addrs, ok := m.Addresses[link.Attrs().Name]
	if !ok {
		return []netlink.Addr{}, nil
	}
	return addrs, nil
}

func (m *MockNetlinkClient) RouteAdd(route *netlink.Route) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RouteAddCalls++

	if m.RouteAddError != nil {
		return m.RouteAddError
	}

	m.Routes = append(m.Routes, *route)
	return nil
}

func (m *MockNetlinkClient) RouteReplace(route *netlink.Route) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RouteReplaceCalls++

	if m.RouteReplaceError != nil {
		return m.RouteReplaceError
	}

	// Supersede any route with the same identity in the same table
	for i, r := range m.Routes {
		if routesEqual(&r, route) && r.Table == route.Table {
			m.Routes[i] = *route
			return nil
		}
	}
	m.Routes = append(m.Routes, *route)
	return nil
}

func (m *MockNetlinkClient) RouteDel(route *netlink.Route) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RouteDelCalls++

	if m.RouteDelError != nil {
		return m.RouteDelError
	}

	for i, r := range m.Routes {
		if routesEqual(&r, route) && r.Table == route.Table {
			m.Routes = append(m.Routes[:i], m.Routes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("route not found")
}

func (m *MockNetlinkClient) RouteListFiltered(family int, filter *netlink.Route, filterMask uint64) ([]netlink.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RouteListFilteredCalls++

	if m.RouteListFilteredError != nil {
		return nil, m.RouteListFilteredError
	}

	if filter == nil || filterMask&netlink.RT_FILTER_TABLE == 0 {
		return m.Routes, nil
	}

	var matched []netlink.Route
	for _, r := range m.Routes {
		if r.Table == filter.Table {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// Helper function to compare route identities (destination + gateway)
func routesEqual(r1, r2 *netlink.Route) bool {
	if (r1.Dst == nil) != (r2.Dst == nil) {
		return false
	}
	if r1.Dst != nil && r1.Dst.String() != r2.Dst.String() {
		return false
	}
	if r2.Gw != nil && !r1.Gw.Equal(r2.Gw) {
		return false
	}
	return true
}
