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

package agent

import (
	"sort"
	"sync"

	"github.com/happy42779/domain-aware-routing/types"
)

// TableIndex is the per-table index of routes the agent knows it has
// installed. It is an advisory cache used to detect duplicates and avoid
// redundant kernel calls; the kernel remains the source of truth. Entries
// are only added after a confirmed kernel apply and only removed after a
// confirmed kernel delete.
type TableIndex struct {
	mu     sync.RWMutex
	tables map[int]map[string]types.Route
}

// NewTableIndex creates an empty index.
func NewTableIndex() *TableIndex {
	return &TableIndex{
		tables: make(map[int]map[string]types.Route),
	}
}

// Lookup returns the last-known-installed route for the identity
// (destination, nexthop) in the given table.
func (ti *TableIndex) Lookup(table int, destination, nexthop string) (types.Route, bool) {
	ti.mu.RLock()
	defer ti.mu.RUnlock()

	entries, ok := ti.tables[table]
	if !ok {
		return types.Route{}, false
	}
	route, ok := entries[types.RouteKey(destination, nexthop)]
	return route, ok
}

// LookupDestination returns the tracked route for a destination in the
// given table regardless of nexthop. Used to resolve deletes that name
// only a destination.
func (ti *TableIndex) LookupDestination(table int, destination string) (types.Route, bool) {
	ti.mu.RLock()
	defer ti.mu.RUnlock()

	for _, r := range ti.tables[table] {
		if r.Destination == destination {
			return r, true
		}
	}
	return types.Route{}, false
}

// Put inserts or overwrites the entry for the route's identity.
// Called only after a confirmed successful kernel apply.
func (ti *TableIndex) Put(route types.Route) {
	ti.mu.Lock()
	defer ti.mu.Unlock()

	entries, ok := ti.tables[route.Table]
	if !ok {
		entries = make(map[string]types.Route)
		ti.tables[route.Table] = entries
	}
	entries[route.Key()] = route
}

// Remove drops the entry for the identity, if present.
// Called only after a confirmed successful kernel delete.
func (ti *TableIndex) Remove(table int, destination, nexthop string) {
	ti.mu.Lock()
	defer ti.mu.Unlock()

	if entries, ok := ti.tables[table]; ok {
		delete(entries, types.RouteKey(destination, nexthop))
	}
}

// RoutesInTable returns the routes tracked for one table, sorted by
// destination for stable output.
func (ti *TableIndex) RoutesInTable(table int) []types.Route {
	ti.mu.RLock()
	defer ti.mu.RUnlock()

	routes := make([]types.Route, 0, len(ti.tables[table]))
	for _, r := range ti.tables[table] {
		routes = append(routes, r)
	}
	sortRoutes(routes)
	return routes
}

// All returns every tracked route across all tables.
func (ti *TableIndex) All() []types.Route {
	ti.mu.RLock()
	defer ti.mu.RUnlock()

	var routes []types.Route
	for _, entries := range ti.tables {
		for _, r := range entries {
			routes = append(routes, r)
		}
	}
	sortRoutes(routes)
	return routes
}

// Len returns the total number of tracked routes.
func (ti *TableIndex) Len() int {
	ti.mu.RLock()
	defer ti.mu.RUnlock()

	n := 0
	for _, entries := range ti.tables {
		n += len(entries)
	}
	return n
}

// Tables returns the table IDs that currently have tracked routes.
func (ti *TableIndex) Tables() []int {
	ti.mu.RLock()
	defer ti.mu.RUnlock()

	tables := make([]int, 0, len(ti.tables))
	for id, entries := range ti.tables {
		if len(entries) > 0 {
			tables = append(tables, id)
		}
	}
	sort.Ints(tables)
	return tables
}

func sortRoutes(routes []types.Route) {
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Table != routes[j].Table {
			return routes[i].Table < routes[j].Table
		}
		if routes[i].Destination != routes[j].Destination {
			return routes[i].Destination < routes[j].Destination
		}
		return routes[i].Nexthop < routes[j].Nexthop
	})
}
