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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happy42779/domain-aware-routing/types"
)

func TestTableIndex_PutLookupRemove(t *testing.T) {
	idx := NewTableIndex()

	_, ok := idx.Lookup(100, "10.1.0.0/16", "192.168.1.1")
	assert.False(t, ok)

	route := types.Route{Destination: "10.1.0.0/16", Nexthop: "192.168.1.1", Metric: 77, Table: 100}
	idx.Put(route)

	got, ok := idx.Lookup(100, "10.1.0.0/16", "192.168.1.1")
	require.True(t, ok)
	assert.Equal(t, route, got)

	idx.Remove(100, "10.1.0.0/16", "192.168.1.1")
	_, ok = idx.Lookup(100, "10.1.0.0/16", "192.168.1.1")
	assert.False(t, ok)

	// Removing an absent entry is a no-op
	idx.Remove(100, "10.1.0.0/16", "192.168.1.1")
	idx.Remove(999, "10.1.0.0/16", "192.168.1.1")
}

func TestTableIndex_LookupDestination(t *testing.T) {
	idx := NewTableIndex()

	idx.Put(types.Route{Destination: "10.1.0.0/16", Nexthop: "192.168.1.1", Table: 100})

	got, ok := idx.LookupDestination(100, "10.1.0.0/16")
	require.True(t, ok)
	assert.Equal(t, "192.168.1.1", got.Nexthop)

	_, ok = idx.LookupDestination(200, "10.1.0.0/16")
	assert.False(t, ok, "destination lookup honors the table")

	_, ok = idx.LookupDestination(100, "10.2.0.0/16")
	assert.False(t, ok)
}

func TestTableIndex_TableIsolation(t *testing.T) {
	idx := NewTableIndex()

	idx.Put(types.Route{Destination: "10.1.0.0/16", Nexthop: "192.168.1.1", Table: 100})
	idx.Put(types.Route{Destination: "10.1.0.0/16", Nexthop: "192.168.1.1", Table: 200})

	assert.Equal(t, 2, idx.Len(), "same identity in two tables is two entries")

	idx.Remove(100, "10.1.0.0/16", "192.168.1.1")
	_, ok := idx.Lookup(200, "10.1.0.0/16", "192.168.1.1")
	assert.True(t, ok, "removal in one table leaves the other untouched")
}

func TestTableIndex_PutOverwritesIdentity(t *testing.T) {
	idx := NewTableIndex()

	idx.Put(types.Route{Destination: "10.1.0.0/16", Nexthop: "192.168.1.1", Metric: 77, Table: 100})
	idx.Put(types.Route{Destination: "10.1.0.0/16", Nexthop: "192.168.1.1", Metric: 10, Table: 100})

	assert.Equal(t, 1, idx.Len())
	got, ok := idx.Lookup(100, "10.1.0.0/16", "192.168.1.1")
	require.True(t, ok)
	assert.Equal(t, 10, got.Metric)
}

func TestTableIndex_AllSorted(t *testing.T) {
	idx := NewTableIndex()

	idx.Put(types.Route{Destination: "10.2.0.0/16", Nexthop: "192.168.1.1", Table: 200})
	idx.Put(types.Route{Destination: "10.1.0.0/16", Nexthop: "192.168.1.2", Table: 100})
	idx.Put(types.Route{Destination: "10.1.0.0/16", Nexthop: "192.168.1.1", Table: 100})

	all := idx.All()
	require.Len(t, all, 3)
	assert.Equal(t, 100, all[0].Table)
	assert.Equal(t, "192.168.1.1", all[0].Nexthop)
	assert.Equal(t, "192.168.1.2", all[1].Nexthop)
	assert.Equal(t, 200, all[2].Table)

	assert.Equal(t, []int{100, 200}, idx.Tables())
}

func TestTableIndex_RoutesInTable(t *testing.T) {
	idx := NewTableIndex()

	idx.Put(types.Route{Destination: "10.1.0.0/16", Nexthop: "192.168.1.1", Table: 100})
	idx.Put(types.Route{Destination: "10.2.0.0/16", Nexthop: "192.168.1.1", Table: 200})

	routes := idx.RoutesInTable(100)
	require.Len(t, routes, 1)
	assert.Equal(t, "10.1.0.0/16", routes[0].Destination)

	assert.Empty(t, idx.RoutesInTable(300))
}
