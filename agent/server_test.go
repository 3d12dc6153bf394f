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

	"github.com/happy42779/domain-aware-routing/system"
	"github.com/happy42779/domain-aware-routing/types"
)

func newTestServer() (*Server, *fakeApplier) {
	m, applier := newTestManager()
	return newServer(m, "test"), applier
}

func TestServer_UnknownCommand(t *testing.T) {
	s, _ := newTestServer()

	resp := s.handleRequest(Request{Command: "frobnicate"})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "unknown command")
}

func TestServer_AddRoute(t *testing.T) {
	s, _ := newTestServer()

	resp := s.handleRequest(Request{
		Command: "add-route",
		Route: &types.Route{
			Destination: "10.1.0.0/16",
			Nexthop:     "192.168.1.1",
			Table:       100,
		},
	})
	require.True(t, resp.Success, resp.Error)
	assert.Contains(t, resp.Message, "Successfully added route 10.1.0.0/16 via 192.168.1.1")
	require.NotNil(t, resp.Route)
	assert.NotZero(t, resp.Route.CreatedAt)
}

func TestServer_AddRoute_MissingRoute(t *testing.T) {
	s, _ := newTestServer()

	resp := s.handleRequest(Request{Command: "add-route"})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "missing required field: route")
}

func TestServer_AddRoute_Duplicate(t *testing.T) {
	s, _ := newTestServer()

	req := Request{
		Command: "add-route",
		Route:   &types.Route{Destination: "10.1.0.0/16", Nexthop: "192.168.1.1", Table: 100},
	}
	require.True(t, s.handleRequest(req).Success)

	resp := s.handleRequest(req)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "already exists")

	req.ReplaceExisting = true
	resp = s.handleRequest(req)
	assert.True(t, resp.Success, "replace flag supersedes the duplicate")
}

func TestServer_DeleteRoute(t *testing.T) {
	s, _ := newTestServer()

	require.True(t, s.handleRequest(Request{
		Command: "add-route",
		Route:   &types.Route{Destination: "10.1.0.0/16", Nexthop: "192.168.1.1", Table: 100},
	}).Success)

	resp := s.handleRequest(Request{
		Command:     "delete-route",
		Destination: "10.1.0.0/16",
		Nexthop:     "192.168.1.1",
		Table:       100,
	})
	require.True(t, resp.Success, resp.Error)
	assert.Contains(t, resp.Message, "Successfully deleted route 10.1.0.0/16")
}

func TestServer_DeleteRoute_MissingDestination(t *testing.T) {
	s, _ := newTestServer()

	resp := s.handleRequest(Request{Command: "delete-route"})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "missing required field: destination")
}

func TestServer_BatchAdd(t *testing.T) {
	s, _ := newTestServer()

	resp := s.handleRequest(Request{
		Command: "batch-add",
		Routes: []types.Route{
			{Destination: "10.1.0.0/16", Nexthop: "192.168.1.1", Table: 100},
			{Destination: "bad", Nexthop: "192.168.1.1", Table: 100},
			{Destination: "10.2.0.0/16", Nexthop: "192.168.1.1", Table: 100},
		},
	})
	assert.False(t, resp.Success, "one failure fails the batch")
	assert.Contains(t, resp.Message, "2 added, 1 failed")
	require.Len(t, resp.Results, 3)
	assert.True(t, resp.Results[0].Success)
	assert.False(t, resp.Results[1].Success)
	assert.Equal(t, 1, resp.Results[1].Index)
	assert.True(t, resp.Results[2].Success, "failure does not abort later entries")
}

func TestServer_BatchAdd_Empty(t *testing.T) {
	s, _ := newTestServer()

	resp := s.handleRequest(Request{Command: "batch-add"})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, `"routes"`)
}

func TestServer_BatchDelete(t *testing.T) {
	s, applier := newTestServer()

	require.True(t, s.handleRequest(Request{
		Command: "batch-add",
		Routes: []types.Route{
			{Destination: "10.1.0.0/16", Nexthop: "192.168.1.1", Table: 100},
			{Destination: "10.2.0.0/16", Nexthop: "192.168.1.1", Table: 100},
		},
	}).Success)

	// Deleting absent destinations still succeeds
	applier.DeleteError = nil
	resp := s.handleRequest(Request{
		Command:      "batch-delete",
		Destinations: []string{"10.1.0.0/16", "10.2.0.0/16"},
		Table:        100,
	})
	require.True(t, resp.Success, resp.Error)
	assert.Contains(t, resp.Message, "2 deleted, 0 failed")

	resp = s.handleRequest(Request{Command: "list-routes"})
	assert.Empty(t, resp.Routes, "tracked entries removed even without a nexthop in the request")
}

func TestServer_ListRoutes(t *testing.T) {
	s, _ := newTestServer()

	require.True(t, s.handleRequest(Request{
		Command: "add-route",
		Route:   &types.Route{Destination: "10.1.0.0/16", Nexthop: "192.168.1.1", Table: 100},
	}).Success)
	require.True(t, s.handleRequest(Request{
		Command: "add-route",
		Route:   &types.Route{Destination: "10.2.0.0/16", Nexthop: "192.168.1.1", Table: 200},
	}).Success)

	resp := s.handleRequest(Request{Command: "list-routes"})
	require.True(t, resp.Success)
	assert.Len(t, resp.Routes, 2)

	resp = s.handleRequest(Request{Command: "list-routes", Table: 200})
	require.True(t, resp.Success)
	require.Len(t, resp.Routes, 1)
	assert.Equal(t, "10.2.0.0/16", resp.Routes[0].Destination)
}

func TestServer_Flush(t *testing.T) {
	s, _ := newTestServer()

	require.True(t, s.handleRequest(Request{
		Command: "add-route",
		Route:   &types.Route{Destination: "10.1.0.0/16", Nexthop: "192.168.1.1", Table: 100},
	}).Success)

	resp := s.handleRequest(Request{Command: "flush"})
	require.True(t, resp.Success, resp.Error)
	assert.Contains(t, resp.Message, "1 routes deleted")

	resp = s.handleRequest(Request{Command: "list-routes"})
	assert.Empty(t, resp.Routes)
}

func TestServer_Flush_Failure(t *testing.T) {
	s, applier := newTestServer()

	require.True(t, s.handleRequest(Request{
		Command: "add-route",
		Route:   &types.Route{Destination: "10.1.0.0/16", Nexthop: "192.168.1.1", Table: 100},
	}).Success)

	applier.DeleteError = &system.RouteError{Op: "delete", Code: system.CodePermissionDenied}
	resp := s.handleRequest(Request{Command: "flush"})
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "permission denied")
}

func TestServer_Status(t *testing.T) {
	s, _ := newTestServer()

	require.True(t, s.handleRequest(Request{
		Command: "add-route",
		Route:   &types.Route{Destination: "10.1.0.0/16", Nexthop: "192.168.1.1", Table: 100},
	}).Success)

	resp := s.handleRequest(Request{Command: "status"})
	require.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "test", data["version"])
	assert.Equal(t, 1, data["routes"])
	assert.Equal(t, []int{100}, data["tables"])
}

func TestServer_Stats(t *testing.T) {
	s, _ := newTestServer()

	require.True(t, s.handleRequest(Request{
		Command: "add-route",
		Route:   &types.Route{Destination: "10.1.0.0/16", Nexthop: "192.168.1.1", Table: 100},
	}).Success)

	resp := s.handleRequest(Request{Command: "stats"})
	require.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ms", data["unit"])
	assert.Equal(t, 1, data["count"])
}
