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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoute_Validate tests Route validation
func TestRoute_Validate(t *testing.T) {
	tests := []struct {
		name       string
		route      Route
		wantErr    bool
		errContain string
	}{
		{
			name: "valid route",
			route: Route{
				Destination: "10.1.0.0/16",
				Nexthop:     "192.168.1.1",
				Table:       100,
			},
			wantErr: false,
		},
		{
			name: "valid default route",
			route: Route{
				Destination: "default",
				Nexthop:     "10.0.0.1",
				Table:       101,
			},
			wantErr: false,
		},
		{
			name: "valid interface-only route",
			route: Route{
				Destination: "192.168.1.0/24",
				Interface:   "eth0",
				Table:       100,
			},
			wantErr: false,
		},
		{
			name: "empty destination",
			route: Route{
				Nexthop: "192.168.1.1",
			},
			wantErr:    true,
			errContain: "invalid destination",
		},
		{
			name: "malformed destination",
			route: Route{
				Destination: "not-a-cidr",
				Nexthop:     "192.168.1.1",
			},
			wantErr:    true,
			errContain: "invalid destination",
		},
		{
			name: "malformed nexthop",
			route: Route{
				Destination: "10.0.0.0/8",
				Nexthop:     "999.999.999.999",
			},
			wantErr:    true,
			errContain: "invalid nexthop",
		},
		{
			name: "malformed interface name",
			route: Route{
				Destination: "10.0.0.0/8",
				Nexthop:     "192.168.1.1",
				Interface:   "eth 0",
			},
			wantErr:    true,
			errContain: "invalid interface",
		},
		{
			name: "negative metric",
			route: Route{
				Destination: "10.0.0.0/8",
				Nexthop:     "192.168.1.1",
				Metric:      -1,
			},
			wantErr:    true,
			errContain: "metric",
		},
		{
			name: "negative table",
			route: Route{
				Destination: "10.0.0.0/8",
				Nexthop:     "192.168.1.1",
				Table:       -1,
			},
			wantErr:    true,
			errContain: "table",
		},
		{
			name: "neither nexthop nor interface",
			route: Route{
				Destination: "10.0.0.0/8",
			},
			wantErr:    true,
			errContain: "either nexthop or interface",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.route.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContain)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestRoute_Normalize tests default filling
func TestRoute_Normalize(t *testing.T) {
	r := Route{Destination: "10.0.0.0/8", Nexthop: "192.168.1.1"}
	r.Normalize()
	assert.Equal(t, MainTable, r.Table)
	assert.Equal(t, DefaultMetric, r.Metric)

	r = Route{Destination: "10.0.0.0/8", Nexthop: "192.168.1.1", Metric: 10, Table: 100}
	r.Normalize()
	assert.Equal(t, 100, r.Table)
	assert.Equal(t, 10, r.Metric)
}

// TestRoute_Key tests identity keys
func TestRoute_Key(t *testing.T) {
	a := Route{Destination: "10.1.0.0/16", Nexthop: "192.168.1.1", Table: 100}
	b := Route{Destination: "10.1.0.0/16", Nexthop: "192.168.1.2", Table: 100}

	assert.Equal(t, RouteKey("10.1.0.0/16", "192.168.1.1"), a.Key())
	assert.NotEqual(t, a.Key(), b.Key(), "different nexthops are distinct identities")

	// Metric and interface do not affect identity
	c := a
	c.Metric = 50
	c.Interface = "eth1"
	assert.Equal(t, a.Key(), c.Key())
}

// TestRoute_String tests log rendering
func TestRoute_String(t *testing.T) {
	r := Route{Destination: "10.1.0.0/16", Nexthop: "192.168.1.1", Interface: "eth0", Metric: 77, Table: 100}
	s := r.String()
	assert.Contains(t, s, "10.1.0.0/16 via 192.168.1.1 dev eth0")
	assert.Contains(t, s, "metric 77")
	assert.Contains(t, s, "table 100")
}
