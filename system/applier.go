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
	"net"
	"time"

	"github.com/vishvananda/netlink"

	"github.com/happy42779/domain-aware-routing/types"
)

// DefaultApplyTimeout bounds each netlink call. A call that does not
// complete in time is reported as CodeTimeout; its kernel-side outcome
// is then unknown and the caller must not record it as applied.
const DefaultApplyTimeout = 5 * time.Second

// Applier translates routes into netlink operations against a routing
// table and classifies the outcome.
type Applier struct {
	netlink NetlinkClient
	timeout time.Duration
}

// NewApplier creates an Applier on the given netlink client.
func NewApplier(nl NetlinkClient) *Applier {
	return &Applier{
		netlink: nl,
		timeout: DefaultApplyTimeout,
	}
}

// NewDefaultApplier creates an Applier using real netlink calls.
func NewDefaultApplier() *Applier {
	return NewApplier(NewDefaultNetlinkClient())
}

// SetTimeout overrides the per-call deadline.
func (a *Applier) SetTimeout(d time.Duration) {
	a.timeout = d
}

// Add installs the route. Fails with CodeAlreadyExists if an identical
// route is already present in the table.
func (a *Applier) Add(route types.Route) error {
	nlRoute, err := a.buildRoute(route, "add")
	if err != nil {
		return err
	}
	return a.run("add", func() error {
		return a.netlink.RouteAdd(nlRoute)
	})
}

// Replace installs the route, atomically superseding a previous route
// with the same identity if one is present. No transient withdraw window
// is visible to traffic (NLM_F_REPLACE).
func (a *Applier) Replace(route types.Route) error {
	nlRoute, err := a.buildRoute(route, "replace")
	if err != nil {
		return err
	}
	return a.run("replace", func() error {
		return a.netlink.RouteReplace(nlRoute)
	})
}

// Delete removes the route identified by (destination, nexthop, table).
// Fails with CodeNotFound if no matching route is installed.
func (a *Applier) Delete(destination, nexthop string, table int) error {
	dst, err := parseDestination(destination)
	if err != nil {
		return &RouteError{Op: "delete", Code: CodeInvalid, Err: err}
	}

	nlRoute := &netlink.Route{
		Dst:   dst,
		Table: table,
	}
	if nexthop != "" {
		gw := net.ParseIP(nexthop)
		if gw == nil {
			return &RouteError{Op: "delete", Code: CodeInvalid, Err: fmt.Errorf("invalid nexthop address: %s", nexthop)}
		}
		nlRoute.Gw = gw
	}

	return a.run("delete", func() error {
		return a.netlink.RouteDel(nlRoute)
	})
}

// Installed reports whether a route matching (destination, nexthop, table)
// is currently present in the kernel table.
func (a *Applier) Installed(destination, nexthop string, table int) (bool, error) {
	dst, err := parseDestination(destination)
	if err != nil {
		return false, &RouteError{Op: "list", Code: CodeInvalid, Err: err}
	}

	filter := &netlink.Route{Table: table}
	routes, err := a.netlink.RouteListFiltered(netlink.FAMILY_V4, filter, netlink.RT_FILTER_TABLE)
	if err != nil {
		return false, classify("list", err)
	}

	gw := net.ParseIP(nexthop)
	for _, r := range routes {
		if r.Dst == nil || r.Dst.String() != dst.String() {
			continue
		}
		if gw == nil || r.Gw.Equal(gw) {
			return true, nil
		}
	}
	return false, nil
}

// run executes a netlink mutation under the applier's deadline. The
// mutation is not aborted on timeout; it runs to completion in the
// background and only its outcome is withheld from the caller.
func (a *Applier) run(op string, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return classify(op, err)
	case <-time.After(a.timeout):
		return &RouteError{Op: op, Code: CodeTimeout,
			Err: fmt.Errorf("netlink call did not complete within %s", a.timeout)}
	}
}

// buildRoute converts a Route into its netlink representation, resolving
// the egress interface.
func (a *Applier) buildRoute(route types.Route, op string) (*netlink.Route, error) {
	dst, err := parseDestination(route.Destination)
	if err != nil {
		return nil, &RouteError{Op: op, Code: CodeInvalid, Err: err}
	}

	nlRoute := &netlink.Route{
		Dst:      dst,
		Priority: route.Metric,
		Table:    route.Table,
	}

	if route.Nexthop != "" {
		gw := net.ParseIP(route.Nexthop)
		if gw == nil {
			return nil, &RouteError{Op: op, Code: CodeInvalid, Err: fmt.Errorf("invalid nexthop address: %s", route.Nexthop)}
		}
		nlRoute.Gw = gw

		if route.Interface != "" {
			link, err := a.netlink.LinkByName(route.Interface)
			if err != nil {
				return nil, &RouteError{Op: op, Code: CodeInvalidTarget,
					Err: fmt.Errorf("interface %s not found: %w", route.Interface, err)}
			}
			nlRoute.LinkIndex = link.Attrs().Index
		} else {
			// Find interface by looking for a directly connected network
			linkIndex, err := findInterfaceForGateway(a.netlink, gw)
			if err != nil {
				return nil, &RouteError{Op: op, Code: CodeInvalidTarget,
					Err: fmt.Errorf("no egress for nexthop %s: %w", route.Nexthop, err)}
			}
			nlRoute.LinkIndex = linkIndex
		}
	} else if route.Interface != "" {
		// Direct route (no nexthop, just interface)
		link, err := a.netlink.LinkByName(route.Interface)
		if err != nil {
			return nil, &RouteError{Op: op, Code: CodeInvalidTarget,
				Err: fmt.Errorf("interface %s not found: %w", route.Interface, err)}
		}
		nlRoute.LinkIndex = link.Attrs().Index
		nlRoute.Scope = netlink.SCOPE_LINK
	} else {
		return nil, &RouteError{Op: op, Code: CodeInvalid,
			Err: fmt.Errorf("route must specify either nexthop or interface")}
	}

	return nlRoute, nil
}

// parseDestination parses a CIDR destination, accepting "default" as
// shorthand for 0.0.0.0/0.
func parseDestination(destination string) (*net.IPNet, error) {
	if destination == "default" {
		_, dst, _ := net.ParseCIDR("0.0.0.0/0")
		return dst, nil
	}
	_, dst, err := net.ParseCIDR(destination)
	if err != nil {
		return nil, fmt.Errorf("invalid destination %s: %w", destination, err)
	}
	return dst, nil
}
