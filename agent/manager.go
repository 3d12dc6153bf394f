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
	"fmt"
	"sync"
	"time"

	"github.com/happy42779/domain-aware-routing/agent/logger"
	"github.com/happy42779/domain-aware-routing/metrics"
	"github.com/happy42779/domain-aware-routing/system"
	"github.com/happy42779/domain-aware-routing/types"
)

// RouteApplier is the boundary to the kernel routing subsystem. It is
// implemented by system.Applier; tests substitute a recording fake.
type RouteApplier interface {
	Add(route types.Route) error
	Replace(route types.Route) error
	Delete(destination, nexthop string, table int) error
}

// Manager orchestrates validation, state lookup, kernel application and
// index bookkeeping for route mutations. Mutations within one table are
// serialized by a per-table lock; tables proceed independently.
type Manager struct {
	applier  RouteApplier
	index    *TableIndex
	recorder *LatencyRecorder

	locksMu sync.Mutex
	locks   map[int]*sync.Mutex

	now func() int64
}

// NewManager creates a Manager on the given applier.
func NewManager(applier RouteApplier) *Manager {
	return &Manager{
		applier:  applier,
		index:    NewTableIndex(),
		recorder: NewLatencyRecorder(DefaultLatencyWindow),
		locks:    make(map[int]*sync.Mutex),
		now:      func() int64 { return time.Now().UnixMilli() },
	}
}

// tableLock returns the mutex serializing mutations on one table,
// creating it lazily. Locks live for the agent's lifetime.
func (m *Manager) tableLock(table int) *sync.Mutex {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()

	lock, ok := m.locks[table]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[table] = lock
	}
	return lock
}

// AddRoute validates and installs a route. With replaceExisting, the
// route is installed-or-superseded atomically whether or not the agent
// tracks it, and a tracked identity keeps its original created_at;
// without it, a duplicate identity is rejected before any kernel call.
// The returned route carries the stored created_at on success.
func (m *Manager) AddRoute(route types.Route, replaceExisting bool) (types.Route, error) {
	route.Normalize()
	if err := route.Validate(); err != nil {
		return types.Route{}, &system.RouteError{Op: "add", Code: system.CodeInvalid, Err: err}
	}

	lock := m.tableLock(route.Table)
	lock.Lock()
	defer lock.Unlock()

	existing, exists := m.index.Lookup(route.Table, route.Destination, route.Nexthop)

	if exists && !replaceExisting {
		return types.Route{}, &system.RouteError{Op: "add", Code: system.CodeAlreadyExists,
			Err: fmt.Errorf("route %s via %s already exists in table %d",
				route.Destination, route.Nexthop, route.Table)}
	}

	if replaceExisting {
		// Replace installs if absent, so a route still present in the
		// kernel after a restart (index starts empty, kernel is the
		// durable truth) is superseded rather than rejected. A tracked
		// identity keeps its original creation time.
		if err := m.apply("replace", func() error { return m.applier.Replace(route) }); err != nil {
			return types.Route{}, err
		}
		if exists {
			route.CreatedAt = existing.CreatedAt
		} else {
			route.CreatedAt = m.now()
		}

		m.index.Put(route)
		metrics.Get().RoutesInstalled.Set(float64(m.index.Len()))
		logger.Info("Replaced route",
			logger.Field{Key: "route", Value: route.String()})
		return route, nil
	}

	if err := m.apply("add", func() error { return m.applier.Add(route) }); err != nil {
		return types.Route{}, err
	}
	route.CreatedAt = m.now()

	m.index.Put(route)
	metrics.Get().RoutesInstalled.Set(float64(m.index.Len()))
	logger.Info("Added route",
		logger.Field{Key: "route", Value: route.String()})
	return route, nil
}

// DeleteRoute removes the route identified by (destination, nexthop,
// table). Deleting an absent route is treated as success: the desired
// state (route gone) already holds, whether it was never installed or
// removed out-of-band.
func (m *Manager) DeleteRoute(destination, nexthop string, table int) error {
	if table == 0 {
		table = types.MainTable
	}

	lock := m.tableLock(table)
	lock.Lock()
	defer lock.Unlock()

	// A delete naming only a destination targets whatever the agent
	// tracks for it. The kernel would match by destination alone, but
	// the index is keyed by (destination, nexthop); deleting under the
	// empty nexthop would strand the tracked entry.
	if nexthop == "" {
		if tracked, ok := m.index.LookupDestination(table, destination); ok {
			nexthop = tracked.Nexthop
		}
	}

	err := m.apply("delete", func() error { return m.applier.Delete(destination, nexthop, table) })
	if err != nil {
		if system.CodeOf(err) == system.CodeNotFound {
			logger.Debug("Delete of absent route treated as success",
				logger.Field{Key: "destination", Value: destination},
				logger.Field{Key: "table", Value: table})
			return nil
		}
		return err
	}

	m.index.Remove(table, destination, nexthop)
	metrics.Get().RoutesInstalled.Set(float64(m.index.Len()))
	logger.Info("Deleted route",
		logger.Field{Key: "destination", Value: destination},
		logger.Field{Key: "nexthop", Value: nexthop},
		logger.Field{Key: "table", Value: table})
	return nil
}

// Routes returns every route the agent tracks as installed.
func (m *Manager) Routes() []types.Route {
	return m.index.All()
}

// RoutesInTable returns the tracked routes for one table.
func (m *Manager) RoutesInTable(table int) []types.Route {
	if table == 0 {
		table = types.MainTable
	}
	return m.index.RoutesInTable(table)
}

// Tables returns the table IDs with tracked routes.
func (m *Manager) Tables() []int {
	return m.index.Tables()
}

// Flush deletes every route the agent has installed. Used on shutdown
// and via the flush command. The route set is snapshotted at entry;
// routes added concurrently with the flush are not removed. Returns the
// number of routes deleted and any per-route failures.
func (m *Manager) Flush() (int, []error) {
	deleted := 0
	var errs []error

	for _, route := range m.index.All() {
		if err := m.DeleteRoute(route.Destination, route.Nexthop, route.Table); err != nil {
			errs = append(errs, fmt.Errorf("flush %s: %w", route.Destination, err))
			continue
		}
		deleted++
	}

	if len(errs) > 0 {
		logger.Warn("Flush completed with failures",
			logger.Field{Key: "deleted", Value: deleted},
			logger.Field{Key: "failed", Value: len(errs)})
	}
	return deleted, errs
}

// LatencySamples returns recent kernel apply latencies in milliseconds.
func (m *Manager) LatencySamples() []float64 {
	return m.recorder.Samples()
}

// apply runs one kernel operation, recording its latency and outcome.
func (m *Manager) apply(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	m.recorder.Record(elapsed)
	outcome := "ok"
	if err != nil {
		outcome = system.CodeOf(err).String()
	}
	metrics.Get().RouteOps.WithLabelValues(op, outcome).Inc()
	metrics.Get().KernelApplyDuration.WithLabelValues(op).Observe(elapsed.Seconds())

	if err != nil {
		logger.Error("Kernel route operation failed",
			logger.Field{Key: "op", Value: op},
			logger.Field{Key: "error", Value: err.Error()})
	}
	return err
}
