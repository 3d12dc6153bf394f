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

// Package metrics exposes agent counters and latencies to Prometheus.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once     sync.Once
	registry *Registry
)

// Registry holds all agent metrics.
type Registry struct {
	// Route mutation metrics
	RouteOps            *prometheus.CounterVec // labels: op, outcome
	KernelApplyDuration *prometheus.HistogramVec
	RoutesInstalled     prometheus.Gauge

	// Protocol metrics
	RequestsTotal *prometheus.CounterVec // labels: command, outcome
}

// Get returns the global metrics registry, creating it if necessary.
func Get() *Registry {
	once.Do(func() {
		registry = newRegistry()
	})
	return registry
}

func newRegistry() *Registry {
	r := &Registry{}

	r.RouteOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dar",
		Name:      "route_operations_total",
		Help:      "Route mutations by operation and outcome",
	}, []string{"op", "outcome"})

	r.KernelApplyDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dar",
		Name:      "kernel_apply_duration_seconds",
		Help:      "Latency of kernel route operations",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
	}, []string{"op"})

	r.RoutesInstalled = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "dar",
		Name:      "routes_installed",
		Help:      "Routes currently tracked as installed by this agent",
	})

	r.RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dar",
		Name:      "requests_total",
		Help:      "Protocol requests by command and outcome",
	}, []string{"command", "outcome"})

	return r
}
