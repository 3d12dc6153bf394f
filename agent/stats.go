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
	"sync"
	"time"
)

// DefaultLatencyWindow is how many kernel apply latencies are retained
// for the stats command.
const DefaultLatencyWindow = 256

// LatencyRecorder keeps a bounded window of kernel apply latencies in
// milliseconds, oldest first.
type LatencyRecorder struct {
	mu      sync.Mutex
	samples []float64
	max     int
}

// NewLatencyRecorder creates a recorder holding at most max samples.
func NewLatencyRecorder(max int) *LatencyRecorder {
	if max <= 0 {
		max = DefaultLatencyWindow
	}
	return &LatencyRecorder{max: max}
}

// Record appends one latency sample, evicting the oldest if full.
func (r *LatencyRecorder) Record(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.samples = append(r.samples, float64(d.Microseconds())/1000.0)
	if len(r.samples) > r.max {
		r.samples = r.samples[len(r.samples)-r.max:]
	}
}

// Samples returns a copy of the retained samples.
func (r *LatencyRecorder) Samples() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]float64, len(r.samples))
	copy(out, r.samples)
	return out
}
