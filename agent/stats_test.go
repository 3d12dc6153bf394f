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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatencyRecorder_Record(t *testing.T) {
	r := NewLatencyRecorder(4)

	assert.Empty(t, r.Samples())

	r.Record(2 * time.Millisecond)
	r.Record(500 * time.Microsecond)

	samples := r.Samples()
	require.Len(t, samples, 2)
	assert.Equal(t, 2.0, samples[0])
	assert.Equal(t, 0.5, samples[1])
}

func TestLatencyRecorder_WindowEviction(t *testing.T) {
	r := NewLatencyRecorder(3)

	for i := 1; i <= 5; i++ {
		r.Record(time.Duration(i) * time.Millisecond)
	}

	samples := r.Samples()
	require.Len(t, samples, 3)
	assert.Equal(t, []float64{3, 4, 5}, samples, "oldest samples evicted first")
}

func TestLatencyRecorder_SamplesIsCopy(t *testing.T) {
	r := NewLatencyRecorder(4)
	r.Record(time.Millisecond)

	samples := r.Samples()
	samples[0] = 999

	assert.Equal(t, 1.0, r.Samples()[0])
}
