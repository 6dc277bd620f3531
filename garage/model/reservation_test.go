// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(t *testing.T, value string) time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func TestFloorToSlot(t *testing.T) {
	assert.Equal(t, ts(t, "2022-01-01T00:00:00Z"), FloorToSlot(ts(t, "2022-01-01T00:07:12Z")))
	assert.Equal(t, ts(t, "2022-01-01T00:45:00Z"), FloorToSlot(ts(t, "2022-01-01T00:59:59Z")))
	// An exact boundary maps to itself.
	assert.Equal(t, ts(t, "2022-01-01T00:15:00Z"), FloorToSlot(ts(t, "2022-01-01T00:15:00Z")))
}

func TestCeilToSlot(t *testing.T) {
	assert.Equal(t, ts(t, "2022-01-01T00:15:00Z"), CeilToSlot(ts(t, "2022-01-01T00:07:12Z")))
	assert.Equal(t, ts(t, "2022-01-01T01:00:00Z"), CeilToSlot(ts(t, "2022-01-01T00:45:01Z")))
	// An exact boundary maps to itself, not the next slot.
	assert.Equal(t, ts(t, "2022-01-01T00:15:00Z"), CeilToSlot(ts(t, "2022-01-01T00:15:00Z")))
}

func TestRoundIntervalIsIdempotent(t *testing.T) {
	from, to := RoundInterval(ts(t, "2022-01-01T00:07:00Z"), ts(t, "2022-01-01T00:50:00Z"))
	assert.Equal(t, ts(t, "2022-01-01T00:00:00Z"), from)
	assert.Equal(t, ts(t, "2022-01-01T01:00:00Z"), to)

	again1, again2 := RoundInterval(from, to)
	assert.Equal(t, from, again1)
	assert.Equal(t, to, again2)
}

func TestOverlaps(t *testing.T) {
	r := &Reservation{
		DateFrom: ts(t, "2022-01-01T01:00:00Z"),
		DateTo:   ts(t, "2022-01-01T02:00:00Z"),
	}
	// Touching boundaries do not conflict.
	assert.False(t, r.Overlaps(ts(t, "2022-01-01T00:00:00Z"), ts(t, "2022-01-01T01:00:00Z")))
	assert.False(t, r.Overlaps(ts(t, "2022-01-01T02:00:00Z"), ts(t, "2022-01-01T03:00:00Z")))
	// Any partial or full overlap conflicts.
	assert.True(t, r.Overlaps(ts(t, "2022-01-01T00:30:00Z"), ts(t, "2022-01-01T01:30:00Z")))
	assert.True(t, r.Overlaps(ts(t, "2022-01-01T01:30:00Z"), ts(t, "2022-01-01T02:30:00Z")))
	assert.True(t, r.Overlaps(ts(t, "2022-01-01T00:00:00Z"), ts(t, "2022-01-01T03:00:00Z")))
	assert.True(t, r.Overlaps(ts(t, "2022-01-01T01:15:00Z"), ts(t, "2022-01-01T01:45:00Z")))
	// Exact equality conflicts even though both ends only touch.
	assert.True(t, r.Overlaps(ts(t, "2022-01-01T01:00:00Z"), ts(t, "2022-01-01T02:00:00Z")))
}

func TestOverlapsDegenerateInterval(t *testing.T) {
	at := ts(t, "2022-01-01T01:00:00Z")
	r := &Reservation{DateFrom: at, DateTo: at}
	// Two identical zero-length intervals conflict with each other.
	assert.True(t, r.Overlaps(at, at))
	assert.False(t, r.Overlaps(ts(t, "2022-01-01T00:00:00Z"), ts(t, "2022-01-01T00:30:00Z")))
}

func TestContainsIsInclusive(t *testing.T) {
	r := &Reservation{
		DateFrom: ts(t, "2022-01-01T01:00:00Z"),
		DateTo:   ts(t, "2022-01-01T02:00:00Z"),
	}
	assert.True(t, r.Contains(ts(t, "2022-01-01T01:00:00Z")))
	assert.True(t, r.Contains(ts(t, "2022-01-01T01:30:00Z")))
	assert.True(t, r.Contains(ts(t, "2022-01-01T02:00:00Z")))
	assert.False(t, r.Contains(ts(t, "2022-01-01T02:00:01Z")))
	assert.False(t, r.Contains(ts(t, "2022-01-01T00:59:59Z")))
}
