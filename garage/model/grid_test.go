// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridValidation(t *testing.T) {
	_, err := NewGrid(GridSize{Rows: 0, Columns: 1, Levels: 1}, 0, 0, 0)
	assert.Equal(t, ErrInvalidGridSize, err)

	_, err = NewGrid(GridSize{Rows: 1, Columns: 1, Levels: 1}, 1, 1, 0)
	assert.Equal(t, ErrTooManySpecialSpaces, err)
}

func TestGridIndexRoundTrip(t *testing.T) {
	grid, err := NewGrid(GridSize{Rows: 3, Columns: 4, Levels: 2}, 0, 0, 0)
	require.NoError(t, err)

	total := 3 * 4 * 2
	for i := 0; i < total; i++ {
		loc := grid.LocationAt(i)
		assert.True(t, grid.Contains(loc))
		assert.Equal(t, i, grid.Index(loc))
	}
	assert.False(t, grid.Contains(Location{Column: 4, Row: 0, Level: 0}))
	assert.False(t, grid.Contains(Location{Column: 0, Row: -1, Level: 0}))
}

func TestGridScanOrder(t *testing.T) {
	grid, err := NewGrid(GridSize{Rows: 2, Columns: 2, Levels: 2}, 0, 0, 0)
	require.NoError(t, err)

	var visited []Location
	grid.ForEach(func(loc Location, status *SpaceStatus) bool {
		visited = append(visited, loc)
		return false
	})
	require.Len(t, visited, 8)
	// Column varies slowest, level fastest.
	assert.Equal(t, Location{Column: 0, Row: 0, Level: 0}, visited[0])
	assert.Equal(t, Location{Column: 0, Row: 0, Level: 1}, visited[1])
	assert.Equal(t, Location{Column: 0, Row: 1, Level: 0}, visited[2])
	assert.Equal(t, Location{Column: 1, Row: 1, Level: 1}, visited[7])
}

func TestSpecialSpaceDistribution(t *testing.T) {
	grid, err := NewGrid(GridSize{Rows: 2, Columns: 2, Levels: 1}, 1, 1, 1)
	require.NoError(t, err)

	// Combined first, then e-charging-only, then accessibility-only.
	first := grid.At(grid.LocationAt(0))
	assert.True(t, first.HasAccessibility)
	assert.True(t, first.HasECharging)
	second := grid.At(grid.LocationAt(1))
	assert.False(t, second.HasAccessibility)
	assert.True(t, second.HasECharging)
	third := grid.At(grid.LocationAt(2))
	assert.True(t, third.HasAccessibility)
	assert.False(t, third.HasECharging)
	fourth := grid.At(grid.LocationAt(3))
	assert.False(t, fourth.HasAccessibility)
	assert.False(t, fourth.HasECharging)
}

func TestSpaceAvailability(t *testing.T) {
	space := &SpaceStatus{HasECharging: true}
	from := time.Date(2022, 1, 1, 1, 0, 0, 0, time.UTC)
	to := time.Date(2022, 1, 1, 2, 0, 0, 0, time.UTC)
	space.Reservations = append(space.Reservations, Reservation{DateFrom: from, DateTo: to})

	// The slot before the reservation is free.
	assert.True(t, space.Available(from.Add(-time.Hour), from, false, false))
	// The reserved slot is not.
	assert.False(t, space.Available(from, to, false, false))
	// A satisfiable constraint does not change availability.
	assert.True(t, space.Available(to, to.Add(time.Hour), false, true))
	// An unsatisfiable constraint makes a free slot unavailable.
	assert.False(t, space.Available(to, to.Add(time.Hour), true, false))
}

func TestReservationCount(t *testing.T) {
	grid, err := NewGrid(GridSize{Rows: 2, Columns: 1, Levels: 1}, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, grid.ReservationCount())

	grid.At(Location{Row: 0}).Reservations = append(grid.At(Location{Row: 0}).Reservations, Reservation{ID: "a"})
	grid.At(Location{Row: 1}).Reservations = append(grid.At(Location{Row: 1}).Reservations, Reservation{ID: "b"}, Reservation{ID: "c"})
	assert.Equal(t, 3, grid.ReservationCount())
}
