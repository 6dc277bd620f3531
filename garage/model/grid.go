// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"errors"
	"time"
)

// ErrInvalidGridSize returned when a grid dimension is not positive.
var ErrInvalidGridSize = errors.New("ErrInvalidGridSize")

// ErrTooManySpecialSpaces returned when the requested special spaces
// exceed the grid capacity.
var ErrTooManySpecialSpaces = errors.New("ErrTooManySpecialSpaces")

// Location of a parking space; the unique key into the grid.
type Location struct {
	Column int `json:"column"`
	Row    int `json:"row"`
	Level  int `json:"level"`
}

// GridSize is the immutable shape of a parking grid.
type GridSize struct {
	Rows    int
	Columns int
	Levels  int
}

// SpaceStatus is the status of a single parking space. HasAccessibility
// and HasECharging are fixed at grid creation; IsOccupied is
// sensor-reported and informational only, reservation logic never
// consults it.
type SpaceStatus struct {
	IsOccupied       bool
	Reservations     []Reservation
	HasAccessibility bool
	HasECharging     bool
}

// Satisfies reports whether the space provides the requested properties.
func (s *SpaceStatus) Satisfies(accessibility, eCharging bool) bool {
	if accessibility && !s.HasAccessibility {
		return false
	}
	if eCharging && !s.HasECharging {
		return false
	}
	return true
}

// Available reports whether the space provides the requested properties
// and has no reservation conflicting with the rounded interval [from, to).
func (s *SpaceStatus) Available(from, to time.Time, accessibility, eCharging bool) bool {
	if !s.Satisfies(accessibility, eCharging) {
		return false
	}
	for i := range s.Reservations {
		if s.Reservations[i].Overlaps(from, to) {
			return false
		}
	}
	return true
}

// Grid is the parking grid: one contiguous slice of space statuses with a
// deterministic (column, row, level) to index mapping. The shape is fixed
// at creation.
type Grid struct {
	size   GridSize
	spaces []SpaceStatus
}

// NewGrid creates a grid of the given size and distributes the special
// parking spaces over the first cells in scan order: combined spaces
// first, then e-charging-only, then accessibility-only.
func NewGrid(size GridSize, accessibilitySpaces, eChargingSpaces, combinedSpaces int) (*Grid, error) {
	if size.Rows <= 0 || size.Columns <= 0 || size.Levels <= 0 {
		return nil, ErrInvalidGridSize
	}
	total := size.Rows * size.Columns * size.Levels
	if accessibilitySpaces+eChargingSpaces+combinedSpaces > total {
		return nil, ErrTooManySpecialSpaces
	}

	g := &Grid{
		size:   size,
		spaces: make([]SpaceStatus, total),
	}
	for i := range g.spaces {
		switch {
		case combinedSpaces > 0:
			combinedSpaces--
			g.spaces[i].HasAccessibility = true
			g.spaces[i].HasECharging = true
		case eChargingSpaces > 0:
			eChargingSpaces--
			g.spaces[i].HasECharging = true
		case accessibilitySpaces > 0:
			accessibilitySpaces--
			g.spaces[i].HasAccessibility = true
		}
	}
	return g, nil
}

// Size returns the immutable grid shape.
func (g *Grid) Size() GridSize { return g.size }

// Index maps a location to its slice index. The scan order column, then
// row, then level equals increasing index order.
func (g *Grid) Index(loc Location) int {
	return (loc.Column*g.size.Rows+loc.Row)*g.size.Levels + loc.Level
}

// LocationAt is the inverse of Index.
func (g *Grid) LocationAt(index int) Location {
	return Location{
		Column: index / (g.size.Rows * g.size.Levels),
		Row:    (index / g.size.Levels) % g.size.Rows,
		Level:  index % g.size.Levels,
	}
}

// Contains reports whether the location lies within the grid.
func (g *Grid) Contains(loc Location) bool {
	return loc.Column >= 0 && loc.Column < g.size.Columns &&
		loc.Row >= 0 && loc.Row < g.size.Rows &&
		loc.Level >= 0 && loc.Level < g.size.Levels
}

// At returns the status of the space at the given location.
func (g *Grid) At(loc Location) *SpaceStatus {
	return &g.spaces[g.Index(loc)]
}

// ForEach visits every space in deterministic scan order (column, then
// row, then level) until fn returns true.
func (g *Grid) ForEach(fn func(loc Location, status *SpaceStatus) bool) {
	for i := range g.spaces {
		if fn(g.LocationAt(i), &g.spaces[i]) {
			return
		}
	}
}

// ReservationCount returns the total number of reservations in the grid.
func (g *Grid) ReservationCount() int {
	count := 0
	for i := range g.spaces {
		count += len(g.spaces[i].Reservations)
	}
	return count
}
