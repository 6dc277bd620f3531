// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package model holds the domain data of the parking garage: the parking
// grid, reservations and account records. The grid is owned exclusively
// by the management service; all other components see it only through
// events.
package model

import "time"

// Slot is the canonical reservation granularity. Reservation intervals
// are snapped to this grid: start floored, end ceiled.
const Slot = 15 * time.Minute

// Reservation of one parking space for one account. DateFrom and DateTo
// are always rounded to the slot grid.
type Reservation struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountID"`
	DateFrom  time.Time `json:"dateFrom"`
	DateTo    time.Time `json:"dateTo"`
}

// Contains reports whether t lies within the reservation, inclusive on
// both ends.
func (r *Reservation) Contains(t time.Time) bool {
	return !r.DateFrom.After(t) && !r.DateTo.Before(t)
}

// FloorToSlot rounds down to the enclosing slot boundary.
func FloorToSlot(t time.Time) time.Time {
	return t.Truncate(Slot)
}

// CeilToSlot rounds up to the next slot boundary; an exact multiple maps
// to itself.
func CeilToSlot(t time.Time) time.Time {
	floored := t.Truncate(Slot)
	if floored.Equal(t) {
		return floored
	}
	return floored.Add(Slot)
}

// RoundInterval snaps a raw interval to the slot grid, start floored and
// end ceiled. Rounding is idempotent.
func RoundInterval(from, to time.Time) (time.Time, time.Time) {
	return FloorToSlot(from), CeilToSlot(to)
}

// Overlaps reports whether the rounded interval [from, to) conflicts with
// the reservation. Touching boundaries do not conflict; two exactly
// identical intervals do, which also covers the degenerate zero-length
// case.
func (r *Reservation) Overlaps(from, to time.Time) bool {
	if to.After(r.DateFrom) && from.Before(r.DateTo) {
		return true
	}
	return to.Equal(r.DateFrom) && from.Equal(r.DateTo)
}
