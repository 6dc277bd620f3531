// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package management

import (
	"github.com/sorrir/demonstrator/garage/interop"
	"github.com/sorrir/demonstrator/garage/model"
)

// Event types accepted and emitted by the management service. The account
// directory, sensor and payment provider types are shared with those
// packages and re-declared here only where the service is the origin.
const (
	EventRequestReservation         interop.EventType = "REQUEST_RESERVATION"
	EventConfirmReservation         interop.EventType = "CONFIRM_RESERVATION"
	EventRejectReservation          interop.EventType = "REJECT_RESERVATION"
	EventRejectReservationWithError interop.EventType = "REJECT_RESERVATION_WITH_ERROR"
	EventRequestCancellation        interop.EventType = "REQUEST_CANCELLATION"
	EventConfirmCancellation        interop.EventType = "CONFIRM_CANCELLATION"
	EventRejectCancellation         interop.EventType = "REJECT_CANCELLATION"
	EventCheckForReservation        interop.EventType = "CHECK_FOR_RESERVATION"
	EventResolveReservation         interop.EventType = "RESOLVE_RESERVATION"
	EventRequestPayment             interop.EventType = "REQUEST_PAYMENT"
	EventConfirmPayment             interop.EventType = "CONFIRM_PAYMENT"
	EventRejectPayment              interop.EventType = "REJECT_PAYMENT"
)

// Ports of the management service.
const (
	PortFromSensors      interop.PortName = "FROM_PSS"
	PortToSensors        interop.PortName = "TO_PSS"
	PortFromFrontDoor    interop.PortName = "FROM_WS"
	PortToFrontDoor      interop.PortName = "TO_WS"
	PortFromDirectory    interop.PortName = "FROM_ACS"
	PortToDirectory      interop.PortName = "TO_ACS"
	PortFromEntryConsole interop.PortName = "FROM_SEC"
	PortToEntryConsole   interop.PortName = "TO_SEC"
	PortFromExitConsole  interop.PortName = "FROM_SXC"
	PortToExitConsole    interop.PortName = "TO_SXC"
	PortFromProvider     interop.PortName = "FROM_PSP"
	PortToProvider       interop.PortName = "TO_PSP"
)

// Error details emitted by the management service.
const (
	ErrDetailNoAccount          = "Account with given ID does not exist."
	ErrDetailBadDates           = "Could not parse the given dates."
	ErrDetailNoReservation      = "No reservation found for given account id."
	ErrDetailUnknownReservation = "No reservation found with the given id."
	ErrDetailForeignReservation = "Given reservation id does not belong to the same account."
	ErrDetailProviderFailure    = "Error with Payment Service Provider. Payment could not be completed."
)

// ChargeAmount is the placeholder charge per completed parking episode.
const ChargeAmount = 1

// ReservationRequest asks for a space in the interval [DateFrom, DateTo),
// given as RFC 3339 timestamps. Accessibility and ECharging override the
// account preferences only when set.
type ReservationRequest struct {
	AccountID     string `json:"accountID"`
	DateFrom      string `json:"dateFrom"`
	DateTo        string `json:"dateTo"`
	Accessibility *bool  `json:"accessibility,omitempty"`
	ECharging     *bool  `json:"eCharging,omitempty"`
}

// ReservationConfirmed reports the granted space and the rounded interval.
type ReservationConfirmed struct {
	ReservationID string         `json:"reservationID"`
	Location      model.Location `json:"location"`
	DateFrom      string         `json:"dateFrom"`
	DateTo        string         `json:"dateTo"`
}

// ReservationQuery asks whether the account holds an active reservation.
// An empty Timestamp matches any reservation of the account.
type ReservationQuery struct {
	AccountID string `json:"accountID"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ReservationResolved carries the reservation found by a query.
type ReservationResolved struct {
	Reservation model.Reservation `json:"reservation"`
}

// CancellationRequest asks to cancel the account's reservation.
type CancellationRequest struct {
	AccountID string `json:"accountID"`
}

// PaymentRequest asks to settle the given reservation.
type PaymentRequest struct {
	AccountID     string `json:"accountID"`
	ReservationID string `json:"reservationID"`
	Timestamp     string `json:"timestamp"`
}

// PaymentConfirmed reports the charged amount.
type PaymentConfirmed struct {
	Amount int `json:"amount"`
}
