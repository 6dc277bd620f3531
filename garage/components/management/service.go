// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package management implements the management service of the parking
// garage. It exclusively owns the parking grid and reservation ledger and
// orchestrates the reservation, cancellation and payment sagas, caching
// in-flight request context until every sub-step has resolved.
package management

import (
	"time"

	"github.com/google/uuid"

	"github.com/sorrir/demonstrator/garage/components/directory"
	"github.com/sorrir/demonstrator/garage/components/payment"
	"github.com/sorrir/demonstrator/garage/components/sensor"
	"github.com/sorrir/demonstrator/garage/core"
	"github.com/sorrir/demonstrator/garage/interop"
	"github.com/sorrir/demonstrator/garage/model"
)

// State of the management service.
type State string

const (
	StateInit               State = "INIT"
	StateIdle               State = "IDLE"
	StateWaitingForAccounts State = "WAITING_FOR_ACCOUNTS"
	StateProcessAccountData State = "PROCESS_ACCOUNT_DATA"
	StatePreparePayment     State = "PREPARE_PAYMENT"
	StateWaitingForProvider State = "WAITING_FOR_PAYMENT_PROVIDER"
	StateClearCache         State = "CLEAR_CACHE"
)

// sagaKind tags which saga is awaiting the next correlated account
// answer. Recorded when the outbound account request is issued, so the
// generic directory answer can be dispatched without a dedicated event
// type per saga.
type sagaKind int

const (
	sagaNone sagaKind = iota
	sagaReservation
	sagaPayment
)

// Data is the management service's exclusively owned state: the grid and
// the pending-saga cache. All cache fields are wiped unconditionally when
// a saga reaches CLEAR_CACHE.
type Data struct {
	Grid *model.Grid

	saga        sagaKind
	pending     *interop.Event
	replyTo     interop.PortName
	account     *model.AccountData
	reservation *model.Reservation
}

func (d *Data) clearCache() {
	d.saga = sagaNone
	d.pending = nil
	d.replyTo = ""
	d.account = nil
	d.reservation = nil
}

// startSaga caches the triggering request and asks the account directory
// for the requester's record.
func (d *Data) startSaga(kind sagaKind, replyTo interop.PortName, accountID string, emit core.EmitFunc, ev *interop.Event) {
	d.saga = kind
	d.pending = ev
	d.replyTo = replyTo
	emit(interop.NewRequest(directory.EventRequestAccountDataByID, PortToDirectory, &directory.AccountByIDRequest{
		AccountID: accountID,
	}))
}

// handleReservation runs the reservation algorithm once the account
// answer arrived. Every outcome answers the cached triggering request.
func (d *Data) handleReservation(emit core.EmitFunc) {
	if d.account == nil {
		emit(interop.NewError(EventRejectReservationWithError, d.replyTo, d.pending.ID, ErrDetailNoAccount))
		return
	}
	req := d.pending.Param.(*ReservationRequest)
	rawFrom, errFrom := time.Parse(time.RFC3339, req.DateFrom)
	rawTo, errTo := time.Parse(time.RFC3339, req.DateTo)
	if errFrom != nil || errTo != nil {
		emit(interop.NewError(EventRejectReservationWithError, d.replyTo, d.pending.ID, ErrDetailBadDates))
		return
	}
	from, to := model.RoundInterval(rawFrom, rawTo)
	accessibility, eCharging := model.EffectiveConstraints(d.account.Preferences, model.Preferences{
		Accessibility: req.Accessibility,
		ECharging:     req.ECharging,
	})

	// One account holds at most one active reservation grid-wide, so the
	// duplicate check runs over the full grid before any cell is picked.
	duplicate := false
	d.Grid.ForEach(func(loc model.Location, status *model.SpaceStatus) bool {
		for i := range status.Reservations {
			if status.Reservations[i].AccountID == req.AccountID {
				duplicate = true
				return true
			}
		}
		return false
	})
	if duplicate {
		emit(interop.NewResolve(EventRejectReservation, d.replyTo, d.pending.ID, nil))
		return
	}

	confirmed := false
	d.Grid.ForEach(func(loc model.Location, status *model.SpaceStatus) bool {
		if !status.Available(from, to, accessibility, eCharging) {
			return false
		}
		reservation := model.Reservation{
			ID:        uuid.New().String(),
			AccountID: req.AccountID,
			DateFrom:  from,
			DateTo:    to,
		}
		status.Reservations = append(status.Reservations, reservation)
		emit(interop.NewResolve(EventConfirmReservation, d.replyTo, d.pending.ID, &ReservationConfirmed{
			ReservationID: reservation.ID,
			Location:      loc,
			DateFrom:      from.Format(time.RFC3339),
			DateTo:        to.Format(time.RFC3339),
		}))
		confirmed = true
		return true
	})
	if !confirmed {
		emit(interop.NewResolve(EventRejectReservation, d.replyTo, d.pending.ID, nil))
	}
}

// handleQuery answers a reservation check against the grid.
func (d *Data) handleQuery(replyTo interop.PortName, emit core.EmitFunc, ev *interop.Event) {
	query := ev.Param.(*ReservationQuery)
	if query.Timestamp != "" {
		if _, err := time.Parse(time.RFC3339, query.Timestamp); err != nil {
			emit(interop.NewError(EventResolveReservation, replyTo, ev.ID, ErrDetailBadDates))
			return
		}
	}
	var found *model.Reservation
	d.Grid.ForEach(func(loc model.Location, status *model.SpaceStatus) bool {
		for i := range status.Reservations {
			r := &status.Reservations[i]
			if r.AccountID != query.AccountID {
				continue
			}
			if query.Timestamp != "" {
				at, _ := time.Parse(time.RFC3339, query.Timestamp)
				if !r.Contains(at) {
					continue
				}
			}
			found = r
			return true
		}
		return false
	})
	if found == nil {
		emit(interop.NewError(EventResolveReservation, replyTo, ev.ID, ErrDetailNoReservation))
		return
	}
	emit(interop.NewResolve(EventResolveReservation, replyTo, ev.ID, &ReservationResolved{Reservation: *found}))
}

// handleCancellation removes the first reservation of the account in scan
// order. A missing reservation is a business reject, not an error.
func (d *Data) handleCancellation(emit core.EmitFunc, ev *interop.Event) {
	req := ev.Param.(*CancellationRequest)
	removed := false
	d.Grid.ForEach(func(loc model.Location, status *model.SpaceStatus) bool {
		for i := range status.Reservations {
			if status.Reservations[i].AccountID != req.AccountID {
				continue
			}
			status.Reservations = append(status.Reservations[:i], status.Reservations[i+1:]...)
			removed = true
			return true
		}
		return false
	})
	if removed {
		emit(interop.NewResolve(EventConfirmCancellation, PortToFrontDoor, ev.ID, nil))
		return
	}
	emit(interop.NewResolve(EventRejectCancellation, PortToFrontDoor, ev.ID, nil))
}

// locateReservation caches a copy of the reservation the payment saga
// refers to, or leaves the cache nil when the id is unknown.
func (d *Data) locateReservation() {
	req := d.pending.Param.(*PaymentRequest)
	d.reservation = nil
	d.Grid.ForEach(func(loc model.Location, status *model.SpaceStatus) bool {
		for i := range status.Reservations {
			if status.Reservations[i].ID == req.ReservationID {
				r := status.Reservations[i]
				d.reservation = &r
				return true
			}
		}
		return false
	})
}

func (d *Data) updateOccupancy(ev *interop.Event) {
	report := ev.Param.(*sensor.StatusReport)
	if !d.Grid.Contains(report.Location) {
		return
	}
	d.Grid.At(report.Location).IsOccupied = report.IsOccupied
}

// reservationEntry serves saga-triggering reservation requests arriving
// on the given port pair.
func reservationEntry(from, replyTo interop.PortName) core.Transition[State, Data] {
	return core.Transition[State, Data]{
		Source: StateIdle, Target: StateWaitingForAccounts,
		Class: interop.Request, Type: EventRequestReservation, Port: from,
		Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
			req := ev.Param.(*ReservationRequest)
			d.startSaga(sagaReservation, replyTo, req.AccountID, emit, ev)
		},
	}
}

// queryEntry serves reservation checks arriving on the given port pair.
func queryEntry(from, replyTo interop.PortName) core.Transition[State, Data] {
	return core.Transition[State, Data]{
		Source: StateIdle, Target: StateIdle,
		Class: interop.Request, Type: EventCheckForReservation, Port: from,
		Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
			d.handleQuery(replyTo, emit, ev)
		},
	}
}

// New creates a management service owning the given grid.
func New(name string, grid *model.Grid) (*core.FSM[State, Data], error) {
	ports := []core.PortDecl{
		{Name: PortFromSensors, Direction: core.In, EventTypes: []interop.EventType{sensor.EventReportStatus}},
		{Name: PortToSensors, Direction: core.Out, EventTypes: []interop.EventType{sensor.EventRequestStatus}},
		{Name: PortFromFrontDoor, Direction: core.In, EventTypes: []interop.EventType{EventRequestReservation, EventRequestCancellation}},
		{Name: PortToFrontDoor, Direction: core.Out, EventTypes: []interop.EventType{
			EventConfirmReservation, EventRejectReservation, EventRejectReservationWithError,
			EventConfirmCancellation, EventRejectCancellation,
		}},
		{Name: PortFromDirectory, Direction: core.In, EventTypes: []interop.EventType{directory.EventAnswerToAccountDataRequest}},
		{Name: PortToDirectory, Direction: core.Out, EventTypes: []interop.EventType{directory.EventRequestAccountDataByID}},
		{Name: PortFromEntryConsole, Direction: core.In, EventTypes: []interop.EventType{EventRequestReservation, EventCheckForReservation}},
		{Name: PortToEntryConsole, Direction: core.Out, EventTypes: []interop.EventType{
			EventConfirmReservation, EventRejectReservation, EventRejectReservationWithError, EventResolveReservation,
		}},
		{Name: PortFromExitConsole, Direction: core.In, EventTypes: []interop.EventType{EventCheckForReservation, EventRequestPayment}},
		{Name: PortToExitConsole, Direction: core.Out, EventTypes: []interop.EventType{
			EventResolveReservation, EventConfirmPayment, EventRejectPayment,
		}},
		{Name: PortFromProvider, Direction: core.In, EventTypes: []interop.EventType{payment.EventResolvePayment, payment.EventRejectPayment}},
		{Name: PortToProvider, Direction: core.Out, EventTypes: []interop.EventType{payment.EventRequestPayment}},
	}

	transitions := []core.Transition[State, Data]{
		{Source: StateInit, Target: StateIdle},
	}

	// Sensor reports are consumed in every state except INIT so an
	// in-flight saga never blocks occupancy updates.
	for _, s := range []State{StateIdle, StateWaitingForAccounts, StateProcessAccountData, StatePreparePayment, StateWaitingForProvider, StateClearCache} {
		for _, class := range []interop.EventClass{interop.OneWay, interop.Resolve} {
			transitions = append(transitions, core.Transition[State, Data]{
				Source: s, Target: s,
				Class: class, Type: sensor.EventReportStatus, Port: PortFromSensors,
				Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
					d.updateOccupancy(ev)
				},
			})
		}
	}

	transitions = append(transitions,
		reservationEntry(PortFromFrontDoor, PortToFrontDoor),
		reservationEntry(PortFromEntryConsole, PortToEntryConsole),
		queryEntry(PortFromEntryConsole, PortToEntryConsole),
		queryEntry(PortFromExitConsole, PortToExitConsole),
		core.Transition[State, Data]{
			Source: StateIdle, Target: StateIdle,
			Class: interop.Request, Type: EventRequestCancellation, Port: PortFromFrontDoor,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				d.handleCancellation(emit, ev)
			},
		},
		core.Transition[State, Data]{
			Source: StateIdle, Target: StateWaitingForAccounts,
			Class: interop.Request, Type: EventRequestPayment, Port: PortFromExitConsole,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				req := ev.Param.(*PaymentRequest)
				d.startSaga(sagaPayment, PortToExitConsole, req.AccountID, emit, ev)
			},
		},

		// Directory answers. An error answer leaves the account cache nil
		// and lets the saga-specific dispatch below report the failure.
		core.Transition[State, Data]{
			Source: StateWaitingForAccounts, Target: StateProcessAccountData,
			Class: interop.Resolve, Type: directory.EventAnswerToAccountDataRequest, Port: PortFromDirectory,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				resolved := ev.Param.(*directory.AccountDataResolved)
				account := resolved.AccountData
				d.account = &account
			},
		},
		core.Transition[State, Data]{
			Source: StateWaitingForAccounts, Target: StateProcessAccountData,
			Class: interop.Error, Type: directory.EventAnswerToAccountDataRequest, Port: PortFromDirectory,
		},

		// Saga dispatch on the cached kind once the account answer is in.
		core.Transition[State, Data]{
			Source: StateProcessAccountData, Target: StateClearCache,
			Guard: func(d *Data) bool { return d.saga == sagaReservation },
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				d.handleReservation(emit)
			},
		},
		core.Transition[State, Data]{
			Source: StateProcessAccountData, Target: StateClearCache,
			Guard: func(d *Data) bool { return d.saga == sagaPayment && d.account == nil },
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				emit(interop.NewError(EventRejectPayment, d.replyTo, d.pending.ID, ErrDetailNoAccount))
			},
		},
		core.Transition[State, Data]{
			Source: StateProcessAccountData, Target: StatePreparePayment,
			Guard: func(d *Data) bool { return d.saga == sagaPayment },
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				d.locateReservation()
			},
		},

		// Payment validation and provider round trip.
		core.Transition[State, Data]{
			Source: StatePreparePayment, Target: StateClearCache,
			Guard: func(d *Data) bool { return d.reservation == nil },
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				emit(interop.NewError(EventRejectPayment, d.replyTo, d.pending.ID, ErrDetailUnknownReservation))
			},
		},
		core.Transition[State, Data]{
			Source: StatePreparePayment, Target: StateClearCache,
			Guard: func(d *Data) bool { return d.reservation.AccountID != d.account.AccountID },
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				emit(interop.NewError(EventRejectPayment, d.replyTo, d.pending.ID, ErrDetailForeignReservation))
			},
		},
		core.Transition[State, Data]{
			Source: StatePreparePayment, Target: StateWaitingForProvider,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				emit(interop.NewRequest(payment.EventRequestPayment, PortToProvider, &payment.ChargeRequest{
					BillingInfo: d.account.BillingInfo,
					Amount:      ChargeAmount,
				}))
			},
		},
		core.Transition[State, Data]{
			Source: StateWaitingForProvider, Target: StateClearCache,
			Class: interop.Resolve, Type: payment.EventResolvePayment, Port: PortFromProvider,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				result := ev.Param.(*payment.ChargeResult)
				emit(interop.NewResolve(EventConfirmPayment, d.replyTo, d.pending.ID, &PaymentConfirmed{
					Amount: result.Amount,
				}))
			},
		},
		core.Transition[State, Data]{
			Source: StateWaitingForProvider, Target: StateClearCache,
			Class: interop.Error, Type: payment.EventRejectPayment, Port: PortFromProvider,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				emit(interop.NewError(EventRejectPayment, d.replyTo, d.pending.ID, ErrDetailProviderFailure))
			},
		},

		// Terminal cache wipe; runs unconditionally on every saga outcome.
		core.Transition[State, Data]{
			Source: StateClearCache, Target: StateIdle,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				d.clearCache()
			},
		},
	)

	return core.NewFSM(name, ports, StateInit, &Data{Grid: grid}, transitions)
}
