// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package frontdoor implements the web-facing relay in front of the
// management service. It forwards external reservation and cancellation
// requests and records the saga outcomes for the HTTP layer to pick up.
package frontdoor

import (
	"github.com/sorrir/demonstrator/garage/components/management"
	"github.com/sorrir/demonstrator/garage/core"
	"github.com/sorrir/demonstrator/garage/interop"

	log "github.com/sirupsen/logrus"
)

// Ports of the front door.
const (
	PortFromUser       interop.PortName = "FROM_US"
	PortToManagement   interop.PortName = "TO_PMS"
	PortFromManagement interop.PortName = "FROM_PMS"
)

// Outcome is one terminal saga answer received from the management
// service, kept in arrival order.
type Outcome struct {
	Type        interop.EventType
	Class       interop.EventClass
	Param       interface{}
	ErrorDetail string
}

// Data accumulates the outcomes of forwarded requests.
type Data struct {
	outcomes []Outcome
}

// Outcomes returns the recorded saga outcomes in arrival order.
func (d *Data) Outcomes() []Outcome { return d.outcomes }

// TakeOutcomes drains and returns the recorded saga outcomes.
func (d *Data) TakeOutcomes() []Outcome {
	out := d.outcomes
	d.outcomes = nil
	return out
}

func forwardTransition(t interop.EventType) core.Transition[core.Singleton, Data] {
	return core.Transition[core.Singleton, Data]{
		Class: interop.Request,
		Type:  t,
		Port:  PortFromUser,
		Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
			emit(interop.NewRequest(ev.Type, PortToManagement, ev.Param))
		},
	}
}

func recordTransition(class interop.EventClass, t interop.EventType) core.Transition[core.Singleton, Data] {
	return core.Transition[core.Singleton, Data]{
		Class: class,
		Type:  t,
		Port:  PortFromManagement,
		Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
			if ev.Class == interop.Error {
				log.Infof("front door: %s: %s", ev.Type, ev.ErrorDetail)
			} else {
				log.Infof("front door: %s", ev.Type)
			}
			d.outcomes = append(d.outcomes, Outcome{
				Type:        ev.Type,
				Class:       ev.Class,
				Param:       ev.Param,
				ErrorDetail: ev.ErrorDetail,
			})
		},
	}
}

// New creates a front door component.
func New(name string) (*core.FSM[core.Singleton, Data], error) {
	ports := []core.PortDecl{
		{Name: PortFromUser, Direction: core.In, EventTypes: []interop.EventType{
			management.EventRequestReservation, management.EventRequestCancellation,
		}},
		{Name: PortToManagement, Direction: core.Out, EventTypes: []interop.EventType{
			management.EventRequestReservation, management.EventRequestCancellation,
		}},
		{Name: PortFromManagement, Direction: core.In, EventTypes: []interop.EventType{
			management.EventConfirmReservation, management.EventRejectReservation,
			management.EventRejectReservationWithError,
			management.EventConfirmCancellation, management.EventRejectCancellation,
		}},
	}
	transitions := []core.Transition[core.Singleton, Data]{
		forwardTransition(management.EventRequestReservation),
		forwardTransition(management.EventRequestCancellation),
		recordTransition(interop.Resolve, management.EventConfirmReservation),
		recordTransition(interop.Resolve, management.EventRejectReservation),
		recordTransition(interop.Error, management.EventRejectReservationWithError),
		recordTransition(interop.Resolve, management.EventConfirmCancellation),
		recordTransition(interop.Resolve, management.EventRejectCancellation),
	}
	return core.NewFSM(name, ports, core.Singleton(""), &Data{}, transitions)
}
