// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package sensor implements the occupancy sensor sitting at a single
// parking space. Externally driven occupancy flips are echoed to the
// management service; the current state can also be polled.
package sensor

import (
	"github.com/sorrir/demonstrator/garage/core"
	"github.com/sorrir/demonstrator/garage/interop"
	"github.com/sorrir/demonstrator/garage/model"
)

// Event types accepted and emitted by the sensor.
const (
	EventSetOccupied   interop.EventType = "SET_OCCUPIED"
	EventSetEmpty      interop.EventType = "SET_EMPTY"
	EventRequestStatus interop.EventType = "REQUEST_STATUS"
	EventReportStatus  interop.EventType = "REPORT_STATUS"
)

// Ports of the sensor.
const (
	PortFromManagement interop.PortName = "FROM_PMS"
	PortFromSimulator  interop.PortName = "FROM_CS"
	PortToManagement   interop.PortName = "TO_PMS"
)

// State of the sensed parking space.
type State string

const (
	StateEmpty    State = "EMPTY"
	StateOccupied State = "OCCUPIED"
)

// StatusReport carries the sensed occupancy of one parking space.
type StatusReport struct {
	Location   model.Location `json:"location"`
	IsOccupied bool           `json:"isOccupied"`
}

// Data holds the fixed location of the sensor.
type Data struct {
	location model.Location
}

func reportOneWay(d *Data, occupied bool) *interop.Event {
	return interop.NewOneWay(EventReportStatus, PortToManagement, &StatusReport{
		Location:   d.location,
		IsOccupied: occupied,
	})
}

func reportResolve(d *Data, occupied bool, answerTo string) *interop.Event {
	return interop.NewResolve(EventReportStatus, PortToManagement, answerTo, &StatusReport{
		Location:   d.location,
		IsOccupied: occupied,
	})
}

// New creates a sensor component for the parking space at loc.
func New(name string, loc model.Location) (*core.FSM[State, Data], error) {
	ports := []core.PortDecl{
		{Name: PortFromManagement, Direction: core.In, EventTypes: []interop.EventType{EventRequestStatus}},
		{Name: PortFromSimulator, Direction: core.In, EventTypes: []interop.EventType{EventSetOccupied, EventSetEmpty}},
		{Name: PortToManagement, Direction: core.Out, EventTypes: []interop.EventType{EventReportStatus}},
	}
	transitions := []core.Transition[State, Data]{
		// Externally driven flips mimic the physical sensor and are
		// echoed to the management service.
		{
			Source: StateEmpty, Target: StateOccupied,
			Class: interop.OneWay, Type: EventSetOccupied, Port: PortFromSimulator,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				emit(reportOneWay(d, true))
			},
		},
		{
			Source: StateOccupied, Target: StateEmpty,
			Class: interop.OneWay, Type: EventSetEmpty, Port: PortFromSimulator,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				emit(reportOneWay(d, false))
			},
		},
		// Flips that match the current state are consumed without a report.
		{
			Source: StateEmpty, Target: StateEmpty,
			Class: interop.OneWay, Type: EventSetEmpty, Port: PortFromSimulator,
		},
		{
			Source: StateOccupied, Target: StateOccupied,
			Class: interop.OneWay, Type: EventSetOccupied, Port: PortFromSimulator,
		},
		// Report the current state upon request.
		{
			Source: StateOccupied, Target: StateOccupied,
			Class: interop.Request, Type: EventRequestStatus, Port: PortFromManagement,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				emit(reportResolve(d, true, ev.ID))
			},
		},
		{
			Source: StateEmpty, Target: StateEmpty,
			Class: interop.Request, Type: EventRequestStatus, Port: PortFromManagement,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				emit(reportResolve(d, false, ev.ID))
			},
		},
	}
	return core.NewFSM(name, ports, StateEmpty, &Data{location: loc}, transitions)
}
