// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"github.com/sorrir/demonstrator/garage/components/barrier"
	"github.com/sorrir/demonstrator/garage/components/camera"
	"github.com/sorrir/demonstrator/garage/components/directory"
	"github.com/sorrir/demonstrator/garage/components/management"
	"github.com/sorrir/demonstrator/garage/components/recognizer"
	"github.com/sorrir/demonstrator/garage/core"
	"github.com/sorrir/demonstrator/garage/interop"
)

var entryStates = []State{
	StateWaitingForCamera,
	StateWaitingForRecognition,
	StateWaitingForAccount,
	StateWaitingForReservationCheck,
	StateWaitingForUserInput,
	StateArrivalSuccessful,
	StateArrivalFailed,
}

// NewEntry creates an entry console. The reservation check carries the
// detection timestamp; a missing reservation hands over to the driver,
// who may request one on site for an interval starting at detection time.
func NewEntry(name string) (*core.FSM[State, Data], error) {
	ports := []core.PortDecl{
		{Name: PortFromSimulator, Direction: core.In, EventTypes: []interop.EventType{EventCarDetected, EventCarDetectionEnded}},
		{Name: PortFromUser, Direction: core.In, EventTypes: []interop.EventType{management.EventRequestReservation}},
		{Name: PortToCamera, Direction: core.Out, EventTypes: []interop.EventType{camera.EventRequestImage}},
		{Name: PortFromCamera, Direction: core.In, EventTypes: []interop.EventType{camera.EventResolveImage}},
		{Name: PortToBarrier, Direction: core.Out, EventTypes: []interop.EventType{barrier.EventOpen, barrier.EventClose}},
		{Name: PortToRecognizer, Direction: core.Out, EventTypes: []interop.EventType{recognizer.EventAnalyzeImage}},
		{Name: PortFromRecognizer, Direction: core.In, EventTypes: []interop.EventType{recognizer.EventReportPlate}},
		{Name: PortToDirectory, Direction: core.Out, EventTypes: []interop.EventType{directory.EventRequestAccountDataByPlate}},
		{Name: PortFromDirectory, Direction: core.In, EventTypes: []interop.EventType{directory.EventAnswerToAccountDataRequest}},
		{Name: PortToManagement, Direction: core.Out, EventTypes: []interop.EventType{management.EventCheckForReservation, management.EventRequestReservation}},
		{Name: PortFromManagement, Direction: core.In, EventTypes: []interop.EventType{
			management.EventResolveReservation, management.EventConfirmReservation,
			management.EventRejectReservation, management.EventRejectReservationWithError,
		}},
	}

	transitions := pipelineTransitions(true, StateArrivalFailed)
	transitions = append(transitions,
		// An active reservation admits the car immediately.
		core.Transition[State, Data]{
			Source: StateWaitingForReservationCheck, Target: StateArrivalSuccessful,
			Class: interop.Resolve, Type: management.EventResolveReservation, Port: PortFromManagement,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				openBarrier(d, emit)
			},
		},
		// No reservation: the driver may still request one on site.
		core.Transition[State, Data]{
			Source: StateWaitingForReservationCheck, Target: StateWaitingForUserInput,
			Class: interop.Error, Type: management.EventResolveReservation, Port: PortFromManagement,
		},
		// On-site reservation request, forwarded with the cached account
		// and the detection timestamp as the interval start.
		core.Transition[State, Data]{
			Source: StateWaitingForUserInput, Target: StateWaitingForUserInput,
			Class: interop.Request, Type: management.EventRequestReservation, Port: PortFromUser,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				req := *ev.Param.(*management.ReservationRequest)
				req.AccountID = d.account.AccountID
				req.DateFrom = d.detection.Timestamp
				emit(interop.NewRequest(management.EventRequestReservation, PortToManagement, &req))
			},
		},
		core.Transition[State, Data]{
			Source: StateWaitingForUserInput, Target: StateArrivalSuccessful,
			Class: interop.Resolve, Type: management.EventConfirmReservation, Port: PortFromManagement,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				openBarrier(d, emit)
			},
		},
		// A plain reject keeps the driver in the retry loop.
		core.Transition[State, Data]{
			Source: StateWaitingForUserInput, Target: StateWaitingForUserInput,
			Class: interop.Resolve, Type: management.EventRejectReservation, Port: PortFromManagement,
		},
		core.Transition[State, Data]{
			Source: StateWaitingForUserInput, Target: StateArrivalFailed,
			Class: interop.Error, Type: management.EventRejectReservationWithError, Port: PortFromManagement,
		},
	)
	transitions = append(transitions, detectionEndedTransitions(entryStates)...)

	return core.NewFSM(name, ports, StateIdle, &Data{}, transitions)
}
