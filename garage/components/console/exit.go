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

var exitStates = []State{
	StateWaitingForCamera,
	StateWaitingForRecognition,
	StateWaitingForAccount,
	StateWaitingForReservationCheck,
	StateWaitingForPayment,
	StateWaitingForUserInput,
	StateLeavingSuccessful,
	StateLeavingFailed,
}

// NewExit creates an exit console. The reservation check carries no
// timestamp; any reservation of the account is settled. The barrier only
// opens after the payment saga confirmed.
func NewExit(name string) (*core.FSM[State, Data], error) {
	ports := []core.PortDecl{
		{Name: PortFromSimulator, Direction: core.In, EventTypes: []interop.EventType{EventCarDetected, EventCarDetectionEnded}},
		{Name: PortToCamera, Direction: core.Out, EventTypes: []interop.EventType{camera.EventRequestImage}},
		{Name: PortFromCamera, Direction: core.In, EventTypes: []interop.EventType{camera.EventResolveImage}},
		{Name: PortToBarrier, Direction: core.Out, EventTypes: []interop.EventType{barrier.EventOpen, barrier.EventClose}},
		{Name: PortToRecognizer, Direction: core.Out, EventTypes: []interop.EventType{recognizer.EventAnalyzeImage}},
		{Name: PortFromRecognizer, Direction: core.In, EventTypes: []interop.EventType{recognizer.EventReportPlate}},
		{Name: PortToDirectory, Direction: core.Out, EventTypes: []interop.EventType{directory.EventRequestAccountDataByPlate}},
		{Name: PortFromDirectory, Direction: core.In, EventTypes: []interop.EventType{directory.EventAnswerToAccountDataRequest}},
		{Name: PortToManagement, Direction: core.Out, EventTypes: []interop.EventType{management.EventCheckForReservation, management.EventRequestPayment}},
		{Name: PortFromManagement, Direction: core.In, EventTypes: []interop.EventType{
			management.EventResolveReservation, management.EventConfirmPayment, management.EventRejectPayment,
		}},
	}

	transitions := pipelineTransitions(false, StateLeavingFailed)
	transitions = append(transitions,
		// The found reservation is settled before the car may leave.
		core.Transition[State, Data]{
			Source: StateWaitingForReservationCheck, Target: StateWaitingForPayment,
			Class: interop.Resolve, Type: management.EventResolveReservation, Port: PortFromManagement,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				resolved := ev.Param.(*management.ReservationResolved)
				emit(interop.NewRequest(management.EventRequestPayment, PortToManagement, &management.PaymentRequest{
					AccountID:     d.account.AccountID,
					ReservationID: resolved.Reservation.ID,
					Timestamp:     d.detection.Timestamp,
				}))
			},
		},
		// Payment cannot proceed without a reservation.
		core.Transition[State, Data]{
			Source: StateWaitingForReservationCheck, Target: StateWaitingForUserInput,
			Class: interop.Error, Type: management.EventResolveReservation, Port: PortFromManagement,
		},
		core.Transition[State, Data]{
			Source: StateWaitingForPayment, Target: StateLeavingSuccessful,
			Class: interop.Resolve, Type: management.EventConfirmPayment, Port: PortFromManagement,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				openBarrier(d, emit)
			},
		},
		core.Transition[State, Data]{
			Source: StateWaitingForPayment, Target: StateWaitingForUserInput,
			Class: interop.Error, Type: management.EventRejectPayment, Port: PortFromManagement,
		},
	)
	transitions = append(transitions, detectionEndedTransitions(exitStates)...)

	return core.NewFSM(name, ports, StateIdle, &Data{}, transitions)
}
