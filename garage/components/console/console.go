// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package console implements the smart entry and exit consoles. Both
// drive the same identification pipeline, detect car, capture image,
// recognize plate, resolve account, and then diverge: the entry console
// checks or creates a reservation before opening the barrier, the exit
// console verifies the reservation and settles payment first.
package console

import (
	"github.com/sorrir/demonstrator/garage/components/barrier"
	"github.com/sorrir/demonstrator/garage/components/camera"
	"github.com/sorrir/demonstrator/garage/components/directory"
	"github.com/sorrir/demonstrator/garage/components/management"
	"github.com/sorrir/demonstrator/garage/components/recognizer"
	"github.com/sorrir/demonstrator/garage/core"
	"github.com/sorrir/demonstrator/garage/interop"
	"github.com/sorrir/demonstrator/garage/model"
)

// Event types for the externally driven detection signals.
const (
	EventCarDetected       interop.EventType = "CAR_DETECTED"
	EventCarDetectionEnded interop.EventType = "CAR_DETECTION_ENDED"
)

// Ports shared by both console variants.
const (
	PortFromSimulator  interop.PortName = "FROM_CS"
	PortFromUser       interop.PortName = "FROM_US"
	PortToCamera       interop.PortName = "TO_CM"
	PortFromCamera     interop.PortName = "FROM_CM"
	PortToBarrier      interop.PortName = "TO_BM"
	PortToRecognizer   interop.PortName = "TO_PRS"
	PortFromRecognizer interop.PortName = "FROM_PRS"
	PortToDirectory    interop.PortName = "TO_ACS"
	PortFromDirectory  interop.PortName = "FROM_ACS"
	PortToManagement   interop.PortName = "TO_PMS"
	PortFromManagement interop.PortName = "FROM_PMS"
)

// State of a console. The two variants share the identification pipeline
// states and diverge in their terminal and payment states.
type State string

const (
	StateIdle                       State = "IDLE"
	StateWaitingForCamera           State = "WAITING_FOR_CAMERA"
	StateWaitingForRecognition      State = "WAITING_FOR_RECOGNITION"
	StateWaitingForAccount          State = "WAITING_FOR_ACCOUNT"
	StateWaitingForReservationCheck State = "WAITING_FOR_RESERVATION_CHECK"
	StateWaitingForPayment          State = "WAITING_FOR_PAYMENT"
	StateWaitingForUserInput        State = "WAITING_FOR_USER_INPUT"
	StateArrivalSuccessful          State = "ARRIVAL_SUCCESSFUL"
	StateArrivalFailed              State = "ARRIVAL_FAILED"
	StateLeavingSuccessful          State = "LEAVING_SUCCESSFUL"
	StateLeavingFailed              State = "LEAVING_FAILED"
)

// Detection carries the timestamp of a car detection signal, RFC 3339.
type Detection struct {
	Timestamp string `json:"timestamp"`
}

// Data is the console cache: the triggering detection and the resolved
// account, held for the duration of one arrival or departure episode.
type Data struct {
	detection   *Detection
	account     *model.AccountData
	barrierOpen bool
}

// Account returns the resolved account of the current episode, or nil.
func (d *Data) Account() *model.AccountData { return d.account }

func (d *Data) clear() {
	d.detection = nil
	d.account = nil
	d.barrierOpen = false
}

// pipelineTransitions builds the identification pipeline shared by both
// console variants, up to and including the reservation check request.
// withTimestamp controls whether the check carries the detection
// timestamp; failState is the variant's terminal failure state.
func pipelineTransitions(withTimestamp bool, failState State) []core.Transition[State, Data] {
	return []core.Transition[State, Data]{
		{
			Source: StateIdle, Target: StateWaitingForCamera,
			Class: interop.OneWay, Type: EventCarDetected, Port: PortFromSimulator,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				detection := *ev.Param.(*Detection)
				d.detection = &detection
				emit(interop.NewRequest(camera.EventRequestImage, PortToCamera, nil))
			},
		},
		{
			Source: StateWaitingForCamera, Target: StateWaitingForRecognition,
			Class: interop.Resolve, Type: camera.EventResolveImage, Port: PortFromCamera,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				image := ev.Param.(*camera.ImagePayload)
				emit(interop.NewRequest(recognizer.EventAnalyzeImage, PortToRecognizer, &recognizer.AnalyzeRequest{
					ImageData: image.ImageData,
				}))
			},
		},
		{
			Source: StateWaitingForRecognition, Target: StateWaitingForAccount,
			Class: interop.Resolve, Type: recognizer.EventReportPlate, Port: PortFromRecognizer,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				plate := ev.Param.(*recognizer.PlateResolved)
				emit(interop.NewRequest(directory.EventRequestAccountDataByPlate, PortToDirectory, &directory.AccountByPlateRequest{
					LicensePlate: plate.LicensePlate,
				}))
			},
		},
		{
			Source: StateWaitingForRecognition, Target: failState,
			Class: interop.Error, Type: recognizer.EventReportPlate, Port: PortFromRecognizer,
		},
		{
			Source: StateWaitingForAccount, Target: StateWaitingForReservationCheck,
			Class: interop.Resolve, Type: directory.EventAnswerToAccountDataRequest, Port: PortFromDirectory,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				resolved := ev.Param.(*directory.AccountDataResolved)
				account := resolved.AccountData
				d.account = &account
				query := &management.ReservationQuery{AccountID: account.AccountID}
				if withTimestamp {
					query.Timestamp = d.detection.Timestamp
				}
				emit(interop.NewRequest(management.EventCheckForReservation, PortToManagement, query))
			},
		},
		{
			Source: StateWaitingForAccount, Target: failState,
			Class: interop.Error, Type: directory.EventAnswerToAccountDataRequest, Port: PortFromDirectory,
		},
	}
}

// openBarrier raises the barrier and records that this episode owns it.
func openBarrier(d *Data, emit core.EmitFunc) {
	emit(interop.NewOneWay(barrier.EventOpen, PortToBarrier, nil))
	d.barrierOpen = true
}

// detectionEndedTransitions returns to IDLE from every non-idle state,
// closing the barrier when this episode opened it and clearing the cache.
func detectionEndedTransitions(states []State) []core.Transition[State, Data] {
	var trs []core.Transition[State, Data]
	for _, s := range states {
		trs = append(trs, core.Transition[State, Data]{
			Source: s, Target: StateIdle,
			Class: interop.OneWay, Type: EventCarDetectionEnded, Port: PortFromSimulator,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				if d.barrierOpen {
					emit(interop.NewOneWay(barrier.EventClose, PortToBarrier, nil))
				}
				d.clear()
			},
		})
	}
	return trs
}
