// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package camera implements the camera relay attached to an entry or
// exit console. An image request is answered once external image data is
// fed in; feeds arriving while no request is cached are dropped.
package camera

import (
	"github.com/sorrir/demonstrator/garage/core"
	"github.com/sorrir/demonstrator/garage/interop"
)

// Event types accepted and emitted by the camera.
const (
	EventRequestImage  interop.EventType = "REQUEST_IMAGE"
	EventResolveImage  interop.EventType = "RESOLVE_IMAGE"
	EventFeedImageData interop.EventType = "FEED_IMAGE_DATA"
)

// Ports of the camera.
const (
	PortFromConsole   interop.PortName = "FROM_SC"
	PortToConsole     interop.PortName = "TO_SC"
	PortFromSimulator interop.PortName = "FROM_CS"
)

// State of the camera.
type State string

const (
	StateIdle   State = "IDLE"
	StateActive State = "ACTIVE"
)

// ImagePayload carries raw image data. In reality this would be an
// encoded image; here it is the string the plate recognizer parses.
type ImagePayload struct {
	ImageData string `json:"imageData"`
}

// Data caches the correlation id of the pending image request.
type Data struct {
	answerToRequestID string
}

// New creates a camera component.
func New(name string) (*core.FSM[State, Data], error) {
	ports := []core.PortDecl{
		{Name: PortFromConsole, Direction: core.In, EventTypes: []interop.EventType{EventRequestImage}},
		{Name: PortToConsole, Direction: core.Out, EventTypes: []interop.EventType{EventResolveImage}},
		{Name: PortFromSimulator, Direction: core.In, EventTypes: []interop.EventType{EventFeedImageData}},
	}
	transitions := []core.Transition[State, Data]{
		{
			Source: StateIdle, Target: StateActive,
			Class: interop.Request, Type: EventRequestImage, Port: PortFromConsole,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				d.answerToRequestID = ev.ID
			},
		},
		{
			Source: StateActive, Target: StateIdle,
			Class: interop.OneWay, Type: EventFeedImageData, Port: PortFromSimulator,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				feed := ev.Param.(*ImagePayload)
				emit(interop.NewResolve(EventResolveImage, PortToConsole, d.answerToRequestID, &ImagePayload{
					ImageData: feed.ImageData,
				}))
				d.answerToRequestID = ""
			},
		},
		// Ignore image data feeds while idle.
		{
			Source: StateIdle, Target: StateIdle,
			Class: interop.OneWay, Type: EventFeedImageData, Port: PortFromSimulator,
		},
	}
	return core.NewFSM(name, ports, StateIdle, &Data{}, transitions)
}
