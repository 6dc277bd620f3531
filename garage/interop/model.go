// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package interop holds the wire-level event model shared by all
// components of the parking garage network. Events are the only way
// components interact; there is no shared memory between them.
package interop

import (
	"fmt"

	"github.com/google/uuid"
)

// EventClass describes the messaging role of an event.
type EventClass string

const (
	// OneWay events are fire-and-forget signals.
	OneWay EventClass = "oneway"
	// Request events expect a correlated Resolve or Error answer.
	Request EventClass = "request"
	// Resolve events answer a Request successfully.
	Resolve EventClass = "resolve"
	// Error events answer a Request with a fault.
	Error EventClass = "error"
)

// EventType identifies the application-level meaning of an event.
type EventType string

// PortName identifies a named, directional endpoint on a component.
type PortName string

// ReturnCode is carried by resolve and error events.
type ReturnCode int

const (
	// OK indicates a successful answer.
	OK ReturnCode = iota
	// GenericError indicates a failed answer.
	GenericError
	// WrongParameterTypes indicates an answer rejected due to malformed parameters.
	WrongParameterTypes
)

// Event is a single message travelling between two ports. Param holds a
// pointer to an event-type specific parameter struct, or nil.
type Event struct {
	ID                string
	Class             EventClass
	Type              EventType
	Port              PortName
	Param             interface{}
	AnswerToRequestID string // resolve/error only
	RC                ReturnCode
	ErrorDetail       string // error only
}

// IsAnswer reports whether the event answers a prior request.
func (e *Event) IsAnswer() bool {
	return e.Class == Resolve || e.Class == Error
}

func (e *Event) String() string {
	return fmt.Sprintf("%s/%s@%s[%s]", e.Class, e.Type, e.Port, e.ID)
}

// NewOneWay creates a fire-and-forget event addressed to the given port.
func NewOneWay(t EventType, port PortName, param interface{}) *Event {
	return &Event{
		ID:    uuid.New().String(),
		Class: OneWay,
		Type:  t,
		Port:  port,
		Param: param,
	}
}

// NewRequest creates a request event addressed to the given port.
func NewRequest(t EventType, port PortName, param interface{}) *Event {
	return &Event{
		ID:    uuid.New().String(),
		Class: Request,
		Type:  t,
		Port:  port,
		Param: param,
	}
}

// NewResolve creates a successful answer to the request with the given id.
func NewResolve(t EventType, port PortName, answerTo string, param interface{}) *Event {
	return &Event{
		ID:                uuid.New().String(),
		Class:             Resolve,
		Type:              t,
		Port:              port,
		Param:             param,
		AnswerToRequestID: answerTo,
		RC:                OK,
	}
}

// NewError creates a failed answer to the request with the given id.
func NewError(t EventType, port PortName, answerTo string, detail string) *Event {
	return &Event{
		ID:                uuid.New().String(),
		Class:             Error,
		Type:              t,
		Port:              port,
		AnswerToRequestID: answerTo,
		RC:                GenericError,
		ErrorDetail:       detail,
	}
}
