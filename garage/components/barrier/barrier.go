// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package barrier implements the barrier actuator attached to an entry
// or exit console.
package barrier

import (
	"github.com/sorrir/demonstrator/garage/core"
	"github.com/sorrir/demonstrator/garage/interop"
)

// Event types accepted by the barrier.
const (
	EventOpen  interop.EventType = "OPEN"
	EventClose interop.EventType = "CLOSE"
)

// PortFromConsole is the barrier's only port.
const PortFromConsole interop.PortName = "FROM_SC"

// State of the barrier.
type State string

const (
	StateClosed State = "CLOSED"
	StateOpen   State = "OPEN"
)

// New creates a barrier component, initially closed.
func New(name string) (*core.FSM[State, struct{}], error) {
	ports := []core.PortDecl{
		{Name: PortFromConsole, Direction: core.In, EventTypes: []interop.EventType{EventOpen, EventClose}},
	}
	transitions := []core.Transition[State, struct{}]{
		{Source: StateClosed, Target: StateOpen, Class: interop.OneWay, Type: EventOpen, Port: PortFromConsole},
		{Source: StateOpen, Target: StateClosed, Class: interop.OneWay, Type: EventClose, Port: PortFromConsole},
	}
	return core.NewFSM(name, ports, StateClosed, &struct{}{}, transitions)
}
