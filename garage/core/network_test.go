// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorrir/demonstrator/garage/interop"
)

// newEchoFSM answers every PING on IN with a PONG on OUT.
func newEchoFSM(t *testing.T, name string) *FSM[Singleton, struct{}] {
	f, err := NewFSM(name, testPorts, Singleton(""), &struct{}{}, []Transition[Singleton, struct{}]{
		{
			Class: interop.OneWay, Type: evPing, Port: portIn,
			Action: func(d *struct{}, emit EmitFunc, ev *interop.Event) {
				emit(interop.NewOneWay(evPong, portOut, nil))
			},
		},
	})
	require.NoError(t, err)
	return f
}

// newSinkFSM consumes PONGs on IN.
func newSinkFSM(t *testing.T, name string) *FSM[Singleton, struct{}] {
	ports := []PortDecl{
		{Name: portIn, Direction: In, EventTypes: []interop.EventType{evPong}},
	}
	f, err := NewFSM(name, ports, Singleton(""), &struct{}{}, []Transition[Singleton, struct{}]{
		{Class: interop.OneWay, Type: evPong, Port: portIn},
	})
	require.NoError(t, err)
	return f
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	net := NewNetwork()
	require.NoError(t, net.Register(newEchoFSM(t, "a")))
	assert.Equal(t, ErrDuplicateComponent, net.Register(newEchoFSM(t, "a")))
}

func TestConnectCapabilityCheck(t *testing.T) {
	net := NewNetwork()
	require.NoError(t, net.Register(newEchoFSM(t, "echo")))
	require.NoError(t, net.Register(newSinkFSM(t, "sink")))

	// Unknown component.
	assert.Equal(t, ErrUnknownComponent, net.Connect("missing", portOut, "sink", portIn))
	// Undeclared port.
	assert.Equal(t, ErrPortNotDeclared, net.Connect("echo", "MISSING", "sink", portIn))
	// In-port used as a source.
	assert.Equal(t, ErrDirectionMismatch, net.Connect("echo", portIn, "sink", portIn))
	// Every type the source may emit must be accepted by the target:
	// echo2's IN takes PING/NOOP, not the PONG echo emits.
	require.NoError(t, net.Register(newEchoFSM(t, "echo2")))
	assert.Equal(t, ErrEventTypeNotAccepted, net.Connect("echo", portOut, "echo2", portIn))

	require.NoError(t, net.Connect("echo", portOut, "sink", portIn))
	// A source port holds exactly one wire.
	assert.Equal(t, ErrPortAlreadyWired, net.Connect("echo", portOut, "sink", portIn))
}

func TestInjectValidation(t *testing.T) {
	net := NewNetwork()
	require.NoError(t, net.Register(newEchoFSM(t, "echo")))

	assert.Equal(t, ErrUnknownComponent, net.Inject("missing", portIn, interop.NewOneWay(evPing, portIn, nil)))
	assert.Equal(t, ErrPortNotDeclared, net.Inject("echo", "MISSING", interop.NewOneWay(evPing, portIn, nil)))
	assert.Equal(t, ErrDirectionMismatch, net.Inject("echo", portOut, interop.NewOneWay(evPing, portIn, nil)))
	assert.Equal(t, ErrEventTypeNotAccepted, net.Inject("echo", portIn, interop.NewOneWay(evPong, portIn, nil)))
	assert.NoError(t, net.Inject("echo", portIn, interop.NewOneWay(evPing, portIn, nil)))
}

func TestStepDeliversOneTransitionAtATime(t *testing.T) {
	net := NewNetwork()
	echo := newEchoFSM(t, "echo")
	sink := newSinkFSM(t, "sink")
	require.NoError(t, net.Register(echo))
	require.NoError(t, net.Register(sink))
	require.NoError(t, net.Connect("echo", portOut, "sink", portIn))

	require.NoError(t, net.Inject("echo", portIn, interop.NewOneWay(evPing, portIn, nil)))
	// Step one: echo consumes the ping and the pong lands in sink's inbox.
	require.True(t, net.Step())
	assert.Equal(t, 0, echo.Pending())
	assert.Equal(t, 1, sink.Pending())
	// Step two: sink consumes the pong.
	require.True(t, net.Step())
	assert.Equal(t, 0, sink.Pending())
	// Quiescent.
	assert.False(t, net.Step())
}

func TestDrainRunsToQuiescence(t *testing.T) {
	net := NewNetwork()
	echo := newEchoFSM(t, "echo")
	sink := newSinkFSM(t, "sink")
	require.NoError(t, net.Register(echo))
	require.NoError(t, net.Register(sink))
	require.NoError(t, net.Connect("echo", portOut, "sink", portIn))

	require.NoError(t, net.Inject("echo", portIn, interop.NewOneWay(evPing, portIn, nil)))
	require.NoError(t, net.Inject("echo", portIn, interop.NewOneWay(evPing, portIn, nil)))
	assert.Equal(t, 4, net.Drain())
	assert.Equal(t, 0, echo.Pending())
	assert.Equal(t, 0, sink.Pending())
}

func TestUnwiredEmissionIsParked(t *testing.T) {
	net := NewNetwork()
	echo := newEchoFSM(t, "echo")
	require.NoError(t, net.Register(echo))

	require.NoError(t, net.Inject("echo", portIn, interop.NewOneWay(evPing, portIn, nil)))
	net.Drain()

	outbox := echo.Outbox()
	require.Len(t, outbox, 1)
	assert.Equal(t, evPong, outbox[0].Type)
	assert.Equal(t, portOut, outbox[0].Port)
}

func TestDescribe(t *testing.T) {
	net := NewNetwork()
	require.NoError(t, net.Register(newEchoFSM(t, "echo")))
	require.NoError(t, net.Register(newSinkFSM(t, "sink")))

	desc := net.Describe()
	require.Len(t, desc.Components, 2)
	assert.Equal(t, "echo", desc.Components[0].Name)
	assert.Equal(t, "sink", desc.Components[1].Name)
}
