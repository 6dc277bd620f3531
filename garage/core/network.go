// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"errors"

	"github.com/sorrir/demonstrator/garage/core/statejson"
	"github.com/sorrir/demonstrator/garage/interop"

	log "github.com/sirupsen/logrus"
)

// Component is the network-facing surface of an FSM. Only FSMs built by
// this package can join a network; the unexported methods keep the
// one-active-transition-per-component discipline inside the engine.
type Component interface {
	Name() string
	Ports() []PortDecl
	StateName() string
	Pending() int
	Outbox() []*interop.Event

	deliver(ev *interop.Event)
	park(ev *interop.Event)
	step(emit EmitFunc) bool
}

// ErrDuplicateComponent returned when a component name is registered twice.
var ErrDuplicateComponent = errors.New("ErrDuplicateComponent")

// ErrUnknownComponent returned when a wiring or injection references an
// unregistered component.
var ErrUnknownComponent = errors.New("ErrUnknownComponent")

// ErrPortAlreadyWired returned when a source port is connected twice.
var ErrPortAlreadyWired = errors.New("ErrPortAlreadyWired")

// maxDrainSteps caps a drain so a miswired network cannot spin forever.
const maxDrainSteps = 100000

type endpoint struct {
	component string
	port      interop.PortName
}

// Network owns a set of components and a static wiring table between
// their ports. Execution is a discrete-event simulation: one transition
// runs at a time, cross-component effects happen only through events
// enqueued for later delivery.
type Network struct {
	components []Component
	byName     map[string]Component
	wires      map[endpoint]endpoint
}

// NewNetwork returns an empty network.
func NewNetwork() *Network {
	return &Network{
		byName: make(map[string]Component),
		wires:  make(map[endpoint]endpoint),
	}
}

// Register adds a component. Registration order is the deterministic
// scheduling order of Step.
func (n *Network) Register(c Component) error {
	if _, exists := n.byName[c.Name()]; exists {
		return ErrDuplicateComponent
	}
	n.components = append(n.components, c)
	n.byName[c.Name()] = c
	return nil
}

// Connect wires a source out-port to a target in-port. The capability
// check requires every event type the source may emit on the port to be
// accepted by the target port.
func (n *Network) Connect(src string, srcPort interop.PortName, dst string, dstPort interop.PortName) error {
	srcComp, ok := n.byName[src]
	if !ok {
		return ErrUnknownComponent
	}
	dstComp, ok := n.byName[dst]
	if !ok {
		return ErrUnknownComponent
	}
	srcDecl := portOf(srcComp, srcPort)
	dstDecl := portOf(dstComp, dstPort)
	if srcDecl == nil || dstDecl == nil {
		return ErrPortNotDeclared
	}
	if srcDecl.Direction != Out || dstDecl.Direction != In {
		return ErrDirectionMismatch
	}
	for _, et := range srcDecl.EventTypes {
		if !dstDecl.accepts(et) {
			return ErrEventTypeNotAccepted
		}
	}
	key := endpoint{src, srcPort}
	if _, wired := n.wires[key]; wired {
		return ErrPortAlreadyWired
	}
	n.wires[key] = endpoint{dst, dstPort}
	return nil
}

// Inject delivers an externally produced event directly to a component's
// in-port. This is the seam for car/user simulators and the HTTP front
// door; the event's port is rewritten to the target port name.
func (n *Network) Inject(dst string, port interop.PortName, ev *interop.Event) error {
	dstComp, ok := n.byName[dst]
	if !ok {
		return ErrUnknownComponent
	}
	decl := portOf(dstComp, port)
	if decl == nil {
		return ErrPortNotDeclared
	}
	if decl.Direction != In {
		return ErrDirectionMismatch
	}
	if !decl.accepts(ev.Type) {
		return ErrEventTypeNotAccepted
	}
	ev.Port = port
	dstComp.deliver(ev)
	return nil
}

// Component looks up a registered component by name.
func (n *Network) Component(name string) (Component, bool) {
	c, ok := n.byName[name]
	return c, ok
}

// Components returns all registered components in scheduling order.
func (n *Network) Components() []Component {
	return n.components
}

// Step executes exactly one transition across the whole network, scanning
// components in registration order. It returns false when no component
// has an enabled transition.
func (n *Network) Step() bool {
	for _, c := range n.components {
		if c.step(n.emitterFor(c)) {
			return true
		}
	}
	return false
}

// Drain repeats Step until the network is quiescent and returns the
// number of transitions executed.
func (n *Network) Drain() int {
	steps := 0
	for n.Step() {
		steps++
		if steps >= maxDrainSteps {
			log.Errorf("drain aborted after %d steps, network does not quiesce", steps)
			break
		}
	}
	return steps
}

// Describe reports the state of every component for debugging purposes.
func (n *Network) Describe() *statejson.Description {
	desc := &statejson.Description{}
	for _, c := range n.components {
		desc.Components = append(desc.Components, statejson.ComponentDescription{
			Name:           c.Name(),
			State:          c.StateName(),
			PendingEvents:  c.Pending(),
			UnroutedEvents: len(c.Outbox()),
		})
	}
	return desc
}

// emitterFor routes events raised by src through the wiring table.
// Events emitted on unwired ports are parked in the source's outbox
// where tests and the front door can observe them.
func (n *Network) emitterFor(src Component) EmitFunc {
	return func(ev *interop.Event) {
		target, wired := n.wires[endpoint{src.Name(), ev.Port}]
		if !wired {
			src.park(ev)
			return
		}
		ev.Port = target.port
		n.byName[target.component].deliver(ev)
	}
}

func portOf(c Component, name interop.PortName) *PortDecl {
	ports := c.Ports()
	for i := range ports {
		if ports[i].Name == name {
			return &ports[i]
		}
	}
	return nil
}
