// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package core implements the finite-state-machine engine the garage
// components run on: ordered transition tables with optional guards,
// typed directional ports, and a discrete-event scheduler that delivers
// one message at a time across a statically wired network.
package core

import (
	"errors"

	"github.com/sorrir/demonstrator/garage/interop"

	log "github.com/sirupsen/logrus"
)

// State constrains the FSM state types of the components.
type State interface {
	~string
}

// Singleton is the state type for components with a single implicit state.
type Singleton string

// Direction of a port, from the owning component's point of view.
type Direction string

const (
	// In ports accept events.
	In Direction = "in"
	// Out ports emit events.
	Out Direction = "out"
)

// PortDecl declares a named directional port together with the exact set
// of event types that may travel over it.
type PortDecl struct {
	Name       interop.PortName
	Direction  Direction
	EventTypes []interop.EventType
}

func (p *PortDecl) accepts(t interop.EventType) bool {
	for _, et := range p.EventTypes {
		if et == t {
			return true
		}
	}
	return false
}

// EmitFunc queues an outbound event for routing by the network.
type EmitFunc func(ev *interop.Event)

// Transition is one rule of an ordered transition table. Rules are
// evaluated in declaration order and the first match wins; guard-bearing
// rules for the same event may follow unconditional ones. A rule with an
// empty Class is event-less: it fires as soon as the machine is in its
// source state and the guard passes, without consuming a message.
type Transition[S State, D any] struct {
	Source S
	Target S
	Class  interop.EventClass
	Type   interop.EventType
	Port   interop.PortName
	Guard  func(data *D) bool
	Action func(data *D, emit EmitFunc, ev *interop.Event)
}

// ErrPortNotDeclared returned when a transition or event references a port
// the component does not declare.
var ErrPortNotDeclared = errors.New("ErrPortNotDeclared")

// ErrDirectionMismatch returned when a port is used against its declared direction.
var ErrDirectionMismatch = errors.New("ErrDirectionMismatch")

// ErrEventTypeNotAccepted returned when an event type is not in a port's declared set.
var ErrEventTypeNotAccepted = errors.New("ErrEventTypeNotAccepted")

// FSM is a single component of the network: a state machine with
// exclusively owned data, a FIFO inbox and an outbox for events that
// could not be routed anywhere.
type FSM[S State, D any] struct {
	name        string
	ports       []PortDecl
	state       S
	data        *D
	transitions []Transition[S, D]
	inbox       []*interop.Event
	outbox      []*interop.Event
}

// NewFSM creates a component from its port declarations and ordered
// transition table. Every message-driven transition must reference a
// declared in-port that accepts the transition's event type.
func NewFSM[S State, D any](name string, ports []PortDecl, initial S, data *D, transitions []Transition[S, D]) (*FSM[S, D], error) {
	f := &FSM[S, D]{
		name:        name,
		ports:       ports,
		state:       initial,
		data:        data,
		transitions: transitions,
	}
	for i := range transitions {
		tr := &transitions[i]
		if tr.Class == "" {
			continue
		}
		decl := f.port(tr.Port)
		if decl == nil {
			return nil, ErrPortNotDeclared
		}
		if decl.Direction != In {
			return nil, ErrDirectionMismatch
		}
		if !decl.accepts(tr.Type) {
			return nil, ErrEventTypeNotAccepted
		}
	}
	return f, nil
}

// Name of the component.
func (f *FSM[S, D]) Name() string { return f.name }

// Ports declared by the component.
func (f *FSM[S, D]) Ports() []PortDecl { return f.ports }

// State returns the current FSM state.
func (f *FSM[S, D]) State() S { return f.state }

// SetState overrides the current FSM state. Intended for tests.
func (f *FSM[S, D]) SetState(s S) { f.state = s }

// Data returns the component's exclusively owned data.
func (f *FSM[S, D]) Data() *D { return f.data }

// StateName returns the current FSM state as a string.
func (f *FSM[S, D]) StateName() string { return string(f.state) }

// Pending returns the number of undelivered inbox events.
func (f *FSM[S, D]) Pending() int { return len(f.inbox) }

// Outbox returns the events emitted on ports with no wired connection.
func (f *FSM[S, D]) Outbox() []*interop.Event { return f.outbox }

// TakeOutbox drains and returns the unrouted events.
func (f *FSM[S, D]) TakeOutbox() []*interop.Event {
	out := f.outbox
	f.outbox = nil
	return out
}

func (f *FSM[S, D]) port(name interop.PortName) *PortDecl {
	for i := range f.ports {
		if f.ports[i].Name == name {
			return &f.ports[i]
		}
	}
	return nil
}

func (f *FSM[S, D]) deliver(ev *interop.Event) {
	f.inbox = append(f.inbox, ev)
}

func (f *FSM[S, D]) park(ev *interop.Event) {
	f.outbox = append(f.outbox, ev)
}

// checkEmit validates an outbound event against the port declarations.
// Emitting on an undeclared port or with a type outside the port's set is
// a programming error in the transition table.
func (f *FSM[S, D]) checkEmit(ev *interop.Event) {
	decl := f.port(ev.Port)
	if decl == nil || decl.Direction != Out {
		log.Panicf("component %s emitted %s on undeclared out-port", f.name, ev)
	}
	if !decl.accepts(ev.Type) {
		log.Panicf("component %s emitted unaccepted event %s", f.name, ev)
	}
}

func (f *FSM[S, D]) matches(tr *Transition[S, D], ev *interop.Event) bool {
	if tr.Class != ev.Class || tr.Type != ev.Type || tr.Port != ev.Port {
		return false
	}
	if tr.Source != f.state {
		return false
	}
	if tr.Guard != nil && !tr.Guard(f.data) {
		return false
	}
	return true
}

// step executes at most one transition: an enabled event-less transition
// takes precedence, otherwise the first inbox event with a matching rule
// is consumed in FIFO order. Events without a matching rule stay queued.
func (f *FSM[S, D]) step(emit EmitFunc) bool {
	for i := range f.transitions {
		tr := &f.transitions[i]
		if tr.Class != "" || tr.Source != f.state {
			continue
		}
		if tr.Guard != nil && !tr.Guard(f.data) {
			continue
		}
		f.fire(tr, nil, emit)
		return true
	}
	for qi, ev := range f.inbox {
		for i := range f.transitions {
			tr := &f.transitions[i]
			if tr.Class == "" || !f.matches(tr, ev) {
				continue
			}
			f.inbox = append(f.inbox[:qi], f.inbox[qi+1:]...)
			f.fire(tr, ev, emit)
			return true
		}
	}
	return false
}

func (f *FSM[S, D]) fire(tr *Transition[S, D], ev *interop.Event, emit EmitFunc) {
	if ev != nil {
		log.Debugf("[%s] %s -> %s on %s", f.name, f.state, tr.Target, ev)
	} else {
		log.Debugf("[%s] %s -> %s (eventless)", f.name, f.state, tr.Target)
	}
	if tr.Action != nil {
		tr.Action(f.data, func(out *interop.Event) {
			f.checkEmit(out)
			emit(out)
		}, ev)
	}
	f.state = tr.Target
}
