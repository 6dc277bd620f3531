// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package payment implements the external payment service provider. The
// emulated provider charges every request successfully and echoes the
// amount back.
package payment

import (
	"github.com/sorrir/demonstrator/garage/core"
	"github.com/sorrir/demonstrator/garage/interop"
)

// Event types accepted and emitted by the provider.
const (
	EventRequestPayment interop.EventType = "REQUEST_PAYMENT"
	EventResolvePayment interop.EventType = "RESOLVE_PAYMENT"
	EventRejectPayment  interop.EventType = "REJECT_PAYMENT"
)

// Ports of the provider.
const (
	PortFromManagement interop.PortName = "FROM_PMS"
	PortToManagement   interop.PortName = "TO_PMS"
)

// ChargeRequest asks the provider to charge the given billing target.
type ChargeRequest struct {
	BillingInfo string `json:"billingInfo"`
	Amount      int    `json:"amount"`
}

// ChargeResult confirms the charged amount.
type ChargeResult struct {
	Amount int `json:"amount"`
}

// New creates a payment service provider component.
func New(name string) (*core.FSM[core.Singleton, struct{}], error) {
	ports := []core.PortDecl{
		{Name: PortFromManagement, Direction: core.In, EventTypes: []interop.EventType{EventRequestPayment}},
		{Name: PortToManagement, Direction: core.Out, EventTypes: []interop.EventType{EventResolvePayment, EventRejectPayment}},
	}
	transitions := []core.Transition[core.Singleton, struct{}]{
		{
			Class: interop.Request,
			Type:  EventRequestPayment,
			Port:  PortFromManagement,
			Action: func(d *struct{}, emit core.EmitFunc, ev *interop.Event) {
				req := ev.Param.(*ChargeRequest)
				emit(interop.NewResolve(EventResolvePayment, PortToManagement, ev.ID, &ChargeResult{Amount: req.Amount}))
			},
		},
	}
	return core.NewFSM(name, ports, core.Singleton(""), &struct{}{}, transitions)
}
