// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package directory implements the account directory: the lookup service
// that resolves account records by id or by registered license plate.
// Account data is owned here and read-only to every other component.
package directory

import (
	"fmt"

	"github.com/sorrir/demonstrator/garage/core"
	"github.com/sorrir/demonstrator/garage/interop"
	"github.com/sorrir/demonstrator/garage/model"
)

// Event types accepted and emitted by the directory.
const (
	EventRequestAccountDataByID     interop.EventType = "REQUEST_ACCOUNT_DATA_BY_ID"
	EventRequestAccountDataByPlate  interop.EventType = "REQUEST_ACCOUNT_DATA_BY_LICENSE_PLATE"
	EventAnswerToAccountDataRequest interop.EventType = "ANSWER_TO_ACCOUNT_DATA_REQUEST"
)

// Ports of the directory.
const (
	PortFromManagement   interop.PortName = "FROM_PMS"
	PortToManagement     interop.PortName = "TO_PMS"
	PortFromEntryConsole interop.PortName = "FROM_SEC"
	PortToEntryConsole   interop.PortName = "TO_SEC"
	PortFromExitConsole  interop.PortName = "FROM_SXC"
	PortToExitConsole    interop.PortName = "TO_SXC"
)

// AccountByIDRequest asks for the account with the given id.
type AccountByIDRequest struct {
	AccountID string `json:"accountID"`
}

// AccountByPlateRequest asks for the account registering the given plate.
type AccountByPlateRequest struct {
	LicensePlate string `json:"licensePlate"`
}

// AccountDataResolved carries the resolved account record.
type AccountDataResolved struct {
	AccountData model.AccountData `json:"accountData"`
}

// Data holds the account records in insertion order so plate lookups are
// deterministic.
type Data struct {
	accounts []model.AccountData
}

func (d *Data) byID(id string) *model.AccountData {
	for i := range d.accounts {
		if d.accounts[i].AccountID == id {
			return &d.accounts[i]
		}
	}
	return nil
}

func (d *Data) byPlate(plate string) *model.AccountData {
	for i := range d.accounts {
		if d.accounts[i].HasPlate(plate) {
			return &d.accounts[i]
		}
	}
	return nil
}

// SeedAccounts generates n demo accounts sorrir1..sorrirN with license
// plates "SO-RR 1".."SO-RR N" and empty preferences.
func SeedAccounts(n int) []model.AccountData {
	accounts := make([]model.AccountData, 0, n)
	for i := 1; i <= n; i++ {
		accounts = append(accounts, model.AccountData{
			AccountID:     fmt.Sprintf("sorrir%d", i),
			BillingInfo:   "",
			LicensePlates: []string{fmt.Sprintf("SO-RR %d", i)},
		})
	}
	return accounts
}

// answer resolves the request with the account data, or errors when no
// account matched.
func answer(emit core.EmitFunc, account *model.AccountData, answerTo string, port interop.PortName) {
	if account != nil {
		emit(interop.NewResolve(EventAnswerToAccountDataRequest, port, answerTo, &AccountDataResolved{AccountData: *account}))
		return
	}
	emit(interop.NewError(EventAnswerToAccountDataRequest, port, answerTo, "No matching account found."))
}

// byPlateTransition serves plate lookups arriving on the given port pair.
func byPlateTransition(from, to interop.PortName) core.Transition[core.Singleton, Data] {
	return core.Transition[core.Singleton, Data]{
		Class: interop.Request,
		Type:  EventRequestAccountDataByPlate,
		Port:  from,
		Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
			req := ev.Param.(*AccountByPlateRequest)
			answer(emit, d.byPlate(req.LicensePlate), ev.ID, to)
		},
	}
}

// New creates a directory component serving the given accounts.
func New(name string, accounts []model.AccountData) (*core.FSM[core.Singleton, Data], error) {
	ports := []core.PortDecl{
		{Name: PortFromManagement, Direction: core.In, EventTypes: []interop.EventType{EventRequestAccountDataByID}},
		{Name: PortToManagement, Direction: core.Out, EventTypes: []interop.EventType{EventAnswerToAccountDataRequest}},
		{Name: PortFromEntryConsole, Direction: core.In, EventTypes: []interop.EventType{EventRequestAccountDataByPlate}},
		{Name: PortToEntryConsole, Direction: core.Out, EventTypes: []interop.EventType{EventAnswerToAccountDataRequest}},
		{Name: PortFromExitConsole, Direction: core.In, EventTypes: []interop.EventType{EventRequestAccountDataByPlate}},
		{Name: PortToExitConsole, Direction: core.Out, EventTypes: []interop.EventType{EventAnswerToAccountDataRequest}},
	}
	transitions := []core.Transition[core.Singleton, Data]{
		{
			Class: interop.Request,
			Type:  EventRequestAccountDataByID,
			Port:  PortFromManagement,
			Action: func(d *Data, emit core.EmitFunc, ev *interop.Event) {
				req := ev.Param.(*AccountByIDRequest)
				answer(emit, d.byID(req.AccountID), ev.ID, PortToManagement)
			},
		},
		byPlateTransition(PortFromEntryConsole, PortToEntryConsole),
		byPlateTransition(PortFromExitConsole, PortToExitConsole),
	}
	return core.NewFSM(name, ports, core.Singleton(""), &Data{accounts: accounts}, transitions)
}
