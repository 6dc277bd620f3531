// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorrir/demonstrator/garage/core"
	"github.com/sorrir/demonstrator/garage/interop"
)

func newTestDirectory(t *testing.T) (*core.Network, *core.FSM[core.Singleton, Data]) {
	acs, err := New("acs", SeedAccounts(2))
	require.NoError(t, err)
	net := core.NewNetwork()
	require.NoError(t, net.Register(acs))
	return net, acs
}

func ask(t *testing.T, net *core.Network, acs *core.FSM[core.Singleton, Data], ev *interop.Event, port interop.PortName) *interop.Event {
	require.NoError(t, net.Inject("acs", port, ev))
	net.Drain()
	out := acs.TakeOutbox()
	require.Len(t, out, 1)
	return out[0]
}

func TestSeedAccounts(t *testing.T) {
	accounts := SeedAccounts(3)
	require.Len(t, accounts, 3)
	assert.Equal(t, "sorrir1", accounts[0].AccountID)
	assert.Equal(t, []string{"SO-RR 3"}, accounts[2].LicensePlates)
}

func TestLookupByID(t *testing.T) {
	net, acs := newTestDirectory(t)

	req := interop.NewRequest(EventRequestAccountDataByID, PortFromManagement, &AccountByIDRequest{AccountID: "sorrir2"})
	answer := ask(t, net, acs, req, PortFromManagement)
	assert.Equal(t, interop.Resolve, answer.Class)
	assert.Equal(t, req.ID, answer.AnswerToRequestID)
	assert.Equal(t, PortToManagement, answer.Port)
	assert.Equal(t, "sorrir2", answer.Param.(*AccountDataResolved).AccountData.AccountID)
}

func TestLookupByIDUnknownAccount(t *testing.T) {
	net, acs := newTestDirectory(t)

	req := interop.NewRequest(EventRequestAccountDataByID, PortFromManagement, &AccountByIDRequest{AccountID: "nobody"})
	answer := ask(t, net, acs, req, PortFromManagement)
	assert.Equal(t, interop.Error, answer.Class)
	assert.Equal(t, "No matching account found.", answer.ErrorDetail)
}

func TestLookupByPlateAnswersRequestingConsole(t *testing.T) {
	net, acs := newTestDirectory(t)

	req := interop.NewRequest(EventRequestAccountDataByPlate, PortFromEntryConsole, &AccountByPlateRequest{LicensePlate: "SO-RR 1"})
	answer := ask(t, net, acs, req, PortFromEntryConsole)
	assert.Equal(t, interop.Resolve, answer.Class)
	assert.Equal(t, PortToEntryConsole, answer.Port)
	assert.Equal(t, "sorrir1", answer.Param.(*AccountDataResolved).AccountData.AccountID)

	req = interop.NewRequest(EventRequestAccountDataByPlate, PortFromExitConsole, &AccountByPlateRequest{LicensePlate: "SO-RR 2"})
	answer = ask(t, net, acs, req, PortFromExitConsole)
	assert.Equal(t, PortToExitConsole, answer.Port)
	assert.Equal(t, "sorrir2", answer.Param.(*AccountDataResolved).AccountData.AccountID)
}

func TestLookupByPlateUnknownPlate(t *testing.T) {
	net, acs := newTestDirectory(t)

	req := interop.NewRequest(EventRequestAccountDataByPlate, PortFromEntryConsole, &AccountByPlateRequest{LicensePlate: "XX-YY 999"})
	answer := ask(t, net, acs, req, PortFromEntryConsole)
	assert.Equal(t, interop.Error, answer.Class)
	assert.Equal(t, "No matching account found.", answer.ErrorDetail)
}
