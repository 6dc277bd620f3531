// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorrir/demonstrator/garage/core"
	"github.com/sorrir/demonstrator/garage/interop"
	"github.com/sorrir/demonstrator/garage/model"
)

func newTestSensor(t *testing.T) (*core.Network, *core.FSM[State, Data]) {
	pss, err := New("pss", model.Location{Column: 1, Row: 2, Level: 0})
	require.NoError(t, err)
	net := core.NewNetwork()
	require.NoError(t, net.Register(pss))
	return net, pss
}

func TestOccupancyFlipEchoesReport(t *testing.T) {
	net, pss := newTestSensor(t)

	require.NoError(t, net.Inject("pss", PortFromSimulator, interop.NewOneWay(EventSetOccupied, PortFromSimulator, nil)))
	net.Drain()
	require.Equal(t, StateOccupied, pss.State())

	out := pss.TakeOutbox()
	require.Len(t, out, 1)
	assert.Equal(t, interop.OneWay, out[0].Class)
	assert.Equal(t, EventReportStatus, out[0].Type)
	report := out[0].Param.(*StatusReport)
	assert.Equal(t, model.Location{Column: 1, Row: 2, Level: 0}, report.Location)
	assert.True(t, report.IsOccupied)
}

func TestRedundantFlipIsSilent(t *testing.T) {
	net, pss := newTestSensor(t)

	require.NoError(t, net.Inject("pss", PortFromSimulator, interop.NewOneWay(EventSetEmpty, PortFromSimulator, nil)))
	net.Drain()
	assert.Equal(t, StateEmpty, pss.State())
	assert.Empty(t, pss.Outbox())
	assert.Equal(t, 0, pss.Pending())
}

func TestStatusRequestResolvesCurrentState(t *testing.T) {
	net, pss := newTestSensor(t)

	req := interop.NewRequest(EventRequestStatus, PortFromManagement, nil)
	require.NoError(t, net.Inject("pss", PortFromManagement, req))
	net.Drain()

	out := pss.TakeOutbox()
	require.Len(t, out, 1)
	assert.Equal(t, interop.Resolve, out[0].Class)
	assert.Equal(t, req.ID, out[0].AnswerToRequestID)
	assert.False(t, out[0].Param.(*StatusReport).IsOccupied)
}
