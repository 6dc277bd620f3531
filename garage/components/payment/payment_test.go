// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorrir/demonstrator/garage/core"
	"github.com/sorrir/demonstrator/garage/interop"
)

func TestChargeAlwaysResolvesWithRequestedAmount(t *testing.T) {
	psp, err := New("psp")
	require.NoError(t, err)
	net := core.NewNetwork()
	require.NoError(t, net.Register(psp))

	req := interop.NewRequest(EventRequestPayment, PortFromManagement, &ChargeRequest{BillingInfo: "token", Amount: 1})
	require.NoError(t, net.Inject("psp", PortFromManagement, req))
	net.Drain()

	out := psp.TakeOutbox()
	require.Len(t, out, 1)
	assert.Equal(t, interop.Resolve, out[0].Class)
	assert.Equal(t, EventResolvePayment, out[0].Type)
	assert.Equal(t, req.ID, out[0].AnswerToRequestID)
	assert.Equal(t, 1, out[0].Param.(*ChargeResult).Amount)
}
