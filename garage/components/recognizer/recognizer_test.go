// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package recognizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorrir/demonstrator/garage/core"
	"github.com/sorrir/demonstrator/garage/interop"
)

func TestRecognize(t *testing.T) {
	plate, ok := Recognize("SO RR 1")
	require.True(t, ok)
	assert.Equal(t, "SO-RR 1", plate)

	plate, ok = Recognize("ABC-DE-1234")
	require.True(t, ok)
	assert.Equal(t, "ABC-DE 1234", plate)

	// Separators are normalized away.
	plate, ok = Recognize("noise SO-RR 42 noise")
	require.True(t, ok)
	assert.Equal(t, "SO-RR 42", plate)

	_, ok = Recognize("just some pixels")
	assert.False(t, ok)
	_, ok = Recognize("")
	assert.False(t, ok)
}

func TestAnalyzeImageContract(t *testing.T) {
	prs, err := New("prs")
	require.NoError(t, err)
	net := core.NewNetwork()
	require.NoError(t, net.Register(prs))

	req := interop.NewRequest(EventAnalyzeImage, PortFromEntryConsole, &AnalyzeRequest{ImageData: "SO RR 1"})
	require.NoError(t, net.Inject("prs", PortFromEntryConsole, req))
	net.Drain()

	out := prs.TakeOutbox()
	require.Len(t, out, 1)
	assert.Equal(t, interop.Resolve, out[0].Class)
	assert.Equal(t, EventReportPlate, out[0].Type)
	assert.Equal(t, PortToEntryConsole, out[0].Port)
	assert.Equal(t, req.ID, out[0].AnswerToRequestID)
	assert.Equal(t, "SO-RR 1", out[0].Param.(*PlateResolved).LicensePlate)

	// Unreadable images error on the exit port pair as well.
	req = interop.NewRequest(EventAnalyzeImage, PortFromExitConsole, &AnalyzeRequest{ImageData: "???"})
	require.NoError(t, net.Inject("prs", PortFromExitConsole, req))
	net.Drain()
	out = prs.TakeOutbox()
	require.Len(t, out, 1)
	assert.Equal(t, interop.Error, out[0].Class)
	assert.Equal(t, PortToExitConsole, out[0].Port)
	assert.Equal(t, "No license plate detected", out[0].ErrorDetail)
}
