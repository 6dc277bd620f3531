// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package barrier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorrir/demonstrator/garage/core"
	"github.com/sorrir/demonstrator/garage/interop"
)

func TestBarrierOpensAndCloses(t *testing.T) {
	bm, err := New("bm")
	require.NoError(t, err)
	net := core.NewNetwork()
	require.NoError(t, net.Register(bm))
	assert.Equal(t, StateClosed, bm.State())

	require.NoError(t, net.Inject("bm", PortFromConsole, interop.NewOneWay(EventOpen, PortFromConsole, nil)))
	net.Drain()
	assert.Equal(t, StateOpen, bm.State())

	// A second OPEN has no matching rule and stays queued.
	require.NoError(t, net.Inject("bm", PortFromConsole, interop.NewOneWay(EventOpen, PortFromConsole, nil)))
	net.Drain()
	assert.Equal(t, StateOpen, bm.State())
	assert.Equal(t, 1, bm.Pending())

	require.NoError(t, net.Inject("bm", PortFromConsole, interop.NewOneWay(EventClose, PortFromConsole, nil)))
	net.Drain()
	assert.Equal(t, StateClosed, bm.State())
}
