// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package statejson

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsJSON(t *testing.T) {
	desc := &Description{
		Components: []ComponentDescription{
			{Name: "pms", State: "IDLE", PendingEvents: 2},
			{Name: "prs"},
		},
	}
	expected := `{"components":[{"name":"pms","state":"IDLE","pendingEvents":2,"unroutedEvents":0},{"name":"prs","pendingEvents":0,"unroutedEvents":0}]}`
	assert.Equal(t, expected, string(desc.AsJSON()))
}
