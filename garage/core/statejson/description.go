// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package statejson

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"
)

// ComponentDescription ...
type ComponentDescription struct {
	Name           string `json:"name"`
	State          string `json:"state,omitempty"`
	PendingEvents  int    `json:"pendingEvents"`
	UnroutedEvents int    `json:"unroutedEvents"`
}

// Description describes the state of every component in the network for
// debugging purposes.
type Description struct {
	Components []ComponentDescription `json:"components"`
}

func (d *Description) AsJSON() []byte {
	bytes, err := json.Marshal(d)
	if err != nil {
		log.Panicf("Failed to marshall network state: %s", err)
	}
	return bytes
}
