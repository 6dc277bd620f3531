// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package recognizer implements the license plate recognition service.
// It extracts a normalized plate from raw image data on behalf of the
// entry and exit consoles.
package recognizer

import (
	"fmt"
	"regexp"

	"github.com/sorrir/demonstrator/garage/core"
	"github.com/sorrir/demonstrator/garage/interop"
)

// Event types accepted and emitted by the recognizer.
const (
	EventAnalyzeImage interop.EventType = "ANALYZE_IMAGE"
	EventReportPlate  interop.EventType = "REPORT_LICENSE_PLATE"
)

// Ports of the recognizer.
const (
	PortFromEntryConsole interop.PortName = "FROM_SEC"
	PortToEntryConsole   interop.PortName = "TO_SEC"
	PortFromExitConsole  interop.PortName = "FROM_SXC"
	PortToExitConsole    interop.PortName = "TO_SXC"
)

// AnalyzeRequest carries the raw image data to scan.
type AnalyzeRequest struct {
	ImageData string `json:"imageData"`
}

// PlateResolved carries the normalized license plate.
type PlateResolved struct {
	LicensePlate string `json:"licensePlate"`
}

// plateExp matches German-style plates such as "SO RR 1" or "SO-RR-1",
// with up to three letters, two letters and four digits.
var plateExp = regexp.MustCompile(`(\p{L}{1,3})[ -]+=?(\p{L}{1,2})[ -]*=?([0-9]{1,4})`)

// Recognize extracts a plate from raw image data, normalized to the
// "XX-YY N" form. The second return value is false when no plate was found.
func Recognize(imageData string) (string, bool) {
	m := plateExp.FindStringSubmatch(imageData)
	if m == nil {
		return "", false
	}
	return fmt.Sprintf("%s-%s %s", m[1], m[2], m[3]), true
}

func analyzeTransition(from, to interop.PortName) core.Transition[core.Singleton, struct{}] {
	return core.Transition[core.Singleton, struct{}]{
		Class: interop.Request,
		Type:  EventAnalyzeImage,
		Port:  from,
		Action: func(d *struct{}, emit core.EmitFunc, ev *interop.Event) {
			req := ev.Param.(*AnalyzeRequest)
			plate, ok := Recognize(req.ImageData)
			if !ok {
				emit(interop.NewError(EventReportPlate, to, ev.ID, "No license plate detected"))
				return
			}
			emit(interop.NewResolve(EventReportPlate, to, ev.ID, &PlateResolved{LicensePlate: plate}))
		},
	}
}

// New creates a plate recognition component.
func New(name string) (*core.FSM[core.Singleton, struct{}], error) {
	ports := []core.PortDecl{
		{Name: PortFromEntryConsole, Direction: core.In, EventTypes: []interop.EventType{EventAnalyzeImage}},
		{Name: PortToEntryConsole, Direction: core.Out, EventTypes: []interop.EventType{EventReportPlate}},
		{Name: PortFromExitConsole, Direction: core.In, EventTypes: []interop.EventType{EventAnalyzeImage}},
		{Name: PortToExitConsole, Direction: core.Out, EventTypes: []interop.EventType{EventReportPlate}},
	}
	transitions := []core.Transition[core.Singleton, struct{}]{
		analyzeTransition(PortFromEntryConsole, PortToEntryConsole),
		analyzeTransition(PortFromExitConsole, PortToExitConsole),
	}
	return core.NewFSM(name, ports, core.Singleton(""), &struct{}{}, transitions)
}
