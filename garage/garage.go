// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package garage assembles the full parking garage: every component
// instantiated, registered and wired into one discrete-event network.
package garage

import (
	"fmt"

	"github.com/sorrir/demonstrator/garage/components/barrier"
	"github.com/sorrir/demonstrator/garage/components/camera"
	"github.com/sorrir/demonstrator/garage/components/console"
	"github.com/sorrir/demonstrator/garage/components/directory"
	"github.com/sorrir/demonstrator/garage/components/frontdoor"
	"github.com/sorrir/demonstrator/garage/components/management"
	"github.com/sorrir/demonstrator/garage/components/payment"
	"github.com/sorrir/demonstrator/garage/components/recognizer"
	"github.com/sorrir/demonstrator/garage/components/sensor"
	"github.com/sorrir/demonstrator/garage/core"
	"github.com/sorrir/demonstrator/garage/interop"
	"github.com/sorrir/demonstrator/garage/model"
)

// Component names inside the assembled network.
const (
	NameManagement   = "pms"
	NameEntryConsole = "sec"
	NameExitConsole  = "sxc"
	NameDirectory    = "acs"
	NameFrontDoor    = "ws"
	NameRecognizer   = "prs"
	NameProvider     = "psp"
	NameEntryCamera  = "sec-cm"
	NameExitCamera   = "sxc-cm"
	NameEntryBarrier = "sec-bm"
	NameExitBarrier  = "sxc-bm"
)

// SensorName returns the component name of the sensor at the given location.
func SensorName(loc model.Location) string {
	return fmt.Sprintf("pss-%d-%d-%d", loc.Column, loc.Row, loc.Level)
}

// Config describes the garage to assemble.
type Config struct {
	GridSize            model.GridSize
	AccessibilitySpaces int
	EChargingSpaces     int
	CombinedSpaces      int
	Accounts            []model.AccountData
}

// Garage is the assembled network together with typed handles on the
// components tests and the HTTP layer need to reach.
type Garage struct {
	Net *core.Network

	Management   *core.FSM[management.State, management.Data]
	EntryConsole *core.FSM[console.State, console.Data]
	ExitConsole  *core.FSM[console.State, console.Data]
	Directory    *core.FSM[core.Singleton, directory.Data]
	FrontDoor    *core.FSM[core.Singleton, frontdoor.Data]
	Recognizer   *core.FSM[core.Singleton, struct{}]
	Provider     *core.FSM[core.Singleton, struct{}]
	EntryCamera  *core.FSM[camera.State, camera.Data]
	ExitCamera   *core.FSM[camera.State, camera.Data]
	EntryBarrier *core.FSM[barrier.State, struct{}]
	ExitBarrier  *core.FSM[barrier.State, struct{}]
	Sensors      []*core.FSM[sensor.State, sensor.Data]
}

// wiring accumulates registration and connection errors so the assembly
// below reads as a flat wiring table.
type wiring struct {
	net *core.Network
	err error
}

func (w *wiring) register(c core.Component) {
	if w.err == nil {
		w.err = w.net.Register(c)
	}
}

func (w *wiring) connect(src string, srcPort interop.PortName, dst string, dstPort interop.PortName) {
	if w.err == nil {
		w.err = w.net.Connect(src, srcPort, dst, dstPort)
	}
}

// Build assembles and wires a garage from the configuration.
func Build(cfg Config) (*Garage, error) {
	grid, err := model.NewGrid(cfg.GridSize, cfg.AccessibilitySpaces, cfg.EChargingSpaces, cfg.CombinedSpaces)
	if err != nil {
		return nil, err
	}

	g := &Garage{Net: core.NewNetwork()}
	if g.Management, err = management.New(NameManagement, grid); err != nil {
		return nil, err
	}
	if g.EntryConsole, err = console.NewEntry(NameEntryConsole); err != nil {
		return nil, err
	}
	if g.ExitConsole, err = console.NewExit(NameExitConsole); err != nil {
		return nil, err
	}
	if g.Directory, err = directory.New(NameDirectory, cfg.Accounts); err != nil {
		return nil, err
	}
	if g.FrontDoor, err = frontdoor.New(NameFrontDoor); err != nil {
		return nil, err
	}
	if g.Recognizer, err = recognizer.New(NameRecognizer); err != nil {
		return nil, err
	}
	if g.Provider, err = payment.New(NameProvider); err != nil {
		return nil, err
	}
	if g.EntryCamera, err = camera.New(NameEntryCamera); err != nil {
		return nil, err
	}
	if g.ExitCamera, err = camera.New(NameExitCamera); err != nil {
		return nil, err
	}
	if g.EntryBarrier, err = barrier.New(NameEntryBarrier); err != nil {
		return nil, err
	}
	if g.ExitBarrier, err = barrier.New(NameExitBarrier); err != nil {
		return nil, err
	}
	total := cfg.GridSize.Rows * cfg.GridSize.Columns * cfg.GridSize.Levels
	for i := 0; i < total; i++ {
		loc := grid.LocationAt(i)
		s, err := sensor.New(SensorName(loc), loc)
		if err != nil {
			return nil, err
		}
		g.Sensors = append(g.Sensors, s)
	}

	w := &wiring{net: g.Net}
	w.register(g.Management)
	w.register(g.EntryConsole)
	w.register(g.ExitConsole)
	w.register(g.Directory)
	w.register(g.FrontDoor)
	w.register(g.Recognizer)
	w.register(g.Provider)
	w.register(g.EntryCamera)
	w.register(g.ExitCamera)
	w.register(g.EntryBarrier)
	w.register(g.ExitBarrier)
	for _, s := range g.Sensors {
		w.register(s)
	}

	// Front door <-> management service.
	w.connect(NameFrontDoor, frontdoor.PortToManagement, NameManagement, management.PortFromFrontDoor)
	w.connect(NameManagement, management.PortToFrontDoor, NameFrontDoor, frontdoor.PortFromManagement)

	// Entry console and its peripherals.
	w.connect(NameEntryConsole, console.PortToCamera, NameEntryCamera, camera.PortFromConsole)
	w.connect(NameEntryCamera, camera.PortToConsole, NameEntryConsole, console.PortFromCamera)
	w.connect(NameEntryConsole, console.PortToBarrier, NameEntryBarrier, barrier.PortFromConsole)
	w.connect(NameEntryConsole, console.PortToRecognizer, NameRecognizer, recognizer.PortFromEntryConsole)
	w.connect(NameRecognizer, recognizer.PortToEntryConsole, NameEntryConsole, console.PortFromRecognizer)
	w.connect(NameEntryConsole, console.PortToDirectory, NameDirectory, directory.PortFromEntryConsole)
	w.connect(NameDirectory, directory.PortToEntryConsole, NameEntryConsole, console.PortFromDirectory)
	w.connect(NameEntryConsole, console.PortToManagement, NameManagement, management.PortFromEntryConsole)
	w.connect(NameManagement, management.PortToEntryConsole, NameEntryConsole, console.PortFromManagement)

	// Exit console and its peripherals.
	w.connect(NameExitConsole, console.PortToCamera, NameExitCamera, camera.PortFromConsole)
	w.connect(NameExitCamera, camera.PortToConsole, NameExitConsole, console.PortFromCamera)
	w.connect(NameExitConsole, console.PortToBarrier, NameExitBarrier, barrier.PortFromConsole)
	w.connect(NameExitConsole, console.PortToRecognizer, NameRecognizer, recognizer.PortFromExitConsole)
	w.connect(NameRecognizer, recognizer.PortToExitConsole, NameExitConsole, console.PortFromRecognizer)
	w.connect(NameExitConsole, console.PortToDirectory, NameDirectory, directory.PortFromExitConsole)
	w.connect(NameDirectory, directory.PortToExitConsole, NameExitConsole, console.PortFromDirectory)
	w.connect(NameExitConsole, console.PortToManagement, NameManagement, management.PortFromExitConsole)
	w.connect(NameManagement, management.PortToExitConsole, NameExitConsole, console.PortFromManagement)

	// Management service <-> directory and payment provider.
	w.connect(NameManagement, management.PortToDirectory, NameDirectory, directory.PortFromManagement)
	w.connect(NameDirectory, directory.PortToManagement, NameManagement, management.PortFromDirectory)
	w.connect(NameManagement, management.PortToProvider, NameProvider, payment.PortFromManagement)
	w.connect(NameProvider, payment.PortToManagement, NameManagement, management.PortFromProvider)

	// Every sensor reports into the same management port.
	for _, s := range g.Sensors {
		w.connect(s.Name(), sensor.PortToManagement, NameManagement, management.PortFromSensors)
	}

	if w.err != nil {
		return nil, w.err
	}
	return g, nil
}
