// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/sorrir/demonstrator/garage"
	"github.com/sorrir/demonstrator/garage/components/camera"
	"github.com/sorrir/demonstrator/garage/components/console"
	"github.com/sorrir/demonstrator/garage/components/frontdoor"
	"github.com/sorrir/demonstrator/garage/components/management"
	"github.com/sorrir/demonstrator/garage/components/sensor"
	"github.com/sorrir/demonstrator/garage/interop"
	"github.com/sorrir/demonstrator/garage/model"
)

// server exposes the front door and the test-driver seams over HTTP. The
// mutex keeps the one-active-transition discipline of the network intact
// under concurrent requests.
type server struct {
	mu sync.Mutex
	g  *garage.Garage
}

func newServer(g *garage.Garage) *server {
	return &server{g: g}
}

func (s *server) router() *chi.Mux {
	r := chi.NewRouter()

	r.Post("/reservations", func(w http.ResponseWriter, r *http.Request) {
		var req management.ReservationRequest
		s.frontDoorRequest(w, r, management.EventRequestReservation, &req)
	})
	r.Post("/cancellations", func(w http.ResponseWriter, r *http.Request) {
		var req management.CancellationRequest
		s.frontDoorRequest(w, r, management.EventRequestCancellation, &req)
	})
	r.Get("/internal-state", s.internalState)

	r.Post("/test/step", s.step)
	r.Post("/test/drain", s.drain)
	r.Post("/test/car-detected", s.carDetected)
	r.Post("/test/car-detection-ended", s.carDetectionEnded)
	r.Post("/test/feed-image", s.feedImage)
	r.Post("/test/onsite-reservation", s.onsiteReservation)
	r.Post("/test/sensor", s.sensorSignal)
	return r
}

type errorResponse struct {
	ErrorMessage string `json:"errorMessage"`
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, &errorResponse{ErrorMessage: msg})
}

func decode(w http.ResponseWriter, r *http.Request, into interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		badRequest(w, r, "malformed request body: "+err.Error())
		return false
	}
	return true
}

type outcomeResponse struct {
	Type        interop.EventType `json:"type"`
	Param       interface{}       `json:"param,omitempty"`
	ErrorDetail string            `json:"errorDetail,omitempty"`
}

// frontDoorRequest injects a request at the front door, drains the
// network and answers with the recorded saga outcome.
func (s *server) frontDoorRequest(w http.ResponseWriter, r *http.Request, t interop.EventType, param interface{}) {
	if !decode(w, r, param) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.g.Net.Inject(garage.NameFrontDoor, frontdoor.PortFromUser, interop.NewRequest(t, frontdoor.PortFromUser, param)); err != nil {
		badRequest(w, r, err.Error())
		return
	}
	s.g.Net.Drain()
	outcomes := s.g.FrontDoor.Data().TakeOutcomes()
	if len(outcomes) == 0 {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, &errorResponse{ErrorMessage: "saga produced no outcome"})
		return
	}
	outcome := outcomes[len(outcomes)-1]
	switch outcome.Class {
	case interop.Error:
		render.Status(r, http.StatusUnprocessableEntity)
	case interop.Resolve:
		if outcome.Type == management.EventRejectReservation || outcome.Type == management.EventRejectCancellation {
			render.Status(r, http.StatusConflict)
		}
	}
	render.JSON(w, r, &outcomeResponse{
		Type:        outcome.Type,
		Param:       outcome.Param,
		ErrorDetail: outcome.ErrorDetail,
	})
}

func (s *server) internalState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	render.JSON(w, r, s.g.Net.Describe())
}

func (s *server) step(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	render.JSON(w, r, map[string]bool{"stepped": s.g.Net.Step()})
}

func (s *server) drain(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	render.JSON(w, r, map[string]int{"steps": s.g.Net.Drain()})
}

type detectionSignal struct {
	Console   string `json:"console"`
	Timestamp string `json:"timestamp,omitempty"`
}

// consoleName maps the external console selector to a component name.
func consoleName(selector string) (string, bool) {
	switch selector {
	case "entry":
		return garage.NameEntryConsole, true
	case "exit":
		return garage.NameExitConsole, true
	}
	return "", false
}

func (s *server) carDetected(w http.ResponseWriter, r *http.Request) {
	var sig detectionSignal
	if !decode(w, r, &sig) {
		return
	}
	name, ok := consoleName(sig.Console)
	if !ok {
		badRequest(w, r, "console must be \"entry\" or \"exit\"")
		return
	}
	s.inject(w, r, name, console.PortFromSimulator,
		interop.NewOneWay(console.EventCarDetected, console.PortFromSimulator, &console.Detection{Timestamp: sig.Timestamp}))
}

func (s *server) carDetectionEnded(w http.ResponseWriter, r *http.Request) {
	var sig detectionSignal
	if !decode(w, r, &sig) {
		return
	}
	name, ok := consoleName(sig.Console)
	if !ok {
		badRequest(w, r, "console must be \"entry\" or \"exit\"")
		return
	}
	s.inject(w, r, name, console.PortFromSimulator,
		interop.NewOneWay(console.EventCarDetectionEnded, console.PortFromSimulator, nil))
}

type imageSignal struct {
	Console   string `json:"console"`
	ImageData string `json:"imageData"`
}

func (s *server) feedImage(w http.ResponseWriter, r *http.Request) {
	var sig imageSignal
	if !decode(w, r, &sig) {
		return
	}
	name := garage.NameEntryCamera
	if sig.Console == "exit" {
		name = garage.NameExitCamera
	}
	s.inject(w, r, name, camera.PortFromSimulator,
		interop.NewOneWay(camera.EventFeedImageData, camera.PortFromSimulator, &camera.ImagePayload{ImageData: sig.ImageData}))
}

// onsiteReservation plays the driver at the entry console terminal.
func (s *server) onsiteReservation(w http.ResponseWriter, r *http.Request) {
	var req management.ReservationRequest
	if !decode(w, r, &req) {
		return
	}
	s.inject(w, r, garage.NameEntryConsole, console.PortFromUser,
		interop.NewRequest(management.EventRequestReservation, console.PortFromUser, &req))
}

type sensorSignal struct {
	Location model.Location `json:"location"`
	Occupied bool           `json:"occupied"`
}

func (s *server) sensorSignal(w http.ResponseWriter, r *http.Request) {
	var sig sensorSignal
	if !decode(w, r, &sig) {
		return
	}
	t := sensor.EventSetEmpty
	if sig.Occupied {
		t = sensor.EventSetOccupied
	}
	s.inject(w, r, garage.SensorName(sig.Location), sensor.PortFromSimulator,
		interop.NewOneWay(t, sensor.PortFromSimulator, nil))
}

// inject queues an external signal without advancing the network; the
// step and drain endpoints control execution.
func (s *server) inject(w http.ResponseWriter, r *http.Request, component string, port interop.PortName, ev *interop.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.g.Net.Inject(component, port, ev); err != nil {
		badRequest(w, r, err.Error())
		return
	}
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]string{"status": "queued"})
}
