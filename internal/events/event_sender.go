// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package events

import (
	"time"

	"github.com/foundriesio/fwupdate/internal/hostinfo"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type EventTypeValue string

const (
	InvalidationStarted      EventTypeValue = "ImageInvalidationStarted"
	InvalidationCompleted    EventTypeValue = "ImageInvalidationCompleted"
	DownloadStarted          EventTypeValue = "ImageDownloadStarted"
	DownloadCompleted        EventTypeValue = "ImageDownloadCompleted"
	ReconfigurationStarted   EventTypeValue = "FirmwareReconfigurationStarted"
	ReconfigurationCompleted EventTypeValue = "FirmwareReconfigurationCompleted"
)

type (
	Event struct {
		CorrelationId string `json:"correlationId"`
		Success       *bool  `json:"success,omitempty"`
		Image         string `json:"image,omitempty"`
		Host          string `json:"host,omitempty"`
		Hostname      string `json:"hostname,omitempty"`
		OSVersion     string `json:"osVersion,omitempty"`
		Details       string `json:"details,omitempty"`
	}
	EventType struct {
		Id      EventTypeValue `json:"id"`
		Version int            `json:"version"`
	}
	UpdateEvent struct {
		Id         string    `json:"id"`
		DeviceTime string    `json:"deviceTime"`
		Event      Event     `json:"event"`
		EventType  EventType `json:"eventType"`
	}

	// Recorder stores the events of one tool invocation under a common
	// correlation id. A Recorder without a database path drops all events.
	Recorder struct {
		dbFilePath    string
		correlationId string
		host          hostinfo.HostInfo
	}
)

func NewEvent(eventType EventTypeValue, details string, success *bool, correlationId string, image string) UpdateEvent {
	return UpdateEvent{
		Id:         uuid.New().String(),
		DeviceTime: time.Now().Format(time.RFC3339),
		Event: Event{
			CorrelationId: correlationId,
			Success:       success,
			Image:         image,
			Details:       details,
		},
		EventType: EventType{
			Id:      eventType,
			Version: 0,
		},
	}
}

func NewRecorder(dbFilePath string, correlationId string, host hostinfo.HostInfo) *Recorder {
	return &Recorder{
		dbFilePath:    dbFilePath,
		correlationId: correlationId,
		host:          host,
	}
}

// Record saves an event. Failing to store it is logged and otherwise ignored,
// the update itself goes on.
func (r *Recorder) Record(eventType EventTypeValue, image string, details string, success *bool) {
	if r == nil || r.dbFilePath == "" {
		return
	}
	evt := NewEvent(eventType, details, success, r.correlationId, image)
	evt.Event.Host = r.host.OS
	evt.Event.Hostname = r.host.Hostname
	evt.Event.OSVersion = r.host.Version
	if err := SaveEvent(r.dbFilePath, &evt); err != nil {
		log.Err(err).Str("event", string(eventType)).Msg("failed to save event")
		return
	}
	log.Debug().Str("event", string(eventType)).Str("correlation_id", r.correlationId).Msg("event saved")
}

func BoolPointer(b bool) *bool {
	return &b
}
