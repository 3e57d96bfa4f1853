// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/foundriesio/fwupdate/internal/events"
	"github.com/foundriesio/fwupdate/pkg/oplk"
	"github.com/foundriesio/fwupdate/pkg/transfer"
	"github.com/rs/zerolog/log"
)

type (
	// ActionName Name of the state action
	ActionName string
	// ActionState interface for all states
	ActionState interface {
		Name() ActionName
		Execute(ctx context.Context, updateCtx *UpdateContext) error
	}

	// ProgressFactory returns the progress callback for one image transfer of
	// the given state, nil to transfer silently.
	ProgressFactory func(state ActionName, totalBytes int) transfer.ProgressFunc

	UpdateInfo struct {
		TotalStates     int
		CurrentStateNum int
		CurrentState    ActionName
		CorrelationId   string
		StackVersion    string
		StackInfo       oplk.StackInfo
		ChunkSize       uint32
		ImagePath       string
		ImageSize       int
		Factory         bool
		Initialized     bool
		StartedAt       time.Time
	}

	// UpdateContext holds the state machine context
	UpdateContext struct {
		UpdateInfo

		Stack    oplk.Stack
		Events   *events.Recorder
		Progress ProgressFactory
	}
)

func (u *UpdateContext) progress(state ActionName, totalBytes int) transfer.ProgressFunc {
	if u.Progress == nil {
		return nil
	}
	return u.Progress(state, totalBytes)
}

func (u *UpdateContext) SendEvent(event events.EventTypeValue, eventErr ...error) {
	var success *bool
	var eventError error
	if len(eventErr) > 0 {
		success = events.BoolPointer(eventErr[0] == nil)
		eventError = eventErr[0]
	}
	u.Events.Record(event, u.ImagePath, u.getEventDetails(event, eventError), success)
}

func (u *UpdateContext) getEventDetails(eventType events.EventTypeValue, eventError error) string {
	type (
		transferDetails struct {
			Bytes     int    `json:"bytes"`
			ChunkSize uint32 `json:"chunk_size"`
			Error     string `json:"error,omitempty"`
			Code      string `json:"code,omitempty"`
		}
		reconfigDetails struct {
			Image string `json:"image"`
			Error string `json:"error,omitempty"`
			Code  string `json:"code,omitempty"`
		}
	)
	var details any
	var errStr, codeStr string
	if eventError != nil {
		errStr = eventError.Error()
		codeStr = fmt.Sprintf("0x%X", uint32(oplk.Code(eventError)))
	}
	switch eventType {
	case events.DownloadStarted, events.DownloadCompleted:
		details = transferDetails{Bytes: u.ImageSize, ChunkSize: u.ChunkSize, Error: errStr, Code: codeStr}
	case events.InvalidationStarted, events.InvalidationCompleted:
		details = transferDetails{Bytes: oplk.FirmwareHeaderSize, ChunkSize: u.ChunkSize, Error: errStr, Code: codeStr}
	case events.ReconfigurationStarted, events.ReconfigurationCompleted:
		details = reconfigDetails{Image: ReconfigTarget(u.Factory), Error: errStr, Code: codeStr}
	default:
		return ""
	}
	detailsByte, err := json.Marshal(details)
	if err != nil {
		log.Err(err).Msg("failed to marshal event details")
		return ""
	}
	return string(detailsByte)
}

// ReconfigTarget names the image a reconfiguration boots.
func ReconfigTarget(factory bool) string {
	if factory {
		return "FACTORY"
	}
	return "UPDATE"
}
