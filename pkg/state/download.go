// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package state

import (
	"context"
	"fmt"

	"github.com/foundriesio/fwupdate/internal/events"
	"github.com/foundriesio/fwupdate/pkg/transfer"
	"github.com/rs/zerolog/log"
)

// Download reads the firmware file and stages it on the card.
type Download struct {
	File string
}

func (s *Download) Name() ActionName { return "Downloading" }
func (s *Download) Execute(ctx context.Context, updateCtx *UpdateContext) error {
	updateCtx.ImagePath = s.File
	image, err := transfer.LoadImage(s.File)
	if err != nil {
		updateCtx.SendEvent(events.DownloadCompleted, err)
		return fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}
	updateCtx.ImageSize = len(image)
	log.Debug().Str("file", s.File).Int("bytes", len(image)).Msg("image loaded")

	updateCtx.SendEvent(events.DownloadStarted)
	err = transfer.WriteImage(updateCtx.Stack, image, updateCtx.progress(s.Name(), len(image)))
	updateCtx.SendEvent(events.DownloadCompleted, err)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}
	return nil
}
