// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package state

import (
	"context"
	"fmt"

	"github.com/foundriesio/fwupdate/internal/events"
	"github.com/foundriesio/fwupdate/pkg/oplk"
	"github.com/foundriesio/fwupdate/pkg/transfer"
)

// Invalidate erases the header of the staged update image.
type Invalidate struct{}

func (s *Invalidate) Name() ActionName { return "Invalidating" }
func (s *Invalidate) Execute(ctx context.Context, updateCtx *UpdateContext) error {
	updateCtx.SendEvent(events.InvalidationStarted)
	err := transfer.InvalidateImage(updateCtx.Stack, updateCtx.progress(s.Name(), oplk.FirmwareHeaderSize))
	updateCtx.SendEvent(events.InvalidationCompleted, err)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidateFailed, err)
	}
	return nil
}
