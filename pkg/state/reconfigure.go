// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package state

import (
	"context"
	"fmt"

	"github.com/foundriesio/fwupdate/internal/events"
)

// Reconfigure reboots the card into the factory or the update image.
type Reconfigure struct {
	Factory bool
}

func (s *Reconfigure) Name() ActionName { return "Reconfiguring" }
func (s *Reconfigure) Execute(ctx context.Context, updateCtx *UpdateContext) error {
	updateCtx.Factory = s.Factory
	updateCtx.SendEvent(events.ReconfigurationStarted)
	err := updateCtx.Stack.ExecFirmwareReconfig(s.Factory)
	updateCtx.SendEvent(events.ReconfigurationCompleted, err)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReconfigFailed, err)
	}
	return nil
}
