// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package state

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

type Init struct{}

func (s *Init) Name() ActionName { return "Initializing" }
func (s *Init) Execute(ctx context.Context, updateCtx *UpdateContext) error {
	if err := updateCtx.Stack.Initialize(); err != nil {
		return fmt.Errorf("%w: %w", ErrInitFailed, err)
	}
	updateCtx.Initialized = true
	updateCtx.StackVersion = updateCtx.Stack.VersionString()

	info, err := updateCtx.Stack.StackInfo()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStackInfoFailed, err)
	}
	updateCtx.StackInfo = info
	updateCtx.ChunkSize = updateCtx.Stack.FileChunkSize()
	log.Debug().
		Str("version", updateCtx.StackVersion).
		Uint32("user_version", info.UserVersion).
		Uint32("kernel_version", info.KernelVersion).
		Uint32("chunk_size", updateCtx.ChunkSize).
		Msg("stack initialized")
	return nil
}
