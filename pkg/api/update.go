// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package api

import (
	"context"

	"github.com/foundriesio/fwupdate/pkg/config"
	"github.com/foundriesio/fwupdate/pkg/oplk"
	"github.com/foundriesio/fwupdate/pkg/state"
)

type (
	// Options selects the steps of an update run.
	Options struct {
		FirmwareFile    string
		UpdateImage     bool
		InvalidateImage bool
		FactoryReset    bool
		UpdateReset     bool
	}
)

func WithPreStateHandler(handler PreStateHandler) UpdateRunnerOpt {
	return func(o *UpdateRunnerOpts) {
		o.PreStateHandler = handler
	}
}

func WithPostStateHandler(handler PostStateHandler) UpdateRunnerOpt {
	return func(o *UpdateRunnerOpts) {
		o.PostStateHandler = handler
	}
}

func WithProgress(progress state.ProgressFactory) UpdateRunnerOpt {
	return func(o *UpdateRunnerOpts) {
		o.Progress = progress
	}
}

// States returns the update states selected by opts, in execution order.
func (opts Options) States() []state.ActionState {
	states := []state.ActionState{&state.Init{}}
	if opts.InvalidateImage {
		states = append(states, &state.Invalidate{})
	}
	if opts.UpdateImage {
		states = append(states, &state.Download{File: opts.FirmwareFile})
	}
	if opts.FactoryReset || opts.UpdateReset {
		states = append(states, &state.Reconfigure{Factory: opts.FactoryReset})
	}
	return states
}

// Update initializes the stack and runs the steps opts selects.
func Update(ctx context.Context, cfg *config.Config, stack oplk.Stack, opts Options, options ...UpdateRunnerOpt) (UpdateInfo, error) {
	runner := newUpdateRunner(stack, opts.States(), options...)
	runner.ctx.ImagePath = opts.FirmwareFile
	runner.ctx.Factory = opts.FactoryReset
	err := runner.Run(ctx, cfg)
	return runner.Info(), err
}

// Info initializes the stack and reports its version information.
func Info(ctx context.Context, cfg *config.Config, stack oplk.Stack, options ...UpdateRunnerOpt) (UpdateInfo, error) {
	runner := newUpdateRunner(stack, []state.ActionState{&state.Init{}}, options...)
	err := runner.Run(ctx, cfg)
	return runner.Info(), err
}
