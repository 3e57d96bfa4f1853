// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package api

import (
	"context"
	"fmt"
	"time"

	"github.com/foundriesio/fwupdate/internal/db"
	"github.com/foundriesio/fwupdate/internal/events"
	"github.com/foundriesio/fwupdate/internal/hostinfo"
	"github.com/foundriesio/fwupdate/pkg/config"
	"github.com/foundriesio/fwupdate/pkg/oplk"
	"github.com/foundriesio/fwupdate/pkg/state"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
)

type (
	// UpdateRunner runs the firmware update states
	UpdateRunner struct {
		opts   *UpdateRunnerOpts
		ctx    *state.UpdateContext
		states []state.ActionState
	}
	UpdateRunnerOpts struct {
		PreStateHandler  PreStateHandler
		PostStateHandler PostStateHandler
		Progress         state.ProgressFactory
	}
	UpdateRunnerOpt func(*UpdateRunnerOpts)

	StateName        = state.ActionName
	UpdateInfo       = state.UpdateInfo
	PreStateHandler  func(state StateName, u *UpdateInfo)
	PostStateHandler func(state StateName, u *UpdateInfo)
)

func newUpdateRunner(stack oplk.Stack, states []state.ActionState, options ...UpdateRunnerOpt) *UpdateRunner {
	opts := &UpdateRunnerOpts{}
	for _, o := range options {
		o(opts)
	}
	return &UpdateRunner{
		opts: opts,
		ctx: &state.UpdateContext{
			Stack:    stack,
			Progress: opts.Progress,
		},
		states: states,
	}
}

// Run executes the states in order and stops at the first failing one. The
// stack is shut down on every path once it was initialized.
func (sm *UpdateRunner) Run(ctx context.Context, cfg *config.Config) error {
	sm.ctx.CorrelationId = ulid.Make().String()
	sm.ctx.StartedAt = time.Now()
	sm.ctx.TotalStates = len(sm.states)
	sm.ctx.Events = newRecorder(cfg, sm.ctx.CorrelationId)

	defer func() {
		if !sm.ctx.Initialized {
			return
		}
		if exitErr := sm.ctx.Stack.Exit(); exitErr != nil {
			log.Err(exitErr).Msg("failed to shut down the stack")
		}
		sm.ctx.Initialized = false
	}()

	for i, s := range sm.states {
		sm.ctx.CurrentState = s.Name()
		sm.ctx.CurrentStateNum = i + 1
		if sm.opts.PreStateHandler != nil {
			sm.opts.PreStateHandler(s.Name(), &sm.ctx.UpdateInfo)
		}
		if err := s.Execute(ctx, sm.ctx); err != nil {
			return fmt.Errorf("failed at state %s: %w", s.Name(), err)
		}
		if sm.opts.PostStateHandler != nil {
			sm.opts.PostStateHandler(s.Name(), &sm.ctx.UpdateInfo)
		}
	}
	log.Debug().Str("correlation_id", sm.ctx.CorrelationId).Dur("elapsed", time.Since(sm.ctx.StartedAt)).Msg("update runner finished")
	return nil
}

// Info returns what the runner learned about the stack and the image.
func (sm *UpdateRunner) Info() UpdateInfo {
	return sm.ctx.UpdateInfo
}

func newRecorder(cfg *config.Config, correlationId string) *events.Recorder {
	if !cfg.IsHistoryEnabled() {
		return nil
	}
	dbPath := cfg.GetDBPath()
	if err := db.InitializeDatabase(dbPath); err != nil {
		log.Warn().Err(err).Str("db", dbPath).Msg("update history is not recorded")
		return nil
	}
	return events.NewRecorder(dbPath, correlationId, hostinfo.Get(cfg.GetOSReleasePath()))
}
