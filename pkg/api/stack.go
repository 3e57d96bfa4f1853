// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package api

import (
	"fmt"

	"github.com/foundriesio/fwupdate/pkg/config"
	"github.com/foundriesio/fwupdate/pkg/oplk"
	"github.com/foundriesio/fwupdate/pkg/oplk/emu"
	"github.com/foundriesio/fwupdate/pkg/oplk/liboplk"
)

// NewStack creates the stack backend selected by the configuration. A
// non-empty backend overrides the configured one.
func NewStack(cfg *config.Config, backend string) (oplk.Stack, error) {
	if backend == "" {
		backend = cfg.GetStackBackend()
	}
	switch backend {
	case config.BackendEmulator:
		d, err := emu.New(cfg.GetEmulatorPath(), emu.WithChunkSize(cfg.GetEmulatorChunkSize()))
		if err != nil {
			return nil, err
		}
		return d, nil
	case config.BackendOplk:
		return liboplk.New()
	default:
		return nil, fmt.Errorf("unknown stack backend %q (must be %s or %s)",
			backend, config.BackendEmulator, config.BackendOplk)
	}
}
