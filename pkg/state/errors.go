// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package state

import (
	"github.com/pkg/errors"
)

var (
	ErrInitFailed       = errors.New("failed to initialize openPOWERLINK")
	ErrStackInfoFailed  = errors.New("failed to get stack information")
	ErrInvalidateFailed = errors.New("failed to invalidate image")
	ErrUpdateFailed     = errors.New("failed to update image")
	ErrReconfigFailed   = errors.New("failed to execute firmware reconfiguration")

	stepErrors = []error{
		ErrInitFailed,
		ErrStackInfoFailed,
		ErrInvalidateFailed,
		ErrUpdateFailed,
		ErrReconfigFailed,
	}
)

// StepError returns the step failure err belongs to, nil if it does not
// come from one of the update states.
func StepError(err error) error {
	for _, e := range stepErrors {
		if errors.Is(err, e) {
			return e
		}
	}
	return nil
}
