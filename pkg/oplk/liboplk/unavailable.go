// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

//go:build !oplk

package liboplk

import (
	"github.com/foundriesio/fwupdate/pkg/oplk"
	"github.com/pkg/errors"
)

const Available = false

var ErrUnavailable = errors.New("openPOWERLINK library support is not compiled in; rebuild with -tags oplk")

func New() (oplk.Stack, error) {
	return nil, ErrUnavailable
}
