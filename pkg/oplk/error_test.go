// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package oplk

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	require.Equal(t, ErrorOk, Code(nil))
	require.Equal(t, ErrorNoResource, Code(ErrorNoResource))
	require.Equal(t, ErrorNoResource, Code(fmt.Errorf("writing chunk: %w", ErrorNoResource)))
	require.Equal(t, ErrorShutdown, Code(errors.Wrap(ErrorShutdown, "initialize")))
	require.Equal(t, ErrorGeneralError, Code(errors.New("plain")))
}

func TestToError(t *testing.T) {
	require.NoError(t, ToError(0))
	err := ToError(0x8)
	require.ErrorIs(t, err, ErrorNoResource)
	require.Equal(t, "openPOWERLINK error 0x8 (no resource)", err.Error())
	require.Equal(t, "unknown error", Error(0x4711).String())
}
