// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package hostinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	osRelease := filepath.Join(t.TempDir(), "os-release")
	require.Nil(t, os.WriteFile(osRelease, []byte(`NAME="Linux-microPlatform"
VERSION_ID=4.0.20
PRETTY_NAME="Linux-microPlatform 4.0.20"
`), 0o644))

	info := Get(osRelease)
	require.Equal(t, "Linux-microPlatform 4.0.20", info.OS)
	require.Equal(t, "4.0.20", info.Version)
}

func TestGet_NoPrettyName(t *testing.T) {
	osRelease := filepath.Join(t.TempDir(), "os-release")
	require.Nil(t, os.WriteFile(osRelease, []byte("NAME=Debian\n"), 0o644))
	require.Equal(t, "Debian", Get(osRelease).OS)
}

func TestGet_Missing(t *testing.T) {
	info := Get(filepath.Join(t.TempDir(), "os-release"))
	require.Empty(t, info.OS)
	require.Empty(t, info.Version)
}
