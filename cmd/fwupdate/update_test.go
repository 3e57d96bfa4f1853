// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/foundriesio/fwupdate/internal/events"
	"github.com/foundriesio/fwupdate/pkg/api"
	"github.com/foundriesio/fwupdate/pkg/oplk"
	"github.com/foundriesio/fwupdate/pkg/oplk/emu"
	"github.com/foundriesio/fwupdate/pkg/state"
	"github.com/foundriesio/fwupdate/pkg/transfer"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func parseOptions(t *testing.T, args ...string) api.Options {
	t.Helper()
	opts := &updateOptions{}
	cmd := &cobra.Command{Use: "fwupdate"}
	addUpdateFlags(cmd, opts)
	cmd.Flags().BoolP("verbose", "v", false, "")
	require.Nil(t, cmd.Flags().Parse(args))
	return resolveOptions(cmd.Flags(), opts)
}

func TestResolveOptions_Defaults(t *testing.T) {
	opts := parseOptions(t)
	require.Equal(t, api.Options{FirmwareFile: "image.bin", UpdateImage: true, UpdateReset: true}, opts)

	// ambient flags do not disable the defaults
	opts = parseOptions(t, "-v")
	require.Equal(t, api.Options{FirmwareFile: "image.bin", UpdateImage: true, UpdateReset: true}, opts)
}

func TestResolveOptions_Flags(t *testing.T) {
	require.Equal(t, api.Options{FirmwareFile: "fw.bin", UpdateImage: true}, parseOptions(t, "-d", "fw.bin"))
	require.Equal(t, api.Options{InvalidateImage: true}, parseOptions(t, "-e"))
	require.Equal(t, api.Options{FactoryReset: true}, parseOptions(t, "-f"))
	require.Equal(t, api.Options{UpdateReset: true}, parseOptions(t, "-u"))
	require.Equal(t, api.Options{FirmwareFile: "fw.bin", UpdateImage: true, InvalidateImage: true, UpdateReset: true},
		parseOptions(t, "-e", "-d", "fw.bin", "-u"))
	require.Equal(t, api.Options{InvalidateImage: true, FactoryReset: true}, parseOptions(t, "-ef"))
	require.Equal(t, api.Options{FactoryReset: true}, parseOptions(t, "--factory-reset"))
}

func TestResolveOptions_LastResetWins(t *testing.T) {
	require.Equal(t, api.Options{UpdateReset: true}, parseOptions(t, "-f", "-u"))
	require.Equal(t, api.Options{FactoryReset: true}, parseOptions(t, "-u", "-f"))
	require.Equal(t, api.Options{FactoryReset: true}, parseOptions(t, "-uf"))
	require.Equal(t, api.Options{}, parseOptions(t, "-u", "--update-reset=false"))
}

func TestResolveOptions_UnknownFlag(t *testing.T) {
	opts := &updateOptions{}
	cmd := &cobra.Command{Use: "fwupdate"}
	addUpdateFlags(cmd, opts)
	require.Error(t, cmd.Flags().Parse([]string{"-x"}))
}

func TestFailureMessage(t *testing.T) {
	err := fmt.Errorf("failed at state Initializing: %w", fmt.Errorf("%w: %w", state.ErrInitFailed, oplk.ErrorNoFreeInstance))
	require.Equal(t, "Failed to initialize openPOWERLINK (ret = 0x3)!", failureMessage(err))

	err = fmt.Errorf("%w: %w", state.ErrUpdateFailed, oplk.ErrorNoResource)
	require.Equal(t, "Failed to update image (ret = 0x8)!", failureMessage(err))
}

func TestFailureCause(t *testing.T) {
	chunkErr := &transfer.ChunkError{Offset: 512, Length: 256, Err: oplk.ErrorInvalidOperation}
	err := fmt.Errorf("failed at state Downloading: %w", fmt.Errorf("%w: %w", state.ErrUpdateFailed, chunkErr))
	require.Equal(t, "writing file chunk at offset 512 (256 bytes) failed: openPOWERLINK error 0x5 (invalid operation)",
		failureCause(err))

	require.Empty(t, failureCause(fmt.Errorf("creating stack: %w", oplk.ErrorNoResource)))
}

type cliEnv struct {
	dir   string
	card  string
	image string
}

func newCliEnv(t *testing.T, chunkSize int) cliEnv {
	t.Helper()
	dir := t.TempDir()
	env := cliEnv{
		dir:   dir,
		card:  filepath.Join(dir, "card"),
		image: filepath.Join(dir, "image.bin"),
	}
	toml := fmt.Sprintf(`
[emulator]
path = "%s"
chunk_size = %d

[storage]
path = "%s"
`, env.card, chunkSize, dir)
	require.Nil(t, os.WriteFile(filepath.Join(dir, "fwupdate.toml"), []byte(toml), 0o644))
	image := make([]byte, 3000)
	for i := range image {
		image[i] = byte(i % 13)
	}
	require.Nil(t, os.WriteFile(env.image, image, 0o644))
	return env
}

func (e cliEnv) run(args ...string) error {
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"-c", e.dir}, args...))
	return cmd.Execute()
}

// runOutput runs the tool and returns what it printed to stdout and what
// cobra wrote to its own output.
func (e cliEnv) runOutput(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	r, w, err := os.Pipe()
	require.Nil(t, err)
	stdout := os.Stdout
	os.Stdout = w
	captured := make(chan []byte)
	go func() {
		b, _ := io.ReadAll(r)
		captured <- b
	}()

	var cobraOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&cobraOut)
	cmd.SetErr(&cobraOut)
	cmd.SetArgs(append([]string{"-c", e.dir}, args...))
	runErr := cmd.Execute()

	os.Stdout = stdout
	require.Nil(t, w.Close())
	out := <-captured
	require.Nil(t, r.Close())
	return string(out), cobraOut.String(), runErr
}

func (e cliEnv) state(t *testing.T) emu.State {
	t.Helper()
	d, err := emu.New(e.card)
	require.Nil(t, err)
	s, err := d.State()
	require.Nil(t, err)
	return s
}

func TestRoot_UpdateAndReset(t *testing.T) {
	env := newCliEnv(t, 256)
	require.Nil(t, env.run("-d", env.image, "-u"))

	s := env.state(t)
	require.Equal(t, emu.BootUpdate, s.BootImage)
	require.Equal(t, 3000, s.UpdateSize)

	stored, err := os.ReadFile(filepath.Join(env.card, emu.UpdateImageFile))
	require.Nil(t, err)
	expected, err := os.ReadFile(env.image)
	require.Nil(t, err)
	require.Equal(t, expected, stored)

	evts, _, err := events.GetEvents(filepath.Join(env.dir, "history.db"))
	require.Nil(t, err)
	require.Len(t, evts, 4)

	require.Nil(t, env.run("-e", "-f"))
	s = env.state(t)
	require.Equal(t, emu.BootFactory, s.BootImage)
	require.False(t, s.UpdateValid)
	require.Equal(t, 2, s.Reconfigurations)
}

func TestRoot_FailureExitCode(t *testing.T) {
	env := newCliEnv(t, 256)
	// no valid update image on the card: the step fails, the exit status stays zero
	require.Nil(t, env.run("-u"))
	require.Equal(t, 0, env.state(t).Reconfigurations)

	out, cobraOut, err := env.runOutput(t, "--strict", "-u")
	require.ErrorIs(t, err, state.ErrReconfigFailed)
	require.Contains(t, out, "Failed to execute firmware reconfiguration (ret = 0x5)!")
	require.NotContains(t, cobraOut, "Usage:")
}

func TestRoot_NoChunkSupport(t *testing.T) {
	env := newCliEnv(t, 0)
	out, _, err := env.runOutput(t, "--strict", "-d", env.image)
	require.ErrorIs(t, err, state.ErrUpdateFailed)
	require.Equal(t, oplk.ErrorNoResource, oplk.Code(err))
	require.Contains(t, out, "No file chunk transfer support available")
	require.True(t, strings.HasSuffix(out, "Failed to update image (ret = 0x8)!\n"), out)
}

func TestRoot_EmptyImage(t *testing.T) {
	env := newCliEnv(t, 256)
	empty := filepath.Join(env.dir, "empty.bin")
	require.Nil(t, os.WriteFile(empty, nil, 0o644))

	out, _, err := env.runOutput(t, "-d", empty)
	require.Nil(t, err)
	require.Contains(t, out, fmt.Sprintf("File %s is empty", empty))
	require.Contains(t, out, "Failed to update image (ret = 0x8)!")
	require.NotContains(t, out, "No file chunk transfer support available")
}

func TestRoot_UnknownFlag(t *testing.T) {
	env := newCliEnv(t, 256)
	_, cobraOut, err := env.runOutput(t, "-x")
	require.Error(t, err)
	require.Contains(t, cobraOut, "Usage:")
}
