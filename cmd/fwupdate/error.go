// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package main

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/foundriesio/fwupdate/pkg/oplk"
	"github.com/foundriesio/fwupdate/pkg/state"
	"github.com/rs/zerolog/log"
)

// DieNotNil logs the error and exits with code 1.
func DieNotNil(err error, message ...string) {
	DieNotNilWithCode(err, 1, message...)
}

// DieNotNilWithCode logs the error and exits with the given code.
func DieNotNilWithCode(err error, exitCode int, message ...string) {
	if err != nil {
		parts := []interface{}{"ERROR:"}
		for _, p := range message {
			parts = append(parts, p)
		}
		parts = append(parts, err)
		fmt.Fprintln(os.Stderr, parts...)
		os.Exit(exitCode)
	}
}

// failureMessage formats a failed update step the way the card vendor tools
// do: "Failed to <step> (ret = 0x<code>)!".
func failureMessage(err error) string {
	step := state.StepError(err)
	if step == nil {
		return fmt.Sprintf("%s (ret = 0x%X)!", capitalize(err.Error()), uint32(oplk.Code(err)))
	}
	return fmt.Sprintf("%s (ret = 0x%X)!", capitalize(step.Error()), uint32(oplk.Code(err)))
}

// failureCause returns what made an update step fail, without the state and
// step prefixes. Empty if err carries nothing beyond the step failure.
func failureCause(err error) string {
	step := state.StepError(err)
	if step == nil {
		return ""
	}
	msg := err.Error()
	prefix := step.Error() + ": "
	idx := strings.Index(msg, prefix)
	if idx < 0 {
		return ""
	}
	return msg[idx+len(prefix):]
}

// reportFailure prints the failure of an update step. The process exit code
// is only affected in strict mode.
func reportFailure(err error) error {
	progress.closeLine()
	log.Debug().Err(err).Msg("update step failed")
	if cause := failureCause(err); cause != "" {
		fmt.Printf("%s!\n", capitalize(cause))
	}
	fmt.Println(failureMessage(err))
	if strict {
		return err
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
