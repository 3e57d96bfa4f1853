// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/foundriesio/fwupdate/pkg/api"
	"github.com/foundriesio/fwupdate/pkg/transfer"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
)

type progressPrinter struct {
	out      io.Writer
	terminal bool
	open     bool
}

var progress = &progressPrinter{
	out:      os.Stdout,
	terminal: isatty.IsTerminal(os.Stdout.Fd()),
}

// newTransfer returns the progress callback of one image transfer. On a
// terminal a progress bar is drawn, otherwise "Progress [N%]" is rewritten
// in place.
func (p *progressPrinter) newTransfer(state api.StateName, totalBytes int) transfer.ProgressFunc {
	if p.terminal {
		bar := progressbar.DefaultBytes(int64(totalBytes), string(state))
		return func(percent int) {
			p.open = true
			if err := bar.Set64(int64(totalBytes) * int64(percent) / 100); err != nil {
				log.Err(err).Msg("Error setting progress bar")
			}
			if percent == 100 {
				if err := bar.Finish(); err != nil {
					log.Err(err).Msg("Error finishing progress bar")
				}
			}
		}
	}
	return func(percent int) {
		p.open = true
		fmt.Fprintf(p.out, "\rProgress [%d%%]", percent)
	}
}

// closeLine terminates a pending progress line.
func (p *progressPrinter) closeLine() {
	if p.open {
		fmt.Fprintln(p.out)
		p.open = false
	}
}
