// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package main

import (
	"fmt"

	"github.com/foundriesio/fwupdate/pkg/api"
	"github.com/foundriesio/fwupdate/pkg/state"
	"github.com/rs/zerolog/log"
)

var (
	updateHandlers = []api.UpdateRunnerOpt{
		api.WithPreStateHandler(preStateHandler),
		api.WithPostStateHandler(postStateHandler),
		api.WithProgress(progress.newTransfer),
	}
)

func preStateHandler(s api.StateName, u *api.UpdateInfo) {
	log.Debug().Msgf("[%d/%d] %s", u.CurrentStateNum, u.TotalStates, s)
	if s == "Reconfiguring" {
		fmt.Printf("\nIssue firmware reconfiguration to %s image...\n", state.ReconfigTarget(u.Factory))
	}
}

func postStateHandler(s api.StateName, u *api.UpdateInfo) {
	switch s {
	case "Initializing":
		printStackInfo(u)
	case "Invalidating":
		progress.closeLine()
		fmt.Println("\nFirmware invalidated successfully")
	case "Downloading":
		progress.closeLine()
		fmt.Printf("Firmware image %s (%d bytes) written to update partition\n", u.ImagePath, u.ImageSize)
	case "Reconfiguring":
		fmt.Println("Done")
	}
}

func printStackInfo(u *api.UpdateInfo) {
	fmt.Printf("User stack version:     0x%08X\n", u.StackInfo.UserVersion)
	fmt.Printf("User stack feature:     0x%08X\n", u.StackInfo.UserFeature)
	fmt.Printf("Kernel stack version:   0x%08X\n", u.StackInfo.KernelVersion)
	fmt.Printf("Kernel stack feature:   0x%08X\n", u.StackInfo.KernelFeature)
}

func logDone(u api.UpdateInfo) {
	log.Debug().Str("correlation_id", u.CorrelationId).Msg("firmware update tool finished")
}
