// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package main

import (
	"fmt"
	"strconv"

	"github.com/foundriesio/fwupdate/pkg/api"
	"github.com/foundriesio/fwupdate/pkg/oplk"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	defaultFirmwareFile = "image.bin"

	downloadFlag     = "download"
	invalidateFlag   = "invalidate"
	factoryResetFlag = "factory-reset"
	updateResetFlag  = "update-reset"
)

type (
	updateOptions struct {
		api.Options
	}

	// resetFlag backs -f and -u. Both write the same pair of options so the
	// one given last on the command line wins.
	resetFlag struct {
		opts    *api.Options
		factory bool
	}
)

var _ pflag.Value = &resetFlag{}

func (r *resetFlag) String() string {
	if r.opts == nil {
		return "false"
	}
	if r.factory {
		return strconv.FormatBool(r.opts.FactoryReset)
	}
	return strconv.FormatBool(r.opts.UpdateReset)
}

func (r *resetFlag) Set(value string) error {
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	switch {
	case enabled:
		r.opts.FactoryReset = r.factory
		r.opts.UpdateReset = !r.factory
	case r.factory:
		r.opts.FactoryReset = false
	default:
		r.opts.UpdateReset = false
	}
	return nil
}

func (r *resetFlag) Type() string {
	return "bool"
}

func addUpdateFlags(cmd *cobra.Command, opts *updateOptions) {
	cmd.Flags().StringVarP(&opts.FirmwareFile, downloadFlag, "d", "", "Download update image to IF card")
	cmd.Flags().BoolVarP(&opts.InvalidateImage, invalidateFlag, "e", false, "Invalidate the existing update image")
	f := cmd.Flags().VarPF(&resetFlag{opts: &opts.Options, factory: true}, factoryResetFlag, "f", "Reset to factory image")
	f.NoOptDefVal = "true"
	u := cmd.Flags().VarPF(&resetFlag{opts: &opts.Options, factory: false}, updateResetFlag, "u", "Reset to update image")
	u.NoOptDefVal = "true"
}

// resolveOptions applies the defaults used when no action flag is given.
func resolveOptions(flags *pflag.FlagSet, opts *updateOptions) api.Options {
	resolved := opts.Options
	anyAction := false
	for _, name := range []string{downloadFlag, invalidateFlag, factoryResetFlag, updateResetFlag} {
		if flags.Changed(name) {
			anyAction = true
		}
	}
	if !anyAction {
		resolved.FirmwareFile = defaultFirmwareFile
		resolved.UpdateImage = true
		resolved.UpdateReset = true
		resolved.FactoryReset = false
	}
	if flags.Changed(downloadFlag) {
		resolved.UpdateImage = true
	}
	return resolved
}

func doUpdate(cmd *cobra.Command, opts *updateOptions) error {
	stack, err := api.NewStack(config, stackBackend)
	if err != nil {
		return reportFailure(fmt.Errorf("failed to create %s stack: %w", backendName(), err))
	}
	printBanner(stack)

	info, err := api.Update(cmd.Context(), config, stack, resolveOptions(cmd.Flags(), opts), updateHandlers...)
	if err != nil {
		return reportFailure(err)
	}
	logDone(info)
	return nil
}

func backendName() string {
	if stackBackend != "" {
		return stackBackend
	}
	return config.GetStackBackend()
}

func printBanner(stack oplk.Stack) {
	fmt.Println("----------------------------------------------------")
	fmt.Println("Firmware Update application for B&R APC/PPC2100")
	fmt.Printf("for openPOWERLINK Stack: %s\n", stack.VersionString())
	fmt.Println("----------------------------------------------------")
}
