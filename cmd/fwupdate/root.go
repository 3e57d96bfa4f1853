// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package main

import (
	"os"

	cfg "github.com/foundriesio/fwupdate/pkg/config"
	"github.com/moby/term"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	strict       bool
	stackBackend string
	configPaths  []string
	config       *cfg.Config

	rootCmd = newRootCmd()
)

func newRootCmd() *cobra.Command {
	opts := &updateOptions{}
	cmd := &cobra.Command{
		Use:   "fwupdate",
		Short: "Stage firmware images on an openPOWERLINK interface card and reboot it into them",
		Long: "Stage firmware images on the update partition of an openPOWERLINK interface card\n" +
			"and trigger a firmware reconfiguration into the factory or the update image.\n\n" +
			"Without any of -d, -e, -f, -u the tool acts as if called with \"-d image.bin -u\".",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Set global log level based on verbose flag
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}

			// Output pretty console if terminal (optional)
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !term.IsTerminal(os.Stderr.Fd())})

			var err error
			config, err = cfg.NewConfig(configPaths)
			cobra.CheckErr(err)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// flags are parsed, errors from here on are no usage errors
			cmd.SilenceUsage = true
			return doUpdate(cmd, opts)
		},
	}
	addUpdateFlags(cmd, opts)
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose debug logging")
	cmd.PersistentFlags().BoolVar(&strict, "strict", false, "Exit with a non-zero code if a step fails")
	cmd.PersistentFlags().StringVar(&stackBackend, "stack", "",
		"Stack backend to use, overrides stack.backend of the configuration. Values: [emulator | oplk]")
	cmd.PersistentFlags().StringSliceVarP(&configPaths, "cfg-dirs", "c",
		cfg.DefConfigOrder, "A comma-separated list of paths to search for .toml configuration files")
	return cmd
}

func Execute() error {
	return rootCmd.Execute()
}
