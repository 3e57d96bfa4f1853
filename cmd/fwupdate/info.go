// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package main

import (
	"encoding/json"
	"fmt"

	"github.com/foundriesio/fwupdate/pkg/api"
	"github.com/foundriesio/fwupdate/pkg/oplk"
	"github.com/spf13/cobra"
)

type (
	infoOptions struct {
		Format string
	}
)

func init() {
	opts := infoOptions{
		Format: "text",
	}
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Initialize the stack and show its version information",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&opts.Format, "format", "text", "Format the output. Values: [text | json]")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		switch opts.Format {
		case "text", "json":
			return doInfo(cmd, &opts)
		default:
			return fmt.Errorf("invalid value for --format: %s (must be text or json)", opts.Format)
		}
	}
	rootCmd.AddCommand(cmd)
}

func doInfo(cmd *cobra.Command, opts *infoOptions) error {
	cmd.SilenceUsage = true
	stack, err := api.NewStack(config, stackBackend)
	DieNotNil(err, "failed to create stack")

	var handlers []api.UpdateRunnerOpt
	if opts.Format == "text" {
		printBanner(stack)
		handlers = append(handlers, api.WithPostStateHandler(postStateHandler))
	}
	info, err := api.Info(cmd.Context(), config, stack, handlers...)
	if err != nil {
		return reportFailure(err)
	}
	if opts.Format == "json" {
		printJsonInfo(info)
	} else {
		fmt.Printf("File chunk size:        %d\n", info.ChunkSize)
	}
	return nil
}

func printJsonInfo(info api.UpdateInfo) {
	result := struct {
		Backend   string         `json:"backend"`
		Version   string         `json:"version"`
		StackInfo oplk.StackInfo `json:"stack_info"`
		ChunkSize uint32         `json:"chunk_size"`
	}{
		Backend:   backendName(),
		Version:   info.StackVersion,
		StackInfo: info.StackInfo,
		ChunkSize: info.ChunkSize,
	}
	if b, err := json.Marshal(result); err != nil {
		DieNotNil(err, "failed to marshal stack info")
	} else {
		fmt.Println(string(b))
	}
}
