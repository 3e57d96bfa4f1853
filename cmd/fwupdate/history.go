// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/foundriesio/fwupdate/internal/db"
	"github.com/foundriesio/fwupdate/internal/events"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type (
	historyOptions struct {
		Format string
		Clear  bool
	}
)

func init() {
	opts := historyOptions{
		Format: "text",
	}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the recorded firmware update events",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&opts.Format, "format", "text", "Format the output. Values: [text | json]")
	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "Delete the recorded events after showing them")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		switch opts.Format {
		case "text", "json":
			doHistory(&opts)
		default:
			return fmt.Errorf("invalid value for --format: %s (must be text or json)", opts.Format)
		}
		return nil
	}
	rootCmd.AddCommand(cmd)
}

func doHistory(opts *historyOptions) {
	dbPath := config.GetDBPath()
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		log.Debug().Str("db", dbPath).Msg("no history database")
		if opts.Format == "json" {
			fmt.Println("[]")
		} else {
			fmt.Println("No firmware update events recorded")
		}
		return
	}
	DieNotNil(db.InitializeDatabase(dbPath), "failed to open history database")
	evts, maxId, err := events.GetEvents(dbPath)
	DieNotNil(err, "failed to read history")

	if opts.Format == "json" {
		if evts == nil {
			evts = []events.UpdateEvent{}
		}
		b, err := json.Marshal(evts)
		DieNotNil(err, "failed to marshal history")
		fmt.Println(string(b))
	} else {
		printTextHistory(evts)
	}

	if opts.Clear && maxId >= 0 {
		DieNotNil(events.DeleteEvents(dbPath, maxId), "failed to clear history")
		log.Info().Msgf("Deleted %d events", len(evts))
	}
}

func printTextHistory(evts []events.UpdateEvent) {
	if len(evts) == 0 {
		fmt.Println("No firmware update events recorded")
		return
	}
	correlationId := ""
	for _, e := range evts {
		if e.Event.CorrelationId != correlationId {
			correlationId = e.Event.CorrelationId
			fmt.Printf("\n%s\n", correlationId)
		}
		result := ""
		if e.Event.Success != nil {
			if *e.Event.Success {
				result = "ok"
			} else {
				result = "failed"
			}
		}
		fmt.Printf("  %-25s %-34s %-6s %s\n", e.DeviceTime, e.EventType.Id, result, e.Event.Image)
		if e.Event.Details != "" && result == "failed" {
			fmt.Printf("    %s\n", e.Event.Details)
		}
	}
}
