// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package events

import (
	"path/filepath"
	"testing"

	"github.com/foundriesio/fwupdate/internal/hostinfo"
	"github.com/stretchr/testify/require"
)

func TestEventDB(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	require.Nil(t, CreateEventsTable(dbPath))
	// the table creation is idempotent
	require.Nil(t, CreateEventsTable(dbPath))

	evts, maxId, err := GetEvents(dbPath)
	require.Nil(t, err)
	require.Empty(t, evts)
	require.Equal(t, -1, maxId)

	rec := NewRecorder(dbPath, "01HZY", hostinfo.HostInfo{Hostname: "card-01", OS: "host-a", Version: "4.0.20"})
	rec.Record(DownloadStarted, "image.bin", "", nil)
	rec.Record(DownloadCompleted, "image.bin", "", BoolPointer(true))

	evts, maxId, err = GetEvents(dbPath)
	require.Nil(t, err)
	require.Len(t, evts, 2)
	require.Equal(t, DownloadStarted, evts[0].EventType.Id)
	require.Nil(t, evts[0].Event.Success)
	require.Equal(t, DownloadCompleted, evts[1].EventType.Id)
	require.NotNil(t, evts[1].Event.Success)
	require.True(t, *evts[1].Event.Success)
	require.Equal(t, "01HZY", evts[1].Event.CorrelationId)
	require.Equal(t, "host-a", evts[1].Event.Host)
	require.Equal(t, "card-01", evts[1].Event.Hostname)
	require.Equal(t, "4.0.20", evts[1].Event.OSVersion)
	require.NotEqual(t, evts[0].Id, evts[1].Id)

	require.Nil(t, DeleteEvents(dbPath, maxId))
	evts, _, err = GetEvents(dbPath)
	require.Nil(t, err)
	require.Empty(t, evts)
}

func TestRecorder_NoDatabase(t *testing.T) {
	var rec *Recorder
	rec.Record(DownloadStarted, "image.bin", "", nil)
	NewRecorder("", "id", hostinfo.HostInfo{}).Record(DownloadStarted, "image.bin", "", nil)
}
