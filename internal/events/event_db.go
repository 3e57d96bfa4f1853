// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package events

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

func openDB(dbFilePath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func closeDB(db *sql.DB) {
	if closeErr := db.Close(); closeErr != nil {
		log.Err(closeErr).Msgf("failed to close database")
	}
}

func CreateEventsTable(dbFilePath string) error {
	db, err := openDB(dbFilePath)
	if err != nil {
		return err
	}
	defer closeDB(db)

	_, err = db.Exec("CREATE TABLE IF NOT EXISTS update_events(id INTEGER PRIMARY KEY, json_string TEXT NOT NULL);")
	if err != nil {
		return fmt.Errorf("failed to create update_events table: %w", err)
	}

	return nil
}

func SaveEvent(dbFilePath string, event *UpdateEvent) error {
	db, err := openDB(dbFilePath)
	if err != nil {
		return err
	}
	defer closeDB(db)

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	_, err = db.Exec("INSERT INTO update_events (json_string) VALUES (?);", string(eventJSON))
	if err != nil {
		return fmt.Errorf("failed to insert event into update_events: %w", err)
	}

	return nil
}

func DeleteEvents(dbFilePath string, maxId int) error {
	db, err := openDB(dbFilePath)
	if err != nil {
		return err
	}
	defer closeDB(db)

	_, err = db.Exec("DELETE FROM update_events WHERE id <= ?;", maxId)
	if err != nil {
		return fmt.Errorf("failed to delete event from update_events: %w", err)
	}

	return nil
}

// GetEvents returns the stored events in insertion order and the highest row id,
// -1 if there are none.
func GetEvents(dbFilePath string) ([]UpdateEvent, int, error) {
	db, err := openDB(dbFilePath)
	if err != nil {
		return nil, -1, err
	}
	defer closeDB(db)

	rows, err := db.Query("SELECT id, json_string FROM update_events ORDER BY id;")
	if err != nil {
		return nil, -1, fmt.Errorf("failed to select events: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Err(closeErr).Msgf("failed to close rows")
		}
	}()

	maxId := -1
	var eventsList []UpdateEvent
	for rows.Next() {
		var eventData string
		var id int
		if err := rows.Scan(&id, &eventData); err != nil {
			return nil, -1, fmt.Errorf("failed to scan event data: %w", err)
		}

		var event UpdateEvent
		if err := json.Unmarshal([]byte(eventData), &event); err != nil {
			return nil, -1, fmt.Errorf("failed to unmarshal event data: %w", err)
		}

		if maxId < id {
			maxId = id
		}
		eventsList = append(eventsList, event)
	}

	if err := rows.Err(); err != nil {
		return nil, -1, fmt.Errorf("error iterating over rows: %w", err)
	}

	return eventsList, maxId, nil
}
