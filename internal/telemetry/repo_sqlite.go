package telemetry

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SQLiteRepository persists events alongside player state in the same
// database file.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		player_id TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		metadata TEXT NOT NULL
	);
	`)
	if err != nil {
		return nil, fmt.Errorf("create events schema: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);`); err != nil {
		return nil, err
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) RecordEvent(eventType EventType, playerID string, metadata EventMetadata) (Event, error) {
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return Event{}, err
	}
	e := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		PlayerID:  playerID,
		Timestamp: time.Now(),
		Metadata:  string(metadataJSON),
	}
	_, err = r.db.Exec(
		`INSERT INTO events (id, type, player_id, timestamp, metadata) VALUES (?, ?, ?, ?, ?)`,
		e.ID, string(e.Type), e.PlayerID, e.Timestamp.UnixNano(), e.Metadata,
	)
	if err != nil {
		return Event{}, err
	}
	return e, nil
}

func (r *SQLiteRepository) GetEvents(since time.Time, eventTypes []EventType) ([]Event, error) {
	query := `SELECT id, type, player_id, timestamp, metadata FROM events WHERE timestamp >= ?`
	args := []any{since.UnixNano()}
	if len(eventTypes) > 0 {
		placeholders := make([]string, len(eventTypes))
		for i, t := range eventTypes {
			placeholders[i] = "?"
			args = append(args, string(t))
		}
		query += ` AND type IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY timestamp ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var ts int64
		if err := rows.Scan(&e.ID, &e.Type, &e.PlayerID, &ts, &e.Metadata); err != nil {
			return nil, err
		}
		e.Timestamp = time.Unix(0, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Clear() error {
	_, err := r.db.Exec(`DELETE FROM events`)
	return err
}
