package player

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
)

// InitSQLite opens the player database and creates the schema. The same
// handle is shared with the telemetry sqlite repo.
func InitSQLite(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if err := createSchemas(db); err != nil {
		return nil, fmt.Errorf("create schemas: %w", err)
	}
	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			currency REAL NOT NULL DEFAULT 0,
			energy REAL NOT NULL DEFAULT 0,
			max_energy REAL NOT NULL,
			level INTEGER NOT NULL DEFAULT 1,
			xp INTEGER NOT NULL DEFAULT 0,
			xp_to_next INTEGER NOT NULL DEFAULT 0,
			lp_per_hour REAL NOT NULL DEFAULT 0,
			lp_per_tap REAL NOT NULL DEFAULT 0,
			last_tick_at INTEGER NOT NULL DEFAULT 0,
			version INTEGER NOT NULL DEFAULT 1
		);`,
		`CREATE TABLE IF NOT EXISTS owned_upgrades (
			player_id TEXT NOT NULL,
			upgrade_id TEXT NOT NULL,
			level INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (player_id, upgrade_id),
			FOREIGN KEY (player_id) REFERENCES players(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_owned_upgrades_player ON owned_upgrades(player_id);`,
	}
	for _, q := range schemas {
		if _, err := db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}
