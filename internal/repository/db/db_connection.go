package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// Conservative pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is not great with many writers
	db.SetMaxIdleConns(1)

	// Pragmas to improve reliability
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set PRAGMA journal_mode=WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set PRAGMA foreign_keys=ON: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set PRAGMA busy_timeout=5000: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

// app_state is a single-row table; the CHECK makes the singleton
// invariant explicit at the schema level. last_notification_type and
// last_notification_time are nulled and set together.
const schemaAppState = `
CREATE TABLE IF NOT EXISTS app_state (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    window_state TEXT NOT NULL,
    mode TEXT NOT NULL,
    last_notification_type TEXT,
    last_notification_time TIMESTAMP,
    updated_at TIMESTAMP NOT NULL
);
`

// Seed the singleton row so partial updates always have a target.
const seedAppState = `
INSERT INTO app_state (id, window_state, mode, updated_at)
VALUES (1, 'closed', 'cooling', CURRENT_TIMESTAMP)
ON CONFLICT(id) DO NOTHING;
`

const schemaTemperatureReadings = `
CREATE TABLE IF NOT EXISTS temperature_readings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp TIMESTAMP NOT NULL,
    current_temp REAL NOT NULL,
    daily_high_forecast REAL NOT NULL,
    daily_low_forecast REAL NOT NULL,
    zip_code TEXT NOT NULL
);
`

const schemaNotifications = `
CREATE TABLE IF NOT EXISTS notifications (
    id TEXT PRIMARY KEY,
    timestamp TIMESTAMP NOT NULL,
    notification_type TEXT NOT NULL,
    current_temp REAL NOT NULL,
    forecast_high REAL NOT NULL,
    forecast_low REAL NOT NULL,
    message TEXT NOT NULL,
    sent_successfully BOOLEAN NOT NULL,
    error_message TEXT
);
`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// In case of panic, rollback to avoid leaving an open transaction
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaAppState,
		seedAppState,
		schemaTemperatureReadings,
		schemaNotifications,
		schemaUsers,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
