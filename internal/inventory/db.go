package inventory

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultPath is the default database location
const DefaultPath = "/var/lib/mbedls/inventory.db"

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
	path string
	now  func() time.Time
}

// New opens or creates the SQLite database at the given path
func New(path string) (*DB, error) {
	if path == "" {
		path = DefaultPath
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	db := &DB{conn: conn, path: path, now: func() time.Time { return time.Now().UTC() }}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.conn.Close()
}

// Path returns the database file path
func (d *DB) Path() string {
	return d.path
}

func (d *DB) migrate() error {
	_, err := d.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	var version int
	err = d.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return err
	}

	migrations := []string{
		migrationV1,
	}

	for i, migration := range migrations {
		v := i + 1
		if v <= version {
			continue
		}

		tx, err := d.conn.Begin()
		if err != nil {
			return err
		}

		if _, err := tx.Exec(migration); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration v%d failed: %w", v, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", v); err != nil {
			tx.Rollback()
			return err
		}

		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}

// migrationV1 creates the initial schema
const migrationV1 = `
-- Every board ever seen, keyed by target id
CREATE TABLE IF NOT EXISTS boards (
    id INTEGER PRIMARY KEY,
    target_id TEXT UNIQUE NOT NULL,
    platform_name TEXT,

    -- Last known host attachment
    mount_point TEXT,
    serial_port TEXT,

    present INTEGER NOT NULL DEFAULT 0,
    first_seen TIMESTAMP NOT NULL,
    last_seen TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_boards_present ON boards(present);

-- Attach/detach history, one scan_id per sync
CREATE TABLE IF NOT EXISTS board_events (
    id INTEGER PRIMARY KEY,
    board_id INTEGER NOT NULL REFERENCES boards(id),
    scan_id TEXT NOT NULL,
    event_type TEXT NOT NULL,
    mount_point TEXT,
    serial_port TEXT,
    timestamp TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_board ON board_events(board_id);
CREATE INDEX IF NOT EXISTS idx_events_scan ON board_events(scan_id);
CREATE INDEX IF NOT EXISTS idx_events_time ON board_events(timestamp);
`

// BoardRecord represents a board in the database
type BoardRecord struct {
	ID           int64     `json:"id"`
	TargetID     string    `json:"target_id"`
	PlatformName string    `json:"platform_name,omitempty"`
	MountPoint   string    `json:"mount_point,omitempty"`
	SerialPort   string    `json:"serial_port,omitempty"`
	Present      bool      `json:"present"`
	FirstSeen    time.Time `json:"first_seen"`
	LastSeen     time.Time `json:"last_seen"`
}

// BoardEvent is one attach or detach observation
type BoardEvent struct {
	ID         int64     `json:"id"`
	BoardID    int64     `json:"board_id"`
	TargetID   string    `json:"target_id"`
	ScanID     string    `json:"scan_id"`
	EventType  string    `json:"event_type"`
	MountPoint string    `json:"mount_point,omitempty"`
	SerialPort string    `json:"serial_port,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Event types
const (
	EventAttached = "attached"
	EventDetached = "detached"
)

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
