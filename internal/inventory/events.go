package inventory

import (
	"database/sql"
	"fmt"
	"time"
)

func recordEvent(tx *sql.Tx, boardID int64, scanID, eventType string, mountPoint, serialPort sql.NullString, at time.Time) error {
	_, err := tx.Exec(`
		INSERT INTO board_events (board_id, scan_id, event_type, mount_point, serial_port, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`, boardID, scanID, eventType, mountPoint, serialPort, at)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

const eventColumns = `e.id, e.board_id, b.target_id, e.scan_id, e.event_type, e.mount_point, e.serial_port, e.timestamp`

// GetRecentEvents returns the most recent events across all boards
func (d *DB) GetRecentEvents(limit int) ([]*BoardEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := d.conn.Query(`
		SELECT `+eventColumns+`
		FROM board_events e JOIN boards b ON b.id = e.board_id
		ORDER BY e.timestamp DESC, e.id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetBoardEvents returns events for one board by target id
func (d *DB) GetBoardEvents(targetID string, limit int) ([]*BoardEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := d.conn.Query(`
		SELECT `+eventColumns+`
		FROM board_events e JOIN boards b ON b.id = e.board_id
		WHERE b.target_id = ?
		ORDER BY e.timestamp DESC, e.id DESC
		LIMIT ?
	`, targetID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query board events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetScanEvents returns the events recorded by one Sync call
func (d *DB) GetScanEvents(scanID string) ([]*BoardEvent, error) {
	rows, err := d.conn.Query(`
		SELECT `+eventColumns+`
		FROM board_events e JOIN boards b ON b.id = e.board_id
		WHERE e.scan_id = ?
		ORDER BY e.id
	`, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]*BoardEvent, error) {
	var events []*BoardEvent
	for rows.Next() {
		var event BoardEvent
		var mountPoint, serialPort sql.NullString

		err := rows.Scan(
			&event.ID, &event.BoardID, &event.TargetID, &event.ScanID, &event.EventType,
			&mountPoint, &serialPort, &event.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		event.MountPoint = mountPoint.String
		event.SerialPort = serialPort.String

		events = append(events, &event)
	}

	return events, rows.Err()
}
