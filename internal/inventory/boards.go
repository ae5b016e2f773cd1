package inventory

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/EmuxEvans/mbed-ls/internal/boards"
)

// SyncResult summarises one Sync call
type SyncResult struct {
	ScanID   string   `json:"scan_id"`
	Recorded int      `json:"recorded"`
	Skipped  int      `json:"skipped"`
	Attached []string `json:"attached"`
	Detached []string `json:"detached"`
}

// Sync records one enumeration. Boards without a target id have no stable
// key and are skipped. A board not present before gets an attached event;
// a present board missing from list gets a detached event.
func (d *DB) Sync(list []boards.Board) (*SyncResult, error) {
	now := d.now()
	res := &SyncResult{ScanID: uuid.NewString()}

	tx, err := d.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin sync: %w", err)
	}
	defer tx.Rollback()

	seen := make(map[string]bool)
	for _, b := range list {
		if b.TargetID == nil || *b.TargetID == "" {
			res.Skipped++
			continue
		}
		tid := *b.TargetID
		if seen[tid] {
			continue
		}
		seen[tid] = true

		var id int64
		var present int
		err := tx.QueryRow("SELECT id, present FROM boards WHERE target_id = ?", tid).Scan(&id, &present)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			r, err := tx.Exec(`
				INSERT INTO boards (target_id, platform_name, mount_point, serial_port, present, first_seen, last_seen)
				VALUES (?, ?, ?, ?, 1, ?, ?)
			`, tid, nullString(b.PlatformName), nullString(b.MountPoint), nullString(b.SerialPort), now, now)
			if err != nil {
				return nil, fmt.Errorf("failed to insert board: %w", err)
			}
			if id, err = r.LastInsertId(); err != nil {
				return nil, fmt.Errorf("failed to insert board: %w", err)
			}
		case err != nil:
			return nil, fmt.Errorf("failed to look up board: %w", err)
		default:
			_, err := tx.Exec(`
				UPDATE boards SET
					platform_name = COALESCE(?, platform_name),
					mount_point = COALESCE(?, mount_point),
					serial_port = COALESCE(?, serial_port),
					present = 1,
					last_seen = ?
				WHERE id = ?
			`, nullString(b.PlatformName), nullString(b.MountPoint), nullString(b.SerialPort), now, id)
			if err != nil {
				return nil, fmt.Errorf("failed to update board: %w", err)
			}
		}

		if present == 0 {
			if err := recordEvent(tx, id, res.ScanID, EventAttached, nullString(b.MountPoint), nullString(b.SerialPort), now); err != nil {
				return nil, err
			}
			res.Attached = append(res.Attached, tid)
		}
		res.Recorded++
	}

	gone, err := presentBoards(tx)
	if err != nil {
		return nil, err
	}
	for _, g := range gone {
		if seen[g.TargetID] {
			continue
		}
		if _, err := tx.Exec("UPDATE boards SET present = 0 WHERE id = ?", g.ID); err != nil {
			return nil, fmt.Errorf("failed to mark board detached: %w", err)
		}
		if err := recordEvent(tx, g.ID, res.ScanID, EventDetached, g.mountPoint, g.serialPort, now); err != nil {
			return nil, err
		}
		res.Detached = append(res.Detached, g.TargetID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sync: %w", err)
	}
	return res, nil
}

type presentBoard struct {
	ID         int64
	TargetID   string
	mountPoint sql.NullString
	serialPort sql.NullString
}

// presentBoards is read fully before any write on the same transaction
func presentBoards(tx *sql.Tx) ([]presentBoard, error) {
	rows, err := tx.Query("SELECT id, target_id, mount_point, serial_port FROM boards WHERE present = 1 ORDER BY target_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query present boards: %w", err)
	}
	defer rows.Close()

	var out []presentBoard
	for rows.Next() {
		var p presentBoard
		if err := rows.Scan(&p.ID, &p.TargetID, &p.mountPoint, &p.serialPort); err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const boardColumns = `id, target_id, platform_name, mount_point, serial_port, present, first_seen, last_seen`

// GetBoard returns the board with the given target id, or nil if unknown
func (d *DB) GetBoard(targetID string) (*BoardRecord, error) {
	rows, err := d.conn.Query("SELECT "+boardColumns+" FROM boards WHERE target_id = ?", targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query board: %w", err)
	}
	defer rows.Close()

	list, err := scanBoards(rows)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

// GetAllBoards returns every known board; presentOnly limits to attached ones
func (d *DB) GetAllBoards(presentOnly bool) ([]*BoardRecord, error) {
	query := "SELECT " + boardColumns + " FROM boards"
	if presentOnly {
		query += " WHERE present = 1"
	}
	query += " ORDER BY target_id"

	rows, err := d.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query boards: %w", err)
	}
	defer rows.Close()

	return scanBoards(rows)
}

// BoardCount returns the number of known and currently present boards
func (d *DB) BoardCount() (total, present int, err error) {
	err = d.conn.QueryRow("SELECT COUNT(*), COALESCE(SUM(present), 0) FROM boards").Scan(&total, &present)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count boards: %w", err)
	}
	return total, present, nil
}

func scanBoards(rows *sql.Rows) ([]*BoardRecord, error) {
	var list []*BoardRecord
	for rows.Next() {
		var b BoardRecord
		var platformName, mountPoint, serialPort sql.NullString
		var present int

		err := rows.Scan(&b.ID, &b.TargetID, &platformName, &mountPoint, &serialPort,
			&present, &b.FirstSeen, &b.LastSeen)
		if err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		b.PlatformName = platformName.String
		b.MountPoint = mountPoint.String
		b.SerialPort = serialPort.String
		b.Present = present != 0

		list = append(list, &b)
	}
	return list, rows.Err()
}
