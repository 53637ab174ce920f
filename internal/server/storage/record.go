// FILE: internal/server/storage/record.go
package storage

import (
	"database/sql"
	"fmt"
	"log"
	"time"
)

// InsertRecord asynchronously persists a new record
func (s *Store) InsertRecord(row RecordRow) error {
	if !s.healthStatus.Load() {
		return nil // Silently drop if degraded
	}

	select {
	case s.writeChan <- func(tx *sql.Tx) error {
		query := `INSERT INTO records (
			record_id, owner_id, title, game, status, result, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

		_, err := tx.Exec(query,
			row.RecordID, row.OwnerID, row.Title, row.Game,
			row.Status, row.Result, row.CreatedAt, row.UpdatedAt,
		)
		return err
	}:
		return nil
	default:
		// Channel full, drop write
		log.Printf("Storage write queue full, dropping record insert")
		return nil
	}
}

// InsertTurn asynchronously persists a committed turn and bumps the
// record's updated_at in the same transaction
func (s *Store) InsertTurn(row TurnRow) error {
	if !s.healthStatus.Load() {
		return nil // Silently drop if degraded
	}

	select {
	case s.writeChan <- func(tx *sql.Tx) error {
		query := `INSERT INTO turns (
			record_id, turn_number, text, action_count, played_at
		) VALUES (?, ?, ?, ?, ?)`

		if _, err := tx.Exec(query,
			row.RecordID, row.TurnNumber, row.Text, row.ActionCount, row.PlayedAt,
		); err != nil {
			return err
		}

		_, err := tx.Exec(`UPDATE records SET updated_at = ? WHERE record_id = ?`,
			row.PlayedAt, row.RecordID)
		return err
	}:
		return nil
	default:
		// Channel full, drop write
		log.Printf("Storage write queue full, dropping turn insert")
		return nil
	}
}

// DeleteUndoneTurns asynchronously deletes turns after undo and reopens
// the record
func (s *Store) DeleteUndoneTurns(recordID string, afterTurnNumber int) error {
	if !s.healthStatus.Load() {
		return nil // Silently drop if degraded
	}

	now := time.Now().UTC()

	select {
	case s.writeChan <- func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM turns WHERE record_id = ? AND turn_number > ?`,
			recordID, afterTurnNumber); err != nil {
			return err
		}

		_, err := tx.Exec(`UPDATE records SET status = 'open', result = '', updated_at = ? WHERE record_id = ?`,
			now, recordID)
		return err
	}:
		return nil
	default:
		// Channel full, drop write
		log.Printf("Storage write queue full, dropping undo operation")
		return nil
	}
}

// UpdateRecordStatus asynchronously updates a record's status and result
func (s *Store) UpdateRecordStatus(recordID, status, result string) error {
	if !s.healthStatus.Load() {
		return nil // Silently drop if degraded
	}

	now := time.Now().UTC()

	select {
	case s.writeChan <- func(tx *sql.Tx) error {
		query := `UPDATE records SET status = ?, result = ?, updated_at = ? WHERE record_id = ?`
		_, err := tx.Exec(query, status, result, now, recordID)
		return err
	}:
		return nil
	default:
		// Channel full, drop write
		log.Printf("Storage write queue full, dropping status update")
		return nil
	}
}

// DeleteRecord asynchronously removes a record; turns cascade
func (s *Store) DeleteRecord(recordID string) error {
	if !s.healthStatus.Load() {
		return nil // Silently drop if degraded
	}

	select {
	case s.writeChan <- func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM records WHERE record_id = ?`, recordID)
		return err
	}:
		return nil
	default:
		// Channel full, drop write
		log.Printf("Storage write queue full, dropping record deletion")
		return nil
	}
}

// QueryRecords retrieves records with optional filtering
func (s *Store) QueryRecords(recordID, ownerID string) ([]RecordRow, error) {
	query := `SELECT
		record_id, owner_id, title, game, status, result, created_at, updated_at
	FROM records WHERE 1=1`

	var args []interface{}

	// Handle recordID filtering
	if recordID != "" && recordID != "*" {
		query += " AND record_id = ?"
		args = append(args, recordID)
	}

	// Handle ownerID filtering
	if ownerID != "" && ownerID != "*" {
		query += " AND owner_id = ?"
		args = append(args, ownerID)
	}

	query += " ORDER BY updated_at DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var records []RecordRow
	for rows.Next() {
		var r RecordRow
		err := rows.Scan(
			&r.RecordID, &r.OwnerID, &r.Title, &r.Game,
			&r.Status, &r.Result, &r.CreatedAt, &r.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return records, nil
}

// QueryTurns retrieves all turns of a record in committed order
func (s *Store) QueryTurns(recordID string) ([]TurnRow, error) {
	query := `SELECT
		turn_id, record_id, turn_number, text, action_count, played_at
	FROM turns WHERE record_id = ? ORDER BY turn_number ASC`

	rows, err := s.db.Query(query, recordID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var turns []TurnRow
	for rows.Next() {
		var t TurnRow
		err := rows.Scan(
			&t.TurnID, &t.RecordID, &t.TurnNumber, &t.Text, &t.ActionCount, &t.PlayedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		turns = append(turns, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return turns, nil
}
