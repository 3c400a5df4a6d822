package fontstore

import (
	"fmt"
	"time"

	"github.com/vladelaina/Catime/internal/models"
)

// SaveSnapshot replaces the persisted snapshot with records within a
// transaction. The previous snapshot stays intact if anything fails.
func (s *Store) SaveSnapshot(records []models.FontRecord, generatedAt time.Time) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("fontstore: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM fonts`); err != nil {
		return fmt.Errorf("fontstore: clear fonts: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO fonts (relative_path, display_name, depth, is_current)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("fontstore: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(rec.RelativePath, rec.DisplayName, rec.Depth, rec.IsCurrent); err != nil {
			return fmt.Errorf("fontstore: insert font: %w", err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO snapshot_meta (id, generated_at) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET generated_at = excluded.generated_at
	`, generatedAt.UTC())
	if err != nil {
		return fmt.Errorf("fontstore: upsert meta: %w", err)
	}

	return tx.Commit()
}

// LoadSnapshot returns the persisted snapshot, or (nil, zero, nil) when
// none has been saved yet.
func (s *Store) LoadSnapshot() ([]models.FontRecord, time.Time, error) {
	var generatedAt time.Time
	err := s.conn.QueryRow(`SELECT generated_at FROM snapshot_meta WHERE id = 1`).Scan(&generatedAt)
	if err != nil {
		return nil, time.Time{}, nil // nothing persisted yet
	}

	rows, err := s.conn.Query(`SELECT relative_path, display_name, depth, is_current FROM fonts`)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("fontstore: load fonts: %w", err)
	}
	defer rows.Close()

	var records []models.FontRecord
	for rows.Next() {
		var rec models.FontRecord
		if err := rows.Scan(&rec.RelativePath, &rec.DisplayName, &rec.Depth, &rec.IsCurrent); err != nil {
			return nil, time.Time{}, fmt.Errorf("fontstore: scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, generatedAt, rows.Err()
}

// UpdateCurrent retags the persisted records so the selection survives a
// restart without a rescan. An empty path clears every tag.
func (s *Store) UpdateCurrent(relativePath string) error {
	_, err := s.conn.Exec(`
		UPDATE fonts
		SET is_current = (relative_path = ? COLLATE NOCASE AND ? != '')
	`, relativePath, relativePath)
	if err != nil {
		return fmt.Errorf("fontstore: update current: %w", err)
	}
	return nil
}
