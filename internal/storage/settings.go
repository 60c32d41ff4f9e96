package storage

import (
	"fmt"
	"time"

	"pagecraft/internal/domain"
)

// SettingsStore implements domain.SettingsStore using SQLite. One row
// per section or column, keyed by the element's id.
type SettingsStore struct {
	db *DB
}

func NewSettingsStore(db *DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) UpsertSettings(rec *domain.SettingsRecord) error {
	rec.UpdatedAt = time.Now()
	rec.SettingsJSON = normalizeSettingsJSON(rec.SettingsJSON)
	_, err := s.db.Conn().Exec(
		`INSERT INTO element_settings (id, page_id, kind, settings_json, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			settings_json = excluded.settings_json,
			updated_at = excluded.updated_at`,
		rec.ID, rec.PageID, rec.Kind, rec.SettingsJSON, rec.UpdatedAt,
	)
	return err
}

func (s *SettingsStore) GetSettings(id string) (*domain.SettingsRecord, error) {
	rec := &domain.SettingsRecord{}
	err := s.db.Conn().QueryRow(
		`SELECT id, page_id, kind, settings_json, updated_at FROM element_settings WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.PageID, &rec.Kind, &rec.SettingsJSON, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	rec.SettingsJSON = normalizeSettingsJSON(rec.SettingsJSON)
	return rec, nil
}

func (s *SettingsStore) ListSettings(pageID, kind string) ([]domain.SettingsRecord, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, page_id, kind, settings_json, updated_at FROM element_settings WHERE page_id = ? AND kind = ? ORDER BY updated_at ASC`,
		pageID, kind,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.SettingsRecord
	for rows.Next() {
		var rec domain.SettingsRecord
		if err := rows.Scan(&rec.ID, &rec.PageID, &rec.Kind, &rec.SettingsJSON, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		rec.SettingsJSON = normalizeSettingsJSON(rec.SettingsJSON)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *SettingsStore) DeleteSettings(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM element_settings WHERE id = ?`, id)
	return err
}
