package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pagecraft/internal/domain"
)

// WidgetStore implements domain.WidgetStore using SQLite.
type WidgetStore struct {
	db *DB
}

func NewWidgetStore(db *DB) *WidgetStore {
	return &WidgetStore{db: db}
}

func (s *WidgetStore) UpsertWidget(w *domain.WidgetRecord) error {
	now := time.Now()
	w.UpdatedAt = now
	w.General = normalizeSettingsJSON(w.General)
	w.Style = normalizeSettingsJSON(w.Style)
	w.Advanced = normalizeSettingsJSON(w.Advanced)
	_, err := s.db.Conn().Exec(
		`INSERT INTO widgets (id, page_id, type, general_json, style_json, advanced_json, sort_order, is_visible, is_enabled, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			general_json = excluded.general_json,
			style_json = excluded.style_json,
			advanced_json = excluded.advanced_json,
			sort_order = excluded.sort_order,
			is_visible = excluded.is_visible,
			is_enabled = excluded.is_enabled,
			version = excluded.version,
			updated_at = excluded.updated_at`,
		w.ID, w.PageID, w.Type, w.General, w.Style, w.Advanced,
		w.SortOrder, w.IsVisible, w.IsEnabled, w.Version, now, now,
	)
	return err
}

func (s *WidgetStore) GetWidget(id string) (*domain.WidgetRecord, error) {
	w := &domain.WidgetRecord{}
	err := s.db.Conn().QueryRow(
		`SELECT id, page_id, type, general_json, style_json, advanced_json, sort_order, is_visible, is_enabled, version, created_at, updated_at FROM widgets WHERE id = ?`, id,
	).Scan(&w.ID, &w.PageID, &w.Type, &w.General, &w.Style, &w.Advanced, &w.SortOrder, &w.IsVisible, &w.IsEnabled, &w.Version, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get widget: %w", err)
	}
	normalizeRecord(w)
	return w, nil
}

func (s *WidgetStore) ListWidgets(pageID string) ([]domain.WidgetRecord, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, page_id, type, general_json, style_json, advanced_json, sort_order, is_visible, is_enabled, version, created_at, updated_at FROM widgets WHERE page_id = ? ORDER BY sort_order ASC, created_at ASC`,
		pageID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var widgets []domain.WidgetRecord
	for rows.Next() {
		var w domain.WidgetRecord
		if err := rows.Scan(&w.ID, &w.PageID, &w.Type, &w.General, &w.Style, &w.Advanced, &w.SortOrder, &w.IsVisible, &w.IsEnabled, &w.Version, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		normalizeRecord(&w)
		widgets = append(widgets, w)
	}
	return widgets, rows.Err()
}

func (s *WidgetStore) DeleteWidget(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM widgets WHERE id = ?`, id)
	return err
}

// PruneWidgets removes rows for widgets no longer present in the page
// layout. Runs after every full save so deleted widgets don't leave
// stale settings behind.
func (s *WidgetStore) PruneWidgets(pageID string, keep []string) error {
	if len(keep) == 0 {
		_, err := s.db.Conn().Exec(`DELETE FROM widgets WHERE page_id = ?`, pageID)
		return err
	}
	placeholders := strings.Repeat("?,", len(keep))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, 0, len(keep)+1)
	args = append(args, pageID)
	for _, id := range keep {
		args = append(args, id)
	}
	_, err := s.db.Conn().Exec(
		fmt.Sprintf(`DELETE FROM widgets WHERE page_id = ? AND id NOT IN (%s)`, placeholders),
		args...,
	)
	return err
}

func normalizeRecord(w *domain.WidgetRecord) {
	w.General = normalizeSettingsJSON(w.General)
	w.Style = normalizeSettingsJSON(w.Style)
	w.Advanced = normalizeSettingsJSON(w.Advanced)
}

// normalizeSettingsJSON coerces legacy settings payloads into object
// form. Rows written by the old backend stored empty settings as "[]"
// (a PHP-style empty array); decoding that as a map fails everywhere
// downstream, so it becomes "{}" on the way in and out.
func normalizeSettingsJSON(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed == "[]" || trimmed == "null" {
		return "{}"
	}
	if !json.Valid([]byte(trimmed)) {
		return "{}"
	}
	return trimmed
}
