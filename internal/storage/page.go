package storage

import (
	"fmt"
	"time"

	"pagecraft/internal/domain"
)

// PageStore implements domain.PageStore using SQLite.
type PageStore struct {
	db *DB
}

func NewPageStore(db *DB) *PageStore {
	return &PageStore{db: db}
}

func (s *PageStore) CreatePage(p *domain.PageRecord) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.ContentJSON == "" {
		p.ContentJSON = `{"sections":[]}`
	}
	_, err := s.db.Conn().Exec(
		`INSERT INTO pages (id, title, content_json, is_published, version, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.ContentJSON, p.IsPublished, p.Version, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (s *PageStore) GetPage(id string) (*domain.PageRecord, error) {
	p := &domain.PageRecord{}
	err := s.db.Conn().QueryRow(
		`SELECT id, title, content_json, is_published, version, created_at, updated_at FROM pages WHERE id = ?`, id,
	).Scan(&p.ID, &p.Title, &p.ContentJSON, &p.IsPublished, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}
	return p, nil
}

func (s *PageStore) ListPages() ([]domain.PageRecord, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, title, content_json, is_published, version, created_at, updated_at FROM pages ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []domain.PageRecord
	for rows.Next() {
		var p domain.PageRecord
		if err := rows.Scan(&p.ID, &p.Title, &p.ContentJSON, &p.IsPublished, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// SavePage writes the layout and version, refusing to let an older
// in-flight save overwrite a newer row. Two rapid structural saves can
// complete out of order; the version guard makes the stale one land as
// ErrStaleVersion instead of silently rolling the page back.
func (s *PageStore) SavePage(p *domain.PageRecord) error {
	p.UpdatedAt = time.Now()
	res, err := s.db.Conn().Exec(
		`UPDATE pages SET title = ?, content_json = ?, is_published = ?, version = ?, updated_at = ? WHERE id = ? AND version < ?`,
		p.Title, p.ContentJSON, p.IsPublished, p.Version, p.UpdatedAt, p.ID, p.Version,
	)
	if err != nil {
		return fmt.Errorf("save page: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save page: %w", err)
	}
	if n == 0 {
		// Either the page is missing or a newer version already landed.
		if _, err := s.GetPage(p.ID); err != nil {
			return fmt.Errorf("save page %s: %w", p.ID, err)
		}
		return domain.ErrStaleVersion
	}
	return nil
}

func (s *PageStore) SetPublished(id string, published bool) error {
	_, err := s.db.Conn().Exec(
		`UPDATE pages SET is_published = ?, updated_at = ? WHERE id = ?`,
		published, time.Now(), id,
	)
	return err
}

func (s *PageStore) DeletePage(id string) error {
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM widgets WHERE page_id = ?`,
		`DELETE FROM element_settings WHERE page_id = ?`,
		`DELETE FROM editing_sessions WHERE page_id = ?`,
		`DELETE FROM pages WHERE id = ?`,
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("delete page: %w", err)
		}
	}
	return tx.Commit()
}
