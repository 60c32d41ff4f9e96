package publish

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pagecraft/internal/domain"
)

// sqlTarget implements Target for MySQL and Postgres, which differ only
// in placeholders and upsert syntax.
type sqlTarget struct {
	db      *sql.DB
	dialect string
	table   string
}

func newSQLTarget(conn *Connection, driver, dsn string) (*sqlTarget, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	return &sqlTarget{db: db, dialect: driver, table: conn.table()}, nil
}

func (t *sqlTarget) Test(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := t.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", t.dialect, err)
	}
	return t.ensureSchema(ctx)
}

func (t *sqlTarget) ensureSchema(ctx context.Context) error {
	var ddl string
	switch t.dialect {
	case "mysql":
		ddl = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			page_id VARCHAR(64) PRIMARY KEY,
			title VARCHAR(255) NOT NULL DEFAULT '',
			layout_json LONGTEXT NOT NULL,
			widgets_json LONGTEXT NOT NULL,
			css LONGTEXT NOT NULL,
			version BIGINT NOT NULL DEFAULT 0,
			published_at DATETIME NOT NULL
		)`, t.table)
	case "postgres":
		ddl = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			page_id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			layout_json TEXT NOT NULL,
			widgets_json TEXT NOT NULL,
			css TEXT NOT NULL,
			version BIGINT NOT NULL DEFAULT 0,
			published_at TIMESTAMPTZ NOT NULL
		)`, t.table)
	}
	if _, err := t.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure %s schema: %w", t.dialect, err)
	}
	return nil
}

func (t *sqlTarget) Publish(ctx context.Context, p *domain.PublishPayload) error {
	if err := t.ensureSchema(ctx); err != nil {
		return err
	}
	now := time.Now()
	var query string
	switch t.dialect {
	case "mysql":
		query = fmt.Sprintf(`INSERT INTO %s (page_id, title, layout_json, widgets_json, css, version, published_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				title = VALUES(title),
				layout_json = VALUES(layout_json),
				widgets_json = VALUES(widgets_json),
				css = VALUES(css),
				version = VALUES(version),
				published_at = VALUES(published_at)`, t.table)
	case "postgres":
		query = fmt.Sprintf(`INSERT INTO %s (page_id, title, layout_json, widgets_json, css, version, published_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (page_id) DO UPDATE SET
				title = EXCLUDED.title,
				layout_json = EXCLUDED.layout_json,
				widgets_json = EXCLUDED.widgets_json,
				css = EXCLUDED.css,
				version = EXCLUDED.version,
				published_at = EXCLUDED.published_at`, t.table)
	}
	_, err := t.db.ExecContext(ctx, query,
		p.PageID, p.Title, p.LayoutJSON, p.WidgetsJSON, p.CSS, p.Version, now,
	)
	if err != nil {
		return fmt.Errorf("publish page %s: %w", p.PageID, err)
	}
	return nil
}

func (t *sqlTarget) Unpublish(ctx context.Context, pageID string) error {
	var query string
	switch t.dialect {
	case "mysql":
		query = fmt.Sprintf(`DELETE FROM %s WHERE page_id = ?`, t.table)
	case "postgres":
		query = fmt.Sprintf(`DELETE FROM %s WHERE page_id = $1`, t.table)
	}
	if _, err := t.db.ExecContext(ctx, query, pageID); err != nil {
		return fmt.Errorf("unpublish page %s: %w", pageID, err)
	}
	return nil
}

func (t *sqlTarget) Close() error {
	return t.db.Close()
}
