// Package publish pushes finished pages to an external site database.
// The editor's own SQLite file is the working copy; publishing writes
// the layout, widget settings, and generated CSS to wherever the
// rendering site reads from — MySQL, Postgres, or MongoDB.
package publish

import (
	"context"
	"fmt"

	"pagecraft/internal/domain"
)

// Driver names accepted by NewTarget.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMongoDB  = "mongodb"
)

// Connection describes a publish destination. The password is kept out
// of this struct and supplied separately from the secret store.
type Connection struct {
	Name     string `json:"name"`
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	SSLMode  string `json:"ssl_mode"`
	// Table is the destination table or collection; defaults to
	// "published_pages".
	Table string `json:"table"`
}

func (c *Connection) table() string {
	if c.Table == "" {
		return "published_pages"
	}
	return c.Table
}

// Target abstracts one publish destination.
type Target interface {
	// Test verifies connectivity.
	Test(ctx context.Context) error

	// Publish upserts the page; republishing overwrites the previous row.
	Publish(ctx context.Context, p *domain.PublishPayload) error

	// Unpublish removes the page from the destination.
	Unpublish(ctx context.Context, pageID string) error

	// Close releases the connection.
	Close() error
}

// NewTarget creates a Target for the connection. The password comes
// from the secret store, never from persisted config.
func NewTarget(conn *Connection, password string) (Target, error) {
	switch conn.Driver {
	case DriverMySQL:
		return newSQLTarget(conn, "mysql", buildMySQLDSN(conn, password))
	case DriverPostgres:
		return newSQLTarget(conn, "postgres", buildPostgresDSN(conn, password))
	case DriverMongoDB:
		return newMongoTarget(conn, password)
	default:
		return nil, fmt.Errorf("unsupported publish driver: %s", conn.Driver)
	}
}
