package publish

import (
	"strings"
	"testing"
)

func TestBuildMySQLDSN(t *testing.T) {
	conn := &Connection{Host: "db.example.com", Database: "site", Username: "deploy"}
	dsn := buildMySQLDSN(conn, "s3cret")
	if !strings.HasPrefix(dsn, "deploy:s3cret@tcp(db.example.com:3306)/site?") {
		t.Errorf("dsn = %q", dsn)
	}
	conn.SSLMode = "require"
	if dsn := buildMySQLDSN(conn, "s3cret"); !strings.Contains(dsn, "tls=true") {
		t.Errorf("ssl dsn = %q", dsn)
	}
}

func TestBuildPostgresDSN(t *testing.T) {
	conn := &Connection{Host: "localhost", Port: 5433, Database: "site", Username: "deploy"}
	dsn := buildPostgresDSN(conn, "pw")
	for _, want := range []string{"host=localhost", "port=5433", "dbname=site", "sslmode=disable"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn %q missing %q", dsn, want)
		}
	}
}

func TestConnectionTableDefault(t *testing.T) {
	c := &Connection{}
	if c.table() != "published_pages" {
		t.Errorf("default table = %q", c.table())
	}
	c.Table = "cms_pages"
	if c.table() != "cms_pages" {
		t.Errorf("table = %q", c.table())
	}
}

func TestNewTarget_UnknownDriver(t *testing.T) {
	if _, err := NewTarget(&Connection{Driver: "oracle"}, ""); err == nil {
		t.Fatal("unknown driver must error")
	}
}
