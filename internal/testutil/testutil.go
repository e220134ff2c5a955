// Package testutil provides helpers shared by package tests.
package testutil

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pvedi/crm-backend/internal/db"
)

// NewDB returns an isolated in-memory database with the full schema
// applied. Each call gets its own database; it is closed when the test
// finishes.
func NewDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	// One connection keeps the in-memory database alive for the test's
	// duration and serializes access the way the app's handlers do.
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}
