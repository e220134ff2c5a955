package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver
	_ "modernc.org/sqlite"             // pure go sqlite driver
)

// Open connects to the database named by the DSN. The scheme selects the
// driver: postgres:// (or postgresql://) uses pgx, sqlite://<path> uses the
// embedded sqlite engine.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		conn *sql.DB
		err  error
	)

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		conn, err = sql.Open("pgx", dsn)
	case strings.HasPrefix(dsn, "sqlite://"):
		path := strings.TrimPrefix(dsn, "sqlite://")
		conn, err = sql.Open("sqlite", "file:"+path+"?_pragma=foreign_keys(1)")
	default:
		return nil, fmt.Errorf("unsupported database url %q", dsn)
	}
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Fail fast
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return conn, nil
}
