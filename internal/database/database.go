package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Supported drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Open connects to the database and verifies the connection
func Open(ctx context.Context, driver, conn string) (*sql.DB, error) {
	dsn := conn
	switch driver {
	case DriverPostgres:
	case DriverSQLite:
		dsn = sqliteDSN(conn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// every connection to :memory: is a separate database
		if isMemory(conn) {
			db.SetMaxOpenConns(1)
		}
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrate creates the schema if it does not exist yet
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	schema, err := schemaFS.ReadFile("schema/" + driver + ".sql")
	if err != nil {
		return fmt.Errorf("no schema for driver %q: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func isMemory(conn string) bool {
	return conn == ":memory:" || strings.Contains(conn, "mode=memory")
}

func sqliteDSN(conn string) string {
	sep := "?"
	if strings.Contains(conn, "?") {
		sep = "&"
	}
	if !isMemory(conn) {
		conn += sep + "_pragma=journal_mode(WAL)"
		sep = "&"
	}
	return conn + sep + "_pragma=foreign_keys(1)"
}
