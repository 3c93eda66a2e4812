package database

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"yatube/internal/config"
)

//go:embed schema.sql
var schema string

type Database struct {
	DBConn *sql.DB
	Driver string
}

// NewDatabase opens the sqlite file at dbPath with the given driver and
// applies the schema. Foreign keys are switched on for every connection.
func NewDatabase(ctx context.Context, driver, dbPath string) (*Database, error) {
	dsn, err := buildDSN(driver, dbPath)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dbconn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := dbconn.PingContext(ctx); err != nil {
		dbconn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	database := &Database{DBConn: dbconn, Driver: driver}

	if err := database.executeSchema(ctx); err != nil {
		dbconn.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return database, nil
}

func buildDSN(driver, dbPath string) (string, error) {
	switch driver {
	case config.DriverSQLite:
		return "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", nil
	case config.DriverSQLite3:
		return dbPath + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

func (d *Database) executeSchema(ctx context.Context) error {
	_, err := d.DBConn.ExecContext(ctx, schema)
	return err
}

func (d *Database) Close() error {
	if d.DBConn != nil {
		return d.DBConn.Close()
	}
	return nil
}

func (d *Database) Ping(ctx context.Context) error {
	return d.DBConn.PingContext(ctx)
}

// isForeignKeyViolation reports whether err is SQLite rejecting a write
// that references a missing row. The cgo driver's error type only exists
// with cgo, so it is matched by message.
func isForeignKeyViolation(err error) bool {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// Timestamps are stored as unix nanoseconds.
func toUnix(t time.Time) int64 {
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	return time.Unix(0, n)
}
