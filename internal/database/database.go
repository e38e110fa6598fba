package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver, registered as "pgx"
	_ "modernc.org/sqlite"             // SQLite driver, registered as "sqlite"
)

// Dialect identifies the SQL flavour spoken by the underlying driver.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DB is a connection pool that knows which SQL dialect it talks.
// Queries are written with '?' placeholders and passed through Rebind.
type DB struct {
	*sql.DB
	dialect Dialect
}

// New creates a new database connection pool for the given dialect and pings it.
func New(dialect Dialect, dataSourceName string) (*DB, error) {
	driverName, err := driverFor(dialect)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	db := &DB{DB: sqlDB, dialect: dialect}
	db.configurePool()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping %s database: %w", dialect, err)
	}
	if dialect == SQLite {
		if _, err = db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	}
	return db, nil
}

// NewSQLiteMemory opens a private in-memory SQLite database with the schema applied.
// Every call returns an independent database.
func NewSQLiteMemory(ctx context.Context) (*DB, error) {
	db, err := New(SQLite, "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func driverFor(dialect Dialect) (string, error) {
	switch dialect {
	case Postgres:
		return "pgx", nil
	case SQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported database dialect %q", dialect)
	}
}

func (db *DB) configurePool() {
	switch db.dialect {
	case Postgres:
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	case SQLite:
		// A single connection serialises writers and keeps in-memory databases alive.
		db.SetMaxOpenConns(1)
	}
}

// Dialect returns the SQL dialect of the pool.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Rebind rewrites '?' placeholders into the dialect's native form.
// Placeholders inside single-quoted literals are left alone.
func (db *DB) Rebind(query string) string {
	if db.dialect != Postgres {
		return query
	}
	return rebindDollar(query)
}

func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Now asks the database server for its current time.
func (db *DB) Now(ctx context.Context) (any, error) {
	query := "SELECT NOW()"
	if db.dialect == SQLite {
		query = "SELECT CURRENT_TIMESTAMP"
	}

	var now any
	if err := db.QueryRowContext(ctx, query).Scan(&now); err != nil {
		return nil, err
	}
	if raw, ok := now.([]byte); ok {
		now = string(raw)
	}
	return now, nil
}
