package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-extras/go-kit/must"
	"github.com/rs/zerolog/log"
)

//go:embed schema/*.sql
var schemaFiles embed.FS

var schemaFS = must.Must(fs.Sub(schemaFiles, "schema"))

// Schema returns the idempotent schema script for a dialect.
func Schema(dialect Dialect) (string, error) {
	raw, err := fs.ReadFile(schemaFS, string(dialect)+".sql")
	if err != nil {
		return "", fmt.Errorf("no schema for dialect %q: %w", dialect, err)
	}
	return string(raw), nil
}

// Migrate runs the SQL statements to set up the database schema.
// Every statement is CREATE ... IF NOT EXISTS, so running it twice is harmless.
func Migrate(ctx context.Context, db *DB) error {
	script, err := Schema(db.Dialect())
	if err != nil {
		return err
	}

	statements := splitStatements(script)
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration statement: %w", err)
		}
	}

	log.Debug().Str("dialect", string(db.Dialect())).Int("statements", len(statements)).Msg("Database schema is up to date")
	return nil
}

// splitStatements splits a script on ';'. The schema files carry no
// semicolons inside literals or comments.
func splitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
