package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// EnsureSchema creates the observations table when it does not exist. The
// server runs it at startup so a fresh database works without a separate
// migration step.
func EnsureSchema(ctx context.Context, db *sqlx.DB, table string) error {
	if !identifierPattern.MatchString(table) {
		return fmt.Errorf("invalid observations table name: %q", table)
	}

	_, err := db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			parameter TEXT NOT NULL,
			ts TIMESTAMP WITH TIME ZONE NOT NULL,
			value DOUBLE PRECISION,
			PRIMARY KEY (parameter, ts)
		)
	`, table))
	if err != nil {
		return fmt.Errorf("failed to create %s table: %w", table, err)
	}
	return nil
}
