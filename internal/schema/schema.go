// Package schema ensures the storage schema exists. All statements are
// additive and idempotent so Init is safe to run on every startup.
package schema

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// statements are executed in order on startup. CREATE ... IF NOT EXISTS
// only; nothing here may drop or rewrite existing data.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS contacts (
		id         BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name  TEXT NOT NULL,
		email      TEXT,
		phone      TEXT,
		company    TEXT,
		notes      TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	// Supports the default (last_name, first_name) sort order.
	`CREATE INDEX IF NOT EXISTS contacts_name_idx ON contacts (last_name, first_name)`,
}

// Init creates the contacts table and its name index if they are absent.
func Init(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
