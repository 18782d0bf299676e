package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Querier is the storage handle repositories run their statements against.
// Both *sqlx.DB and *sqlx.Conn satisfy it.
type Querier interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
}

// SchemaStatements create the products table and its ordering index.
// Every statement is idempotent.
var SchemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
        id          BIGSERIAL PRIMARY KEY,
        name        TEXT NOT NULL,
        category    TEXT NOT NULL,
        price       DOUBLE PRECISION NOT NULL,
        image       TEXT NOT NULL DEFAULT '',
        description TEXT NOT NULL,
        created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE INDEX IF NOT EXISTS idx_products_created_at ON products (created_at DESC, id DESC)`,
}

// EnsureSchema creates the products table if it does not exist yet.
// It is safe to call on every request.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range SchemaStatements {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
