// Package db holds the persistence layer for generation history: pgx-backed
// queries over the email_generations table plus the embedded schema.
package db

import (
	"context"
	"embed"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SchemaFiles carries the SQL migrations applied at startup.
//
//go:embed schema/*.sql
var SchemaFiles embed.FS

// DBTX is the subset of pgx usable with both a pool and a single connection.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries executes the hand-written SQL below against any DBTX.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}
