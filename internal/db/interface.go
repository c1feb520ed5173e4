package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store defines the database operations used by HTTP handlers and jobs.
// It is satisfied by *Queries (compile-time check below).
type Store interface {
	Pool() *pgxpool.Pool
	Ping(ctx context.Context) error

	InsertEmailGeneration(ctx context.Context, arg InsertEmailGenerationParams) (EmailGeneration, error)
	ListEmailGenerations(ctx context.Context, arg ListEmailGenerationsParams) ([]EmailGeneration, error)
	CountEmailGenerations(ctx context.Context, arg ListEmailGenerationsParams) (int64, error)
	DeleteGenerationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	GetAnalytics(ctx context.Context) (AnalyticsReport, error)
}

var _ Store = (*Queries)(nil)
