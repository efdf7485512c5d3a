package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KV provides key-value operations with expiry, used by cache decorators.
// Consumers declare the narrow subset they need.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CacheStore is the full cache store surface.
type CacheStore interface {
	Pinger
	KV
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// SQL is the statement surface of the relational store. A pgx connection
// pool satisfies it directly.
type SQL interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
