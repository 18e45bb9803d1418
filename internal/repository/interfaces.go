package repository

import (
	"context"
	"errors"

	"referenciales-api/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// DB is the executor subset repositories run their queries against.
// Both *pgxpool.Pool and pgx.Tx satisfy it, so the same repository can
// serve pooled reads and the row-scoped import transactions.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ConservadorRepository defines the interface for registry office operations
type ConservadorRepository interface {
	Create(ctx context.Context, db DB, conservador domain.Conservador) (domain.Conservador, error)
	GetByNombre(ctx context.Context, db DB, nombre string) (domain.Conservador, error)
	List(ctx context.Context, db DB) ([]domain.Conservador, error)
}

// ReferencialRepository defines the interface for sale record operations
type ReferencialRepository interface {
	Create(ctx context.Context, db DB, referencial domain.Referencial) (domain.Referencial, error)
	CountByUser(ctx context.Context, db DB, userID string) (int64, error)
	List(ctx context.Context, db DB, comuna string, limit int, offset int) ([]domain.Referencial, error)
}

// ImportLogRepository records row level import failures for later review.
type ImportLogRepository interface {
	Record(ctx context.Context, entry domain.ImportLogEntry) error
	List(ctx context.Context, userID string, fileName string, limit int, offset int) ([]domain.ImportLogEntry, error)
}
