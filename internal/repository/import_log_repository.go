package repository

import (
	"context"
	"fmt"

	"referenciales-api/internal/domain"

	"github.com/jackc/pgx/v5/pgtype"
)

type importLogRepository struct {
	pool DB
}

// NewImportLogRepository wires a repository backed by pgxpool.
func NewImportLogRepository(pool DB) ImportLogRepository {
	return &importLogRepository{pool: pool}
}

func (r *importLogRepository) Record(ctx context.Context, entry domain.ImportLogEntry) error {
	if r.pool == nil {
		return fmt.Errorf("import log repository not initialized")
	}

	var rowNumber any
	if entry.RowNumber != nil {
		rowNumber = *entry.RowNumber
	}

	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO import_logs (user_id, file_name, row_number, message)
		 VALUES ($1, $2, $3, $4)`,
		entry.UserID,
		entry.FileName,
		rowNumber,
		entry.Message,
	)
	if err != nil {
		return fmt.Errorf("failed to record import log: %w", err)
	}

	return nil
}

func (r *importLogRepository) List(ctx context.Context, userID string, fileName string, limit int, offset int) ([]domain.ImportLogEntry, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("import log repository not initialized")
	}

	if limit <= 0 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT id, user_id, file_name, row_number, message, created_at
		 FROM import_logs
		 WHERE user_id = $1
		   AND file_name = $2
		 ORDER BY created_at DESC
		 LIMIT $3 OFFSET $4`,
		userID,
		fileName,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list import logs: %w", err)
	}
	defer rows.Close()

	logs := []domain.ImportLogEntry{}
	for rows.Next() {
		var (
			entry     domain.ImportLogEntry
			rowNumber pgtype.Int4
			createdAt pgtype.Timestamptz
		)
		if scanErr := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.FileName,
			&rowNumber,
			&entry.Message,
			&createdAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", scanErr)
		}

		if rowNumber.Valid {
			value := int(rowNumber.Int32)
			entry.RowNumber = &value
		}
		if createdAt.Valid {
			entry.CreatedAt = createdAt.Time
		}

		logs = append(logs, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate import logs: %w", rowsErr)
	}

	return logs, nil
}
