package ingestion

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ValidationError is a structural problem found before any write. One row
// can produce several, one per offending field.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ProcessingError is a row that passed validation but failed during
// commit. It never affects sibling rows.
type ProcessingError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// Result aggregates the outcome of one import request.
type Result struct {
	TotalRows        int               `json:"totalRows"`
	Created          int               `json:"created"`
	ValidationErrors []ValidationError `json:"validationErrors,omitempty"`
	Errors           []ProcessingError `json:"errors,omitempty"`
	Partial          bool              `json:"partial"`
}

// Gated reports whether the pre-commit validation gate rejected the batch.
func (r Result) Gated() bool {
	return len(r.ValidationErrors) > 0
}

// TotalFailure reports whether every row failed at the commit stage.
func (r Result) TotalFailure() bool {
	return !r.Gated() && r.Created == 0 && len(r.Errors) > 0
}

// classifyRowError turns a commit failure into the human readable message
// carried by a ProcessingError. Postgres constraint violations get a
// specific wording; everything else passes through as-is.
func classifyRowError(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23502": // not_null_violation
			if pgErr.ColumnName != "" {
				return "missing required field: " + pgErr.ColumnName
			}
			return "missing required field"
		case "23503": // foreign_key_violation
			return "foreign key violation: referenced record does not exist"
		case "23505": // unique_violation
			return "duplicate record"
		}
	}
	return err.Error()
}
