package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImportLogEntry captures row level issues that occur during a bulk import.
type ImportLogEntry struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	FileName  string    `json:"file_name"`
	RowNumber *int      `json:"row_number,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
