package repository

import (
	"context"
	"testing"
	"time"

	"referenciales-api/internal/domain"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"
)

func TestImportLogRepository_Record(t *testing.T) {
	mock := newMockPool(t)
	rowNumber := 3

	mock.ExpectExec(`INSERT INTO import_logs`).
		WithArgs("user-1", "records.csv", 3, "foreign key violation: referenced record does not exist").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := NewImportLogRepository(mock).Record(context.Background(), domain.ImportLogEntry{
		UserID:    "user-1",
		FileName:  "records.csv",
		RowNumber: &rowNumber,
		Message:   "foreign key violation: referenced record does not exist",
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	expectationsWereMet(t, mock)
}

func TestImportLogRepository_RecordWithoutRowNumber(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectExec(`INSERT INTO import_logs`).
		WithArgs("user-1", "records.csv", nil, "file is empty").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := NewImportLogRepository(mock).Record(context.Background(), domain.ImportLogEntry{
		UserID:   "user-1",
		FileName: "records.csv",
		Message:  "file is empty",
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	expectationsWereMet(t, mock)
}

func TestImportLogRepository_List(t *testing.T) {
	mock := newMockPool(t)
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "user_id", "file_name", "row_number", "message", "created_at"}).
		AddRow(uuid.New(), "user-1", "records.csv", int64(3), "duplicate record", now).
		AddRow(uuid.New(), "user-1", "records.csv", nil, "file is empty", now)
	mock.ExpectQuery(`SELECT`).
		WithArgs("user-1", "records.csv", 200, 0).
		WillReturnRows(rows)

	entries, err := NewImportLogRepository(mock).List(context.Background(), "user-1", "records.csv", 0, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List() returned %d entries, want 2", len(entries))
	}
	if entries[0].RowNumber == nil || *entries[0].RowNumber != 3 {
		t.Errorf("first entry should carry row number 3, got %+v", entries[0].RowNumber)
	}
	if entries[1].RowNumber != nil {
		t.Errorf("second entry should have no row number")
	}

	expectationsWereMet(t, mock)
}
