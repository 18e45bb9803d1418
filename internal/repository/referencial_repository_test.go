package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"referenciales-api/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
)

func sampleReferencial() domain.Referencial {
	referencial := domain.NewReferencial("user-1")
	referencial.Fojas = "100"
	referencial.Numero = 789
	referencial.Anio = 2023
	referencial.CBR = "Nueva Imperial"
	referencial.Comprador = "Juan Perez"
	referencial.Vendedor = "Maria Soto"
	referencial.Predio = "Fundo El Roble"
	referencial.Comuna = "Nueva Imperial"
	referencial.Rol = "123-45"
	referencial.FechaEscritura = time.Date(2023, 7, 20, 0, 0, 0, 0, time.UTC)
	referencial.Superficie = 250.75
	referencial.Monto = 50000000
	referencial.Lat = -38.7397
	referencial.Lng = -72.5984
	return referencial
}

func TestReferencialRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	referencial := sampleReferencial()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO referenciales`).
		WithArgs(
			referencial.ID,
			referencial.UserID,
			referencial.ConservadorID,
			referencial.Fojas,
			referencial.Numero,
			referencial.Anio,
			referencial.CBR,
			referencial.Comprador,
			referencial.Vendedor,
			referencial.Predio,
			referencial.Comuna,
			referencial.Rol,
			referencial.FechaEscritura,
			referencial.Superficie,
			referencial.Monto,
			referencial.Lat,
			referencial.Lng,
			referencial.Observaciones,
			referencial.CreatedAt,
			referencial.UpdatedAt,
		).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	created, err := NewReferencialRepository().Create(context.Background(), mock, referencial)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID != referencial.ID {
		t.Errorf("Create() id = %v, want %v", created.ID, referencial.ID)
	}

	expectationsWereMet(t, mock)
}

func TestReferencialRepository_CreateSurfacesConstraintViolation(t *testing.T) {
	mock := newMockPool(t)
	referencial := sampleReferencial()
	pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "referenciales_conservador_id_fkey"}

	mock.ExpectQuery(`INSERT INTO referenciales`).
		WithArgs(
			referencial.ID,
			referencial.UserID,
			referencial.ConservadorID,
			referencial.Fojas,
			referencial.Numero,
			referencial.Anio,
			referencial.CBR,
			referencial.Comprador,
			referencial.Vendedor,
			referencial.Predio,
			referencial.Comuna,
			referencial.Rol,
			referencial.FechaEscritura,
			referencial.Superficie,
			referencial.Monto,
			referencial.Lat,
			referencial.Lng,
			referencial.Observaciones,
			referencial.CreatedAt,
			referencial.UpdatedAt,
		).
		WillReturnError(pgErr)

	_, err := NewReferencialRepository().Create(context.Background(), mock, referencial)
	var got *pgconn.PgError
	if !errors.As(err, &got) || got.Code != "23503" {
		t.Fatalf("Create() should surface the pg error for classification, got %v", err)
	}

	expectationsWereMet(t, mock)
}

func TestReferencialRepository_CountByUser(t *testing.T) {
	mock := newMockPool(t)

	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(42)))

	count, err := NewReferencialRepository().CountByUser(context.Background(), mock, "user-1")
	if err != nil {
		t.Fatalf("CountByUser() error = %v", err)
	}
	if count != 42 {
		t.Errorf("CountByUser() = %d, want 42", count)
	}

	expectationsWereMet(t, mock)
}
