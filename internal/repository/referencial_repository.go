package repository

import (
	"context"
	"fmt"

	"referenciales-api/internal/domain"
)

// referencialRepository implements ReferencialRepository interface
type referencialRepository struct{}

// NewReferencialRepository creates a new referencial repository
func NewReferencialRepository() ReferencialRepository {
	return &referencialRepository{}
}

// Create inserts a new referencial
func (r *referencialRepository) Create(ctx context.Context, db DB, referencial domain.Referencial) (domain.Referencial, error) {
	row := db.QueryRow(
		ctx,
		`INSERT INTO referenciales (
			id, user_id, conservador_id, fojas, numero, anio, cbr,
			comprador, vendedor, predio, comuna, rol, fecha_escritura,
			superficie, monto, lat, lng, observaciones, created_at, updated_at
		 ) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20
		 )
		 RETURNING created_at, updated_at`,
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
	)
	if err := row.Scan(&referencial.CreatedAt, &referencial.UpdatedAt); err != nil {
		return domain.Referencial{}, fmt.Errorf("failed to create referencial: %w", err)
	}

	return referencial, nil
}

// List retrieves records ordered by deed date, newest first. An empty
// comuna matches everything.
func (r *referencialRepository) List(ctx context.Context, db DB, comuna string, limit int, offset int) ([]domain.Referencial, error) {
	if limit <= 0 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := db.Query(
		ctx,
		`SELECT id, user_id, conservador_id, fojas, numero, anio, cbr,
		        comprador, vendedor, predio, comuna, rol, fecha_escritura,
		        superficie, monto, lat, lng, observaciones, created_at, updated_at
		 FROM referenciales
		 WHERE ($1 = '' OR LOWER(comuna) = LOWER($1))
		 ORDER BY fecha_escritura DESC, created_at DESC
		 LIMIT $2 OFFSET $3`,
		comuna,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list referenciales: %w", err)
	}
	defer rows.Close()

	referenciales := []domain.Referencial{}
	for rows.Next() {
		var referencial domain.Referencial
		if scanErr := rows.Scan(
			&referencial.ID,
			&referencial.UserID,
			&referencial.ConservadorID,
			&referencial.Fojas,
			&referencial.Numero,
			&referencial.Anio,
			&referencial.CBR,
			&referencial.Comprador,
			&referencial.Vendedor,
			&referencial.Predio,
			&referencial.Comuna,
			&referencial.Rol,
			&referencial.FechaEscritura,
			&referencial.Superficie,
			&referencial.Monto,
			&referencial.Lat,
			&referencial.Lng,
			&referencial.Observaciones,
			&referencial.CreatedAt,
			&referencial.UpdatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan referencial: %w", scanErr)
		}
		referenciales = append(referenciales, referencial)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate referenciales: %w", rowsErr)
	}

	return referenciales, nil
}

// CountByUser returns how many referenciales a user has contributed.
func (r *referencialRepository) CountByUser(ctx context.Context, db DB, userID string) (int64, error) {
	var count int64
	err := db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM referenciales WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count referenciales: %w", err)
	}

	return count, nil
}
