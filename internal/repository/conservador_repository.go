package repository

import (
	"context"
	"errors"
	"fmt"

	"referenciales-api/internal/domain"

	"github.com/jackc/pgx/v5"
)

// conservadorRepository implements ConservadorRepository interface
type conservadorRepository struct{}

// NewConservadorRepository creates a new conservador repository
func NewConservadorRepository() ConservadorRepository {
	return &conservadorRepository{}
}

// Create inserts a new conservador
func (r *conservadorRepository) Create(ctx context.Context, db DB, conservador domain.Conservador) (domain.Conservador, error) {
	row := db.QueryRow(
		ctx,
		`INSERT INTO conservadores (id, nombre, direccion, comuna, region, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		conservador.ID,
		conservador.Nombre,
		conservador.Direccion,
		conservador.Comuna,
		conservador.Region,
		conservador.CreatedAt,
		conservador.UpdatedAt,
	)
	if err := row.Scan(&conservador.CreatedAt, &conservador.UpdatedAt); err != nil {
		return domain.Conservador{}, fmt.Errorf("failed to create conservador: %w", err)
	}

	return conservador, nil
}

// GetByNombre retrieves a conservador by case-insensitive exact name match.
// Returns ErrNotFound when no office carries that name.
func (r *conservadorRepository) GetByNombre(ctx context.Context, db DB, nombre string) (domain.Conservador, error) {
	row := db.QueryRow(
		ctx,
		`SELECT id, nombre, direccion, comuna, region, created_at, updated_at
		 FROM conservadores
		 WHERE LOWER(nombre) = LOWER($1)
		 LIMIT 1`,
		nombre,
	)

	var conservador domain.Conservador
	if err := row.Scan(
		&conservador.ID,
		&conservador.Nombre,
		&conservador.Direccion,
		&conservador.Comuna,
		&conservador.Region,
		&conservador.CreatedAt,
		&conservador.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Conservador{}, ErrNotFound
		}
		return domain.Conservador{}, fmt.Errorf("failed to get conservador by name: %w", err)
	}

	return conservador, nil
}

// List retrieves all conservadores ordered by name
func (r *conservadorRepository) List(ctx context.Context, db DB) ([]domain.Conservador, error) {
	rows, err := db.Query(
		ctx,
		`SELECT id, nombre, direccion, comuna, region, created_at, updated_at
		 FROM conservadores
		 ORDER BY nombre`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list conservadores: %w", err)
	}
	defer rows.Close()

	conservadores := []domain.Conservador{}
	for rows.Next() {
		var conservador domain.Conservador
		if scanErr := rows.Scan(
			&conservador.ID,
			&conservador.Nombre,
			&conservador.Direccion,
			&conservador.Comuna,
			&conservador.Region,
			&conservador.CreatedAt,
			&conservador.UpdatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan conservador: %w", scanErr)
		}
		conservadores = append(conservadores, conservador)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate conservadores: %w", rowsErr)
	}

	return conservadores, nil
}
