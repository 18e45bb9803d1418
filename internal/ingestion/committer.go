package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"referenciales-api/internal/domain"
	"referenciales-api/internal/repository"
	"referenciales-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TxBeginner starts the row-scoped transactions. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RowCommitter persists one validated row as an atomic unit. On failure
// nothing of that row remains in the store and the error describes why.
type RowCommitter interface {
	CommitRow(ctx context.Context, userID string, row ReferencialRow) (uuid.UUID, error)
}

// Committer is the production RowCommitter: each row gets its own
// transaction in which the conservador is resolved (find-or-create) and
// the referencial inserted.
type Committer struct {
	pool          TxBeginner
	conservadores repository.ConservadorRepository
	referenciales repository.ReferencialRepository
	rules         *validator.ReferencialValidator
}

// NewCommitter creates a new row committer.
func NewCommitter(
	pool TxBeginner,
	conservadores repository.ConservadorRepository,
	referenciales repository.ReferencialRepository,
) *Committer {
	return &Committer{
		pool:          pool,
		conservadores: conservadores,
		referenciales: referenciales,
		rules:         validator.NewReferencialValidator(),
	}
}

// CommitRow converts the row to its persistent types, applies the
// single-record business rules, and writes conservador plus referencial
// inside one transaction.
func (c *Committer) CommitRow(ctx context.Context, userID string, row ReferencialRow) (uuid.UUID, error) {
	referencial, err := convertRow(userID, row)
	if err != nil {
		return uuid.Nil, err
	}

	if fieldErrs := c.rules.Validate(referencial); len(fieldErrs) > 0 {
		messages := make([]string, len(fieldErrs))
		for i, fieldErr := range fieldErrs {
			messages[i] = fieldErr.Error()
		}
		return uuid.Nil, errors.New(strings.Join(messages, "; "))
	}

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	conservador, err := c.resolveConservador(ctx, tx, row.CBR, row.Comuna)
	if err != nil {
		return uuid.Nil, err
	}
	referencial.ConservadorID = conservador.ID
	referencial.CBR = conservador.Nombre

	created, err := c.referenciales.Create(ctx, tx, referencial)
	if err != nil {
		return uuid.Nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit row: %w", err)
	}

	return created.ID, nil
}

// resolveConservador finds the office by normalized name or creates it
// with placeholder fields. Existing offices are returned untouched so
// manually curated records never get clobbered by an import.
func (c *Committer) resolveConservador(ctx context.Context, tx pgx.Tx, rawName, comuna string) (domain.Conservador, error) {
	nombre := domain.NormalizeConservadorName(rawName)

	existing, err := c.conservadores.GetByNombre(ctx, tx, nombre)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return domain.Conservador{}, err
	}

	created, err := c.conservadores.Create(ctx, tx, domain.NewConservador(nombre, comuna))
	if err != nil {
		return domain.Conservador{}, err
	}

	return created, nil
}

// convertRow parses every raw cell into its persistent type. The
// structural gate already checked formats, so failures here are rare and
// surface as row-local processing errors.
func convertRow(userID string, row ReferencialRow) (domain.Referencial, error) {
	referencial := domain.NewReferencial(userID)

	numero, err := strconv.Atoi(row.Numero)
	if err != nil {
		return domain.Referencial{}, fmt.Errorf("invalid numero %q: %w", row.Numero, err)
	}
	anio, err := strconv.Atoi(row.Anio)
	if err != nil {
		return domain.Referencial{}, fmt.Errorf("invalid anio %q: %w", row.Anio, err)
	}
	superficie, err := strconv.ParseFloat(row.Superficie, 64)
	if err != nil {
		return domain.Referencial{}, fmt.Errorf("invalid superficie %q: %w", row.Superficie, err)
	}
	monto, err := strconv.ParseFloat(row.Monto, 64)
	if err != nil {
		return domain.Referencial{}, fmt.Errorf("invalid monto %q: %w", row.Monto, err)
	}
	lat, err := strconv.ParseFloat(row.Lat, 64)
	if err != nil {
		return domain.Referencial{}, fmt.Errorf("invalid lat %q: %w", row.Lat, err)
	}
	lng, err := strconv.ParseFloat(row.Lng, 64)
	if err != nil {
		return domain.Referencial{}, fmt.Errorf("invalid lng %q: %w", row.Lng, err)
	}
	fecha, err := time.Parse(dateLayout, row.FechaEscritura)
	if err != nil {
		return domain.Referencial{}, fmt.Errorf("invalid fechaescritura %q: %w", row.FechaEscritura, err)
	}

	referencial.Fojas = row.Fojas
	referencial.Numero = numero
	referencial.Anio = anio
	referencial.Comprador = row.Comprador
	referencial.Vendedor = row.Vendedor
	referencial.Predio = row.Predio
	referencial.Comuna = row.Comuna
	referencial.Rol = row.Rol
	referencial.FechaEscritura = fecha
	referencial.Superficie = superficie
	referencial.Monto = monto
	referencial.Lat = lat
	referencial.Lng = lng
	referencial.Observaciones = row.Observaciones

	return referencial, nil
}
