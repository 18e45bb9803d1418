package ingestion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"referenciales-api/internal/domain"
	"referenciales-api/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeTx satisfies pgx.Tx for committer tests; only the lifecycle
// methods carry behavior.
type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }

func (t *fakeTx) Commit(ctx context.Context) error {
	if t.committed || t.rolledBack {
		return pgx.ErrTxClosed
	}
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("not implemented")
}

func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }

func (t *fakeTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errors.New("not implemented")
}

func (t *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }

func (t *fakeTx) Conn() *pgx.Conn { return nil }

type fakeBeginner struct {
	txs []*fakeTx
}

func (b *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	tx := &fakeTx{}
	b.txs = append(b.txs, tx)
	return tx, nil
}

type memConservadorRepo struct {
	byName  map[string]domain.Conservador
	created int
}

func newMemConservadorRepo() *memConservadorRepo {
	return &memConservadorRepo{byName: map[string]domain.Conservador{}}
}

func (r *memConservadorRepo) Create(ctx context.Context, db repository.DB, conservador domain.Conservador) (domain.Conservador, error) {
	r.byName[strings.ToLower(conservador.Nombre)] = conservador
	r.created++
	return conservador, nil
}

func (r *memConservadorRepo) GetByNombre(ctx context.Context, db repository.DB, nombre string) (domain.Conservador, error) {
	if conservador, ok := r.byName[strings.ToLower(nombre)]; ok {
		return conservador, nil
	}
	return domain.Conservador{}, repository.ErrNotFound
}

func (r *memConservadorRepo) List(ctx context.Context, db repository.DB) ([]domain.Conservador, error) {
	return nil, errors.New("not implemented")
}

type memReferencialRepo struct {
	created []domain.Referencial
	failErr error
}

func (r *memReferencialRepo) Create(ctx context.Context, db repository.DB, referencial domain.Referencial) (domain.Referencial, error) {
	if r.failErr != nil {
		return domain.Referencial{}, r.failErr
	}
	r.created = append(r.created, referencial)
	return referencial, nil
}

func (r *memReferencialRepo) CountByUser(ctx context.Context, db repository.DB, userID string) (int64, error) {
	return int64(len(r.created)), nil
}

func (r *memReferencialRepo) List(ctx context.Context, db repository.DB, comuna string, limit int, offset int) ([]domain.Referencial, error) {
	return r.created, nil
}

func TestCommitRowConvertsTypes(t *testing.T) {
	beginner := &fakeBeginner{}
	conservadores := newMemConservadorRepo()
	referenciales := &memReferencialRepo{}
	committer := NewCommitter(beginner, conservadores, referenciales)

	row := makeRow(1)
	id, err := committer.CommitRow(context.Background(), "user-1", row)
	if err != nil {
		t.Fatalf("commit returned error: %v", err)
	}
	if id == uuid.Nil {
		t.Fatalf("expected non-nil record id")
	}

	if len(referenciales.created) != 1 {
		t.Fatalf("expected 1 referencial, got %d", len(referenciales.created))
	}
	created := referenciales.created[0]
	if created.Numero != 789 || created.Anio != 2023 {
		t.Errorf("unexpected deed reference: numero=%d anio=%d", created.Numero, created.Anio)
	}
	if created.Superficie != 250.75 {
		t.Errorf("unexpected superficie: %v", created.Superficie)
	}
	if created.FechaEscritura.Format("2006-01-02") != "2023-07-20" {
		t.Errorf("unexpected fecha escritura: %v", created.FechaEscritura)
	}
	if created.UserID != "user-1" {
		t.Errorf("unexpected user id: %q", created.UserID)
	}
	if created.CBR != "Nueva Imperial" {
		t.Errorf("expected normalized office snapshot, got %q", created.CBR)
	}

	if len(beginner.txs) != 1 || !beginner.txs[0].committed {
		t.Fatalf("expected exactly one committed transaction")
	}
}

func TestCommitRowCreatesConservadorOncePerBatch(t *testing.T) {
	beginner := &fakeBeginner{}
	conservadores := newMemConservadorRepo()
	referenciales := &memReferencialRepo{}
	committer := NewCommitter(beginner, conservadores, referenciales)

	// Same office referenced three ways: labeled, plain, different case.
	names := []string{"cbr=Nueva Imperial", "Nueva Imperial", "NUEVA IMPERIAL"}
	for i, name := range names {
		row := makeRow(i + 1)
		row.CBR = name
		if _, err := committer.CommitRow(context.Background(), "user-1", row); err != nil {
			t.Fatalf("commit %d returned error: %v", i+1, err)
		}
	}

	if conservadores.created != 1 {
		t.Fatalf("expected exactly one conservador, got %d", conservadores.created)
	}
	officeID := referenciales.created[0].ConservadorID
	for i, created := range referenciales.created {
		if created.ConservadorID != officeID {
			t.Fatalf("row %d references a different office", i+1)
		}
	}
}

func TestCommitRowReusesExistingConservadorUntouched(t *testing.T) {
	beginner := &fakeBeginner{}
	conservadores := newMemConservadorRepo()
	existing := domain.NewConservador("Nueva Imperial", "Nueva Imperial")
	existing.Direccion = "Calle Prat 65" // manually curated
	conservadores.byName["nueva imperial"] = existing
	referenciales := &memReferencialRepo{}
	committer := NewCommitter(beginner, conservadores, referenciales)

	if _, err := committer.CommitRow(context.Background(), "user-1", makeRow(1)); err != nil {
		t.Fatalf("commit returned error: %v", err)
	}

	if conservadores.created != 0 {
		t.Fatalf("existing office must not be recreated")
	}
	if conservadores.byName["nueva imperial"].Direccion != "Calle Prat 65" {
		t.Fatalf("existing office was modified")
	}
	if referenciales.created[0].ConservadorID != existing.ID {
		t.Fatalf("record does not reference the existing office")
	}
}

func TestCommitRowRollsBackOnInsertFailure(t *testing.T) {
	beginner := &fakeBeginner{}
	referenciales := &memReferencialRepo{failErr: &pgconn.PgError{Code: "23505"}}
	committer := NewCommitter(beginner, newMemConservadorRepo(), referenciales)

	_, err := committer.CommitRow(context.Background(), "user-1", makeRow(1))
	if err == nil {
		t.Fatalf("expected commit error")
	}

	tx := beginner.txs[0]
	if tx.committed {
		t.Fatalf("failed row must not be committed")
	}
	if !tx.rolledBack {
		t.Fatalf("failed row must be rolled back")
	}
}

func TestCommitRowRejectsOutOfRangeCoordinates(t *testing.T) {
	beginner := &fakeBeginner{}
	committer := NewCommitter(beginner, newMemConservadorRepo(), &memReferencialRepo{})

	row := makeRow(1)
	row.Lat = "-120.5"
	_, err := committer.CommitRow(context.Background(), "user-1", row)
	if err == nil || !strings.Contains(err.Error(), "lat") {
		t.Fatalf("expected latitude rule violation, got %v", err)
	}
	if len(beginner.txs) != 0 {
		t.Fatalf("business rule failures must not open a transaction")
	}
}

func TestCommitRowConversionFailure(t *testing.T) {
	beginner := &fakeBeginner{}
	committer := NewCommitter(beginner, newMemConservadorRepo(), &memReferencialRepo{})

	row := makeRow(1)
	row.FechaEscritura = "July 20, 2023"
	_, err := committer.CommitRow(context.Background(), "user-1", row)
	if err == nil || !strings.Contains(err.Error(), "fechaescritura") {
		t.Fatalf("expected conversion error, got %v", err)
	}
	if len(beginner.txs) != 0 {
		t.Fatalf("conversion failures must not open a transaction")
	}
}
