// Package export builds spreadsheet downloads of the stored sale
// records, the counterpart of the bulk upload pipeline.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"referenciales-api/internal/domain"
	"referenciales-api/internal/repository"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Referenciales"

var columnHeaders = []string{
	"lat", "lng", "fojas", "numero", "anio", "cbr",
	"comprador", "vendedor", "predio", "comuna", "rol",
	"fechaescritura", "superficie", "monto", "observaciones",
}

// Service streams stored referenciales into an xlsx workbook. Records
// are fetched page by page so a large export never loads the whole
// table at once.
type Service struct {
	pool          repository.DB
	referenciales repository.ReferencialRepository
	pageSize      int
}

type Option func(*Service)

func WithPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

func NewService(pool repository.DB, referenciales repository.ReferencialRepository, opts ...Option) *Service {
	service := &Service{
		pool:          pool,
		referenciales: referenciales,
		pageSize:      1000,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Request narrows an export. An empty Comuna exports everything.
type Request struct {
	Comuna string
}

// FileName returns the suggested download name for the request.
func (r Request) FileName() string {
	base := "referenciales"
	if comuna := sanitizeFileComponent(r.Comuna); comuna != "" {
		base = base + "-" + comuna
	}
	return base + ".xlsx"
}

// Export writes the workbook to w and returns the number of exported
// records.
func (s *Service) Export(ctx context.Context, w io.Writer, req Request) (int, error) {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	stream, err := file.NewStreamWriter("Sheet1")
	if err != nil {
		return 0, fmt.Errorf("failed to open stream writer: %w", err)
	}

	header := make([]any, len(columnHeaders))
	for i, name := range columnHeaders {
		header[i] = name
	}
	if err := stream.SetRow("A1", header); err != nil {
		return 0, fmt.Errorf("failed to write header row: %w", err)
	}

	exported := 0
	offset := 0
	for {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}

		page, err := s.referenciales.List(ctx, s.pool, req.Comuna, s.pageSize, offset)
		if err != nil {
			return 0, fmt.Errorf("failed to list referenciales: %w", err)
		}
		if len(page) == 0 {
			break
		}

		for _, referencial := range page {
			exported++
			cell, err := excelize.CoordinatesToCellName(1, exported+1)
			if err != nil {
				return 0, fmt.Errorf("failed to address row %d: %w", exported, err)
			}
			if err := stream.SetRow(cell, recordCells(referencial)); err != nil {
				return 0, fmt.Errorf("failed to write row %d: %w", exported, err)
			}
		}

		if len(page) < s.pageSize {
			break
		}
		offset += s.pageSize
	}

	if err := stream.Flush(); err != nil {
		return 0, fmt.Errorf("failed to flush workbook: %w", err)
	}
	if err := file.SetSheetName("Sheet1", sheetName); err != nil {
		return 0, fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := file.WriteTo(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}

	return exported, nil
}

func recordCells(r domain.Referencial) []any {
	return []any{
		r.Lat,
		r.Lng,
		r.Fojas,
		r.Numero,
		r.Anio,
		r.CBR,
		r.Comprador,
		r.Vendedor,
		r.Predio,
		r.Comuna,
		r.Rol,
		r.FechaEscritura.Format(time.DateOnly),
		r.Superficie,
		r.Monto,
		r.Observaciones,
	}
}

func sanitizeFileComponent(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	builder := strings.Builder{}
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			builder.WriteRune(r)
		case r >= '0' && r <= '9':
			builder.WriteRune(r)
		case r == '-' || r == '_':
			builder.WriteRune(r)
		default:
			builder.WriteRune('-')
		}
	}
	return strings.Trim(builder.String(), "-")
}
