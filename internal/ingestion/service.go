// Package ingestion implements the bulk import pipeline for referenciales:
// delimiter detection, tabular parsing, the structural validation gate,
// per-row transactional commits, and result aggregation.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"referenciales-api/internal/domain"
	"referenciales-api/internal/repository"

	"github.com/google/uuid"
)

// Service drives one import request from raw payload to aggregated result.
type Service struct {
	committer RowCommitter
	logs      repository.ImportLogRepository
}

// NewService creates a new import service. logs may be nil; row failures
// are then only reported in the response.
func NewService(committer RowCommitter, logs repository.ImportLogRepository) *Service {
	return &Service{
		committer: committer,
		logs:      logs,
	}
}

// Request describes one bulk import invocation.
type Request struct {
	UserID   string
	FileName string
	Data     io.Reader
}

// Import runs the full pipeline. The returned error is fatal (parse
// failure, empty file, bad request); everything row-related is reported
// inside Result instead. Rows are processed strictly in input order, one
// transaction at a time, so two rows naming the same new conservador
// within a batch never create it twice.
func (s *Service) Import(ctx context.Context, req Request) (Result, error) {
	var result Result

	if strings.TrimSpace(req.UserID) == "" {
		return result, errors.New("user id is required")
	}
	if req.Data == nil {
		return result, errors.New("data reader is required")
	}

	payload, err := io.ReadAll(req.Data)
	if err != nil {
		return result, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(payload) == 0 {
		return result, &ParseError{Err: errors.New("file is empty")}
	}

	rows, err := parseTable(req.FileName, payload)
	if err != nil {
		return result, err
	}
	result.TotalRows = len(rows)

	// Structural gate: any error rejects the whole batch untouched.
	if validationErrors := validateRows(rows); len(validationErrors) > 0 {
		result.ValidationErrors = validationErrors
		for _, validationErr := range validationErrors {
			s.logRowError(ctx, req, validationErr.Row, fmt.Sprintf("%s: %s", validationErr.Field, validationErr.Message))
		}
		return result, nil
	}

	for _, row := range rows {
		if _, err := s.commitRow(ctx, req.UserID, row); err != nil {
			processingErr := ProcessingError{Row: row.Row, Error: classifyRowError(err)}
			result.Errors = append(result.Errors, processingErr)
			s.logRowError(ctx, req, row.Row, processingErr.Error)
			continue
		}
		result.Created++
	}

	result.Partial = result.Created > 0 && len(result.Errors) > 0
	return result, nil
}

// commitRow shields the loop from panics inside a single row's commit;
// nothing may abort the batch once the gate has passed.
func (s *Service) commitRow(ctx context.Context, userID string, row ReferencialRow) (id uuid.UUID, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("row commit panicked: %v", p)
		}
	}()
	return s.committer.CommitRow(ctx, userID, row)
}

func (s *Service) logRowError(ctx context.Context, req Request, rowNumber int, message string) {
	if s.logs == nil {
		return
	}
	entry := domain.ImportLogEntry{
		UserID:    req.UserID,
		FileName:  req.FileName,
		RowNumber: &rowNumber,
		Message:   message,
	}
	if err := s.logs.Record(ctx, entry); err != nil {
		log.Printf("[IMPORT] failed to record import log: %v", err)
	}
}
