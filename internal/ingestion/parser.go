package ingestion

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned when an uploaded file is not supported.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoRecords is returned when the file holds a header but no data rows.
	ErrNoRecords = errors.New("no records to import")

	byteOrderMark = []byte{0xEF, 0xBB, 0xBF}
)

// ParseError wraps a fatal failure to read the upload as tabular text.
// It aborts the whole import before anything is validated or written.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse file: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// detectDelimiter inspects only the first line of the payload and counts
// commas against semicolons. Semicolon wins only when it strictly
// outnumbers the comma; everything else, including a line with neither,
// falls back to comma.
func detectDelimiter(payload []byte) rune {
	line := payload
	if idx := bytes.IndexByte(payload, '\n'); idx >= 0 {
		line = payload[:idx]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

// parseTable turns the raw upload into typed rows. CSV-style text is the
// default path; .xlsx goes through excelize. Legacy .xls is rejected.
func parseTable(fileName string, payload []byte) ([]ReferencialRow, error) {
	switch ext := strings.ToLower(filepath.Ext(fileName)); ext {
	case ".xlsx":
		records, err := parseXLSX(payload)
		if err != nil {
			return nil, err
		}
		return buildRows(records)
	case ".xls":
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	default:
		records, err := parseCSV(payload)
		if err != nil {
			return nil, err
		}
		return buildRows(records)
	}
}

func parseCSV(payload []byte) ([][]string, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = detectDelimiter(payload)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	return records, nil
}

func parseXLSX(payload []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Err: errors.New("excel file has no sheets")}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	return rows, nil
}

// buildRows takes the header from the first non-empty line and converts
// every remaining non-empty line into a typed row. Cells are trimmed;
// short lines are padded with empty cells.
func buildRows(records [][]string) ([]ReferencialRow, error) {
	var headers []string
	var rows []ReferencialRow

	for _, record := range records {
		if isEmptyRecord(record) {
			continue
		}
		if headers == nil {
			headers = make([]string, len(record))
			for i, cell := range record {
				headers[i] = strings.ToLower(strings.TrimSpace(cell))
			}
			continue
		}
		rows = append(rows, rowFromRecord(headers, record, len(rows)+1))
	}

	if headers == nil || len(rows) == 0 {
		return nil, ErrNoRecords
	}

	return rows, nil
}

func isEmptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
