package ingestion

import (
	"fmt"
	"strconv"
	"time"
)

// dateLayout is the only accepted deed date format.
const dateLayout = "2006-01-02"

// requiredColumns must be present and non-empty on every row.
// observaciones is deliberately absent: it is optional.
var requiredColumns = []string{
	colLat, colLng, colFojas, colNumero, colAnio, colCBR,
	colComprador, colVendedor, colPredio, colComuna, colRol,
	colFechaEscritura, colSuperficie, colMonto,
}

// intColumns must parse as integers, floatColumns as decimals.
var (
	intColumns   = []string{colNumero, colAnio}
	floatColumns = []string{colLat, colLng, colSuperficie, colMonto}
)

// validateRows runs the structural pass over the whole parsed set before
// any database interaction. A non-empty result rejects the entire batch.
func validateRows(rows []ReferencialRow) []ValidationError {
	var errs []ValidationError

	for _, row := range rows {
		for _, col := range requiredColumns {
			if row.field(col) == "" {
				errs = append(errs, ValidationError{
					Row:     row.Row,
					Field:   col,
					Message: fmt.Sprintf("required field %s is missing", col),
				})
			}
		}

		// Format checks run independently of the required check: a field
		// can be present but malformed.
		for _, col := range intColumns {
			value := row.field(col)
			if value == "" {
				continue
			}
			if _, err := strconv.Atoi(value); err != nil {
				errs = append(errs, ValidationError{
					Row:     row.Row,
					Field:   col,
					Message: fmt.Sprintf("value %q is not a valid integer", value),
				})
			}
		}

		for _, col := range floatColumns {
			value := row.field(col)
			if value == "" {
				continue
			}
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				errs = append(errs, ValidationError{
					Row:     row.Row,
					Field:   col,
					Message: fmt.Sprintf("value %q is not a valid number", value),
				})
			}
		}

		if value := row.FechaEscritura; value != "" {
			if _, err := time.Parse(dateLayout, value); err != nil {
				errs = append(errs, ValidationError{
					Row:     row.Row,
					Field:   colFechaEscritura,
					Message: fmt.Sprintf("value %q is not a valid date, expected format YYYY-MM-DD", value),
				})
			}
		}
	}

	return errs
}
