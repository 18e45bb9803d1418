// Package validator holds the business rules a single referencial must
// satisfy before it may be persisted, independent of how the record
// arrived (bulk import, single-record form, API).
package validator

import (
	"fmt"
	"time"

	"referenciales-api/internal/domain"
)

// Year registry entries cannot reasonably predate.
const minAnio = 1700

// FieldError describes one rule violation on a single record.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ReferencialValidator validates a fully converted referencial.
type ReferencialValidator struct{}

// NewReferencialValidator creates a new referencial validator
func NewReferencialValidator() *ReferencialValidator {
	return &ReferencialValidator{}
}

// Validate returns every rule violation found on the record.
func (v *ReferencialValidator) Validate(r domain.Referencial) []FieldError {
	var errs []FieldError

	if r.Lat < -90 || r.Lat > 90 {
		errs = append(errs, FieldError{Field: "lat", Message: fmt.Sprintf("latitude %v out of range [-90, 90]", r.Lat)})
	}
	if r.Lng < -180 || r.Lng > 180 {
		errs = append(errs, FieldError{Field: "lng", Message: fmt.Sprintf("longitude %v out of range [-180, 180]", r.Lng)})
	}
	if maxAnio := time.Now().Year() + 1; r.Anio < minAnio || r.Anio > maxAnio {
		errs = append(errs, FieldError{Field: "anio", Message: fmt.Sprintf("year %d out of range [%d, %d]", r.Anio, minAnio, maxAnio)})
	}
	if r.Superficie <= 0 {
		errs = append(errs, FieldError{Field: "superficie", Message: "surface area must be greater than zero"})
	}
	if r.Monto <= 0 {
		errs = append(errs, FieldError{Field: "monto", Message: "amount must be greater than zero"})
	}
	if r.FechaEscritura.IsZero() {
		errs = append(errs, FieldError{Field: "fechaescritura", Message: "deed date is required"})
	}

	return errs
}
