package validator

import (
	"testing"
	"time"

	"referenciales-api/internal/domain"
)

func validReferencial() domain.Referencial {
	referencial := domain.NewReferencial("user-1")
	referencial.Anio = 2023
	referencial.FechaEscritura = time.Date(2023, 7, 20, 0, 0, 0, 0, time.UTC)
	referencial.Superficie = 250.75
	referencial.Monto = 50000000
	referencial.Lat = -38.7397
	referencial.Lng = -72.5984
	return referencial
}

func TestValidateAcceptsValidRecord(t *testing.T) {
	if errs := NewReferencialValidator().Validate(validReferencial()); len(errs) != 0 {
		t.Fatalf("expected no violations, got %v", errs)
	}
}

func TestValidateRejectsOutOfRangeValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(r *domain.Referencial)
		field  string
	}{
		{"latitude too low", func(r *domain.Referencial) { r.Lat = -90.1 }, "lat"},
		{"latitude too high", func(r *domain.Referencial) { r.Lat = 91 }, "lat"},
		{"longitude too low", func(r *domain.Referencial) { r.Lng = -181 }, "lng"},
		{"longitude too high", func(r *domain.Referencial) { r.Lng = 180.5 }, "lng"},
		{"year before registry era", func(r *domain.Referencial) { r.Anio = 1699 }, "anio"},
		{"year too far ahead", func(r *domain.Referencial) { r.Anio = time.Now().Year() + 2 }, "anio"},
		{"zero surface", func(r *domain.Referencial) { r.Superficie = 0 }, "superficie"},
		{"negative amount", func(r *domain.Referencial) { r.Monto = -1 }, "monto"},
		{"zero deed date", func(r *domain.Referencial) { r.FechaEscritura = time.Time{} }, "fechaescritura"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			referencial := validReferencial()
			tc.mutate(&referencial)

			errs := NewReferencialValidator().Validate(referencial)
			if len(errs) != 1 {
				t.Fatalf("expected 1 violation, got %v", errs)
			}
			if errs[0].Field != tc.field {
				t.Errorf("expected violation on %q, got %+v", tc.field, errs[0])
			}
		})
	}
}

func TestValidateAcceptsBoundaryValues(t *testing.T) {
	referencial := validReferencial()
	referencial.Lat = -90
	referencial.Lng = 180
	referencial.Anio = time.Now().Year() + 1

	if errs := NewReferencialValidator().Validate(referencial); len(errs) != 0 {
		t.Fatalf("boundary values must pass, got %v", errs)
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	referencial := validReferencial()
	referencial.Lat = 100
	referencial.Monto = 0

	errs := NewReferencialValidator().Validate(referencial)
	if len(errs) != 2 {
		t.Fatalf("expected every violation reported, got %v", errs)
	}
}
