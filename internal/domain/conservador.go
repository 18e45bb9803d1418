package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PlaceholderValue marks conservador fields that were created lazily
// during an import and still need manual curation.
const PlaceholderValue = "Sin información"

// Conservador represents a Chilean land-registry office (Conservador de
// Bienes Raíces). Offices are created lazily the first time an imported
// row references a name that is not present yet.
type Conservador struct {
	ID        uuid.UUID `json:"id"`
	Nombre    string    `json:"nombre"`
	Direccion string    `json:"direccion"`
	Comuna    string    `json:"comuna"`
	Region    string    `json:"region"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewConservador creates a conservador with placeholder address/region.
// An empty comuna falls back to the placeholder as well.
func NewConservador(nombre, comuna string) Conservador {
	comuna = strings.TrimSpace(comuna)
	if comuna == "" {
		comuna = PlaceholderValue
	}
	now := time.Now()
	return Conservador{
		ID:        uuid.New(),
		Nombre:    strings.TrimSpace(nombre),
		Direccion: PlaceholderValue,
		Comuna:    comuna,
		Region:    PlaceholderValue,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizeConservadorName extracts the office name from a raw cbr cell.
// The cell may be encoded as "label=Name", in which case only the part
// after the first '=' counts. The result is whitespace trimmed.
func NormalizeConservadorName(raw string) string {
	if idx := strings.Index(raw, "="); idx >= 0 {
		raw = raw[idx+1:]
	}
	return strings.TrimSpace(raw)
}
