package domain

import (
	"time"

	"github.com/google/uuid"
)

// Referencial represents one property sale record as registered at a
// conservador: the deed reference (fojas/numero/anio), the parties, the
// property identification and the transaction figures.
type Referencial struct {
	ID             uuid.UUID `json:"id"`
	UserID         string    `json:"user_id"`
	ConservadorID  uuid.UUID `json:"conservador_id"`
	Fojas          string    `json:"fojas"`
	Numero         int       `json:"numero"`
	Anio           int       `json:"anio"`
	CBR            string    `json:"cbr"`
	Comprador      string    `json:"comprador"`
	Vendedor       string    `json:"vendedor"`
	Predio         string    `json:"predio"`
	Comuna         string    `json:"comuna"`
	Rol            string    `json:"rol"`
	FechaEscritura time.Time `json:"fecha_escritura"`
	Superficie     float64   `json:"superficie"`
	Monto          float64   `json:"monto"`
	Lat            float64   `json:"lat"`
	Lng            float64   `json:"lng"`
	Observaciones  string    `json:"observaciones,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewReferencial allocates an id and timestamps for a record about to be
// persisted. All other fields are filled by the caller.
func NewReferencial(userID string) Referencial {
	now := time.Now()
	return Referencial{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
