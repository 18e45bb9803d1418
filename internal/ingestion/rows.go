package ingestion

import "strings"

// Column names expected in the upload header.
const (
	colLat            = "lat"
	colLng            = "lng"
	colFojas          = "fojas"
	colNumero         = "numero"
	colAnio           = "anio"
	colCBR            = "cbr"
	colComprador      = "comprador"
	colVendedor       = "vendedor"
	colPredio         = "predio"
	colComuna         = "comuna"
	colRol            = "rol"
	colFechaEscritura = "fechaescritura"
	colSuperficie     = "superficie"
	colMonto          = "monto"
	colObservaciones  = "observaciones"
)

// ReferencialRow is one parsed data line. Every field is still the raw
// cell text; type conversion happens at commit time. Row is the 1-based
// position among data rows and addresses errors back to the user.
type ReferencialRow struct {
	Row            int
	Lat            string
	Lng            string
	Fojas          string
	Numero         string
	Anio           string
	CBR            string
	Comprador      string
	Vendedor       string
	Predio         string
	Comuna         string
	Rol            string
	FechaEscritura string
	Superficie     string
	Monto          string
	Observaciones  string
}

// rowFromRecord maps one raw line onto the typed row using the header
// order. Unknown columns are ignored; missing trailing cells stay empty.
func rowFromRecord(headers []string, record []string, rowNumber int) ReferencialRow {
	row := ReferencialRow{Row: rowNumber}
	for i, header := range headers {
		if i >= len(record) {
			break
		}
		value := strings.TrimSpace(record[i])
		switch header {
		case colLat:
			row.Lat = value
		case colLng:
			row.Lng = value
		case colFojas:
			row.Fojas = value
		case colNumero:
			row.Numero = value
		case colAnio:
			row.Anio = value
		case colCBR:
			row.CBR = value
		case colComprador:
			row.Comprador = value
		case colVendedor:
			row.Vendedor = value
		case colPredio:
			row.Predio = value
		case colComuna:
			row.Comuna = value
		case colRol:
			row.Rol = value
		case colFechaEscritura:
			row.FechaEscritura = value
		case colSuperficie:
			row.Superficie = value
		case colMonto:
			row.Monto = value
		case colObservaciones:
			row.Observaciones = value
		}
	}
	return row
}

// field returns the raw value for a known column name.
func (r ReferencialRow) field(name string) string {
	switch name {
	case colLat:
		return r.Lat
	case colLng:
		return r.Lng
	case colFojas:
		return r.Fojas
	case colNumero:
		return r.Numero
	case colAnio:
		return r.Anio
	case colCBR:
		return r.CBR
	case colComprador:
		return r.Comprador
	case colVendedor:
		return r.Vendedor
	case colPredio:
		return r.Predio
	case colComuna:
		return r.Comuna
	case colRol:
		return r.Rol
	case colFechaEscritura:
		return r.FechaEscritura
	case colSuperficie:
		return r.Superficie
	case colMonto:
		return r.Monto
	case colObservaciones:
		return r.Observaciones
	}
	return ""
}
