package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de envío al SII.
const (
	DTEStatusSent = "ENVIADO" // Aceptado por el servicio de recepción (TRACKID asignado)
	DTEStatusDev  = "DEV"     // Emitido en modo desarrollo, sin envío real
)

// DTEDocument registro inmutable de un documento emitido. Solo se persiste cuando el
// envío terminó con TRACKID.
type DTEDocument struct {
	ID          string
	OrderID     string
	Tipo        int
	Folio       int64
	IssueDate   time.Time
	NetTotal    decimal.Decimal
	ExemptTotal decimal.Decimal
	TaxTotal    decimal.Decimal
	GrandTotal  decimal.Decimal
	XMLSigned   []byte // bytes ISO-8859-1 tal como se enviaron
	TrackID     string
	Status      string
	CreatedAt   time.Time
}
