package dto

import "github.com/shopspring/decimal"

// IssueDTERequest body para POST /api/dte/orders/:orderId.
type IssueDTERequest struct {
	Tipo int `json:"tipo" example:"39"` // 39 boleta afecta, 41 boleta exenta
}

// IssueDTEResponse resultado de IssueInvoice.
type IssueDTEResponse struct {
	OrderID  string          `json:"order_id"`
	Tipo     int             `json:"tipo"`
	Folio    int64           `json:"folio"`
	TrackID  string          `json:"track_id"`
	Total    decimal.Decimal `json:"total"`
	Status   string          `json:"status"`
	Existing bool            `json:"existing"` // true si la orden ya tenía documento
}

// DTEResponse metadatos de un documento emitido para GET /api/dte/:tipo/:folio.
type DTEResponse struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	Tipo        int             `json:"tipo"`
	Folio       int64           `json:"folio"`
	IssueDate   string          `json:"issue_date"`
	NetTotal    decimal.Decimal `json:"net_total"`
	ExemptTotal decimal.Decimal `json:"exempt_total"`
	TaxTotal    decimal.Decimal `json:"tax_total"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	TrackID     string          `json:"track_id"`
	Status      string          `json:"status"`
	CreatedAt   string          `json:"created_at"`
}

// DTEListResponse página de documentos emitidos.
type DTEListResponse struct {
	Items []DTEResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}
