package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order snapshot de solo lectura de una orden de la tienda.
type Order struct {
	ID        string
	CreatedAt time.Time
	// Receptor opcional; vacío = consumidor final.
	ReceiverRUT  string
	ReceiverName string
	Items        []OrderItem
}

// OrderItem línea de la orden. UnitPrice incluye IVA.
type OrderItem struct {
	Name      string
	Quantity  int64
	UnitPrice decimal.Decimal
	Exempt    bool
}
