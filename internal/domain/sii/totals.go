package sii

import (
	"github.com/shopspring/decimal"
)

// TaxRate tasa de IVA vigente (19%).
var TaxRate = decimal.New(19, -2)

var grossFactor = decimal.NewFromInt(1).Add(TaxRate)

// LineAmount cantidad, precio neto unitario y exención de una línea.
type LineAmount struct {
	Quantity  int64
	UnitPrice decimal.Decimal
	Exempt    bool
}

// Subtotal devuelve precio unitario por cantidad (sin redondear).
func (l LineAmount) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// Totals totales del documento en pesos enteros.
//
//	Net    = round(Σ precio·cantidad de líneas afectas)
//	Tax    = round(Net · 0,19)
//	Exempt = round(Σ precio·cantidad de líneas exentas)
//	Total  = Net + Tax + Exempt
type Totals struct {
	Net    decimal.Decimal
	Exempt decimal.Decimal
	Tax    decimal.Decimal
	Total  decimal.Decimal
}

// ComputeTotals calcula los totales del documento a partir de sus líneas.
func ComputeTotals(lines []LineAmount) Totals {
	var taxed, exempt decimal.Decimal
	for _, l := range lines {
		if l.Exempt {
			exempt = exempt.Add(l.Subtotal())
			continue
		}
		taxed = taxed.Add(l.Subtotal())
	}
	net := RoundCLP(taxed)
	tax := RoundCLP(net.Mul(TaxRate))
	exe := RoundCLP(exempt)
	return Totals{
		Net:    net,
		Exempt: exe,
		Tax:    tax,
		Total:  net.Add(tax).Add(exe),
	}
}

// RoundCLP redondea al peso entero, mitad hacia arriba (los montos nunca son negativos).
func RoundCLP(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// NetFromGross convierte un precio con IVA incluido a precio neto: round(bruto / 1,19).
func NetFromGross(gross decimal.Decimal) decimal.Decimal {
	return RoundCLP(gross.Div(grossFactor))
}
