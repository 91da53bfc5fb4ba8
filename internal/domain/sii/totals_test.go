package sii_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/sii"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestComputeTotals_Boleta(t *testing.T) {
	got := sii.ComputeTotals([]sii.LineAmount{
		{Quantity: 2, UnitPrice: dec(8403)},
	})
	assert.True(t, got.Net.Equal(dec(16806)), "net=%s", got.Net)
	assert.True(t, got.Tax.Equal(dec(3193)), "tax=%s", got.Tax)
	assert.True(t, got.Exempt.IsZero())
	assert.True(t, got.Total.Equal(dec(19999)), "total=%s", got.Total)
}

func TestComputeTotals_Invariant(t *testing.T) {
	cases := []struct {
		name  string
		lines []sii.LineAmount
	}{
		{"solo afectas", []sii.LineAmount{{Quantity: 1, UnitPrice: dec(1000)}, {Quantity: 3, UnitPrice: dec(333)}}},
		{"solo exentas", []sii.LineAmount{{Quantity: 5, UnitPrice: dec(990), Exempt: true}}},
		{"mixtas", []sii.LineAmount{
			{Quantity: 1, UnitPrice: dec(4201)},
			{Quantity: 2, UnitPrice: dec(1500), Exempt: true},
			{Quantity: 7, UnitPrice: decimal.RequireFromString("10.5")},
		}},
		{"redondeo mitad arriba", []sii.LineAmount{{Quantity: 1, UnitPrice: dec(50)}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sii.ComputeTotals(tc.lines)
			assert.True(t, got.Total.Equal(got.Net.Add(got.Tax).Add(got.Exempt)))
			assert.True(t, got.Tax.Equal(got.Net.Mul(decimal.RequireFromString("0.19")).Round(0)))
			assert.True(t, got.Net.Equal(got.Net.Round(0)), "net debe ser entero")
		})
	}
}

func TestComputeTotals_HalfUp(t *testing.T) {
	// 50 * 0,19 = 9,5 -> 10
	got := sii.ComputeTotals([]sii.LineAmount{{Quantity: 1, UnitPrice: dec(50)}})
	assert.Equal(t, "10", got.Tax.String())
	assert.Equal(t, "60", got.Total.String())
}

func TestNetFromGross(t *testing.T) {
	assert.Equal(t, "8403", sii.NetFromGross(dec(9999)).String())
	assert.Equal(t, "840", sii.NetFromGross(dec(1000)).String())
	assert.Equal(t, "0", sii.NetFromGross(decimal.Zero).String())
}
