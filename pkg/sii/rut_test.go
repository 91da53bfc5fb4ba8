package sii_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/pkg/sii"
)

func TestComputeRUTCheckDigit(t *testing.T) {
	cases := []struct {
		body int64
		dv   string
	}{
		{66666666, "6"},
		{60803000, "K"},
		{11111111, "1"},
		{76123456, "0"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.dv, sii.ComputeRUTCheckDigit(tc.body), "cuerpo %d", tc.body)
	}
}

func TestValidateRUT(t *testing.T) {
	require.NoError(t, sii.ValidateRUT("76.123.456-0"))
	require.NoError(t, sii.ValidateRUT("60803000-k"))
	require.NoError(t, sii.ValidateRUT(sii.GenericReceiverRUT))

	assert.Error(t, sii.ValidateRUT("76123456-1"), "DV incorrecto")
	assert.Error(t, sii.ValidateRUT("761234560"), "sin guion")
	assert.Error(t, sii.ValidateRUT(""), "vacío")
}

func TestNormalizeRUT(t *testing.T) {
	assert.Equal(t, "60803000-K", sii.NormalizeRUT(" 60.803.000-k "))
}
