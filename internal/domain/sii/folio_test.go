package sii_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/sii"
)

func TestAllocateFolio(t *testing.T) {
	cases := []struct {
		name       string
		used       []int64
		start, end int64
		want       int64
	}{
		{"rango vacío", nil, 1, 3, 1},
		{"último libre", []int64{1, 2}, 1, 3, 3},
		{"hueco intermedio", []int64{3, 1, 4}, 1, 10, 2},
		{"usados fuera de rango", []int64{1, 2, 3, 50}, 10, 20, 10},
		{"duplicados", []int64{5, 5, 6}, 5, 8, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := sii.AllocateFolio(tc.used, tc.start, tc.end)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAllocateFolio_Exhausted(t *testing.T) {
	_, err := sii.AllocateFolio([]int64{1, 2, 3}, 1, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sii.ErrFolioRangeExhausted))
}

func TestAllocateFolio_InvalidRange(t *testing.T) {
	_, err := sii.AllocateFolio(nil, 5, 1)
	assert.ErrorIs(t, err, sii.ErrCafStamp)
}

func TestSubmissionError(t *testing.T) {
	body := make([]byte, 2000)
	for i := range body {
		body[i] = 'x'
	}
	err := sii.NewSubmissionError(500, body)
	assert.ErrorIs(t, err, sii.ErrSubmissionFailed)
	assert.Len(t, err.Body, 512)
	assert.Contains(t, err.Error(), "HTTP 500")
}
