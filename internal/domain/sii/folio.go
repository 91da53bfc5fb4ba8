package sii

import (
	"fmt"
	"slices"
)

// AllocateFolio devuelve el menor folio de [start, end] que no está en used.
// Es una función pura: el llamador consulta los folios usados dentro de la misma
// transacción en que persiste el documento.
func AllocateFolio(used []int64, start, end int64) (int64, error) {
	if start < 1 || end < start {
		return 0, fmt.Errorf("%w: rango de folios [%d, %d] inválido", ErrCafStamp, start, end)
	}
	sorted := slices.Clone(used)
	slices.Sort(sorted)

	candidate := start
	for _, f := range sorted {
		if f < candidate {
			continue
		}
		if f > candidate {
			break
		}
		candidate++
	}
	if candidate > end {
		return 0, fmt.Errorf("%w: todos los folios entre %d y %d están usados", ErrFolioRangeExhausted, start, end)
	}
	return candidate, nil
}
