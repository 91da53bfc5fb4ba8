package sii

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// rutWeights pesos del módulo 11 aplicados a los dígitos del RUT de derecha a izquierda.
var rutWeights = [6]int{2, 3, 4, 5, 6, 7}

// NormalizeRUT elimina puntos y espacios y deja el dígito verificador en mayúscula.
// "76.123.456-0" → "76123456-0", "60803000-k" → "60803000-K".
func NormalizeRUT(rut string) string {
	var b strings.Builder
	for _, r := range rut {
		switch {
		case unicode.IsDigit(r), r == '-':
			b.WriteRune(r)
		case r == 'k' || r == 'K':
			b.WriteRune('K')
		}
	}
	return b.String()
}

// SplitRUT separa el cuerpo numérico y el dígito verificador ("76123456-0" → 76123456, "0").
func SplitRUT(rut string) (int64, string, error) {
	n := NormalizeRUT(rut)
	idx := strings.LastIndex(n, "-")
	if idx <= 0 || idx != len(n)-2 {
		return 0, "", fmt.Errorf("sii: RUT %q debe tener formato cuerpo-DV", rut)
	}
	body, err := strconv.ParseInt(n[:idx], 10, 64)
	if err != nil || body <= 0 {
		return 0, "", fmt.Errorf("sii: cuerpo de RUT inválido en %q", rut)
	}
	return body, n[idx+1:], nil
}

// ComputeRUTCheckDigit calcula el dígito verificador (0-9 o K) para el cuerpo del RUT.
func ComputeRUTCheckDigit(body int64) string {
	var sum int
	for i := 0; body > 0; i++ {
		sum += int(body%10) * rutWeights[i%len(rutWeights)]
		body /= 10
	}
	switch dv := 11 - sum%11; dv {
	case 11:
		return "0"
	case 10:
		return "K"
	default:
		return strconv.Itoa(dv)
	}
}

// ValidateRUT valida formato y dígito verificador (módulo 11) de un RUT chileno.
func ValidateRUT(rut string) error {
	body, dv, err := SplitRUT(rut)
	if err != nil {
		return err
	}
	if expected := ComputeRUTCheckDigit(body); expected != dv {
		return fmt.Errorf("sii: dígito verificador del RUT %q inválido: esperado %s", rut, expected)
	}
	return nil
}
