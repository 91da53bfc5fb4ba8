// Package sii contiene las reglas de dominio de la emisión de DTE: totales,
// asignación de folios y la taxonomía de errores del pipeline.
package sii

import (
	"errors"
	"fmt"
)

// Taxonomía de errores del pipeline de emisión. Los adaptadores envuelven estos
// sentinelas con %w para conservar el detalle.
var (
	ErrCredentialExtraction  = errors.New("sii: no se pudo extraer llave y certificado del PKCS#12")
	ErrInvalidDocumentInput  = errors.New("sii: datos del documento inválidos")
	ErrFolioRangeExhausted   = errors.New("sii: rango de folios del CAF agotado")
	ErrCafStamp              = errors.New("sii: no se pudo timbrar el documento con el CAF")
	ErrSigningTargetNotFound = errors.New("sii: no existe el nodo a firmar")
	ErrSeedRequestFailed     = errors.New("sii: falló la solicitud de semilla")
	ErrTokenExchangeFailed   = errors.New("sii: falló el canje de semilla por token")
	ErrSubmissionFailed      = errors.New("sii: falló el envío del documento")
	ErrTrackingIDMissing     = errors.New("sii: la respuesta no contiene TRACKID")

	// ErrFolioCollision indica que otra emisión concurrente persistió el mismo (tipo, folio).
	ErrFolioCollision = errors.New("sii: colisión de folio")
)

// maxErrorBody es el largo máximo del cuerpo de respuesta que se conserva en los errores.
const maxErrorBody = 512

// SubmissionError error HTTP del SII con estado y cuerpo truncado.
type SubmissionError struct {
	StatusCode int
	Body       string
}

// NewSubmissionError construye el error truncando el cuerpo de la respuesta.
func NewSubmissionError(status int, body []byte) *SubmissionError {
	return &SubmissionError{StatusCode: status, Body: Truncate(string(body), maxErrorBody)}
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", ErrSubmissionFailed.Error(), e.StatusCode, e.Body)
}

func (e *SubmissionError) Unwrap() error { return ErrSubmissionFailed }

// Truncate corta s a n runas como máximo.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
