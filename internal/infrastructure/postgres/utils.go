package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain"
	domainsii "github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/sii"
)

const (
	codeUniqueViolation = "23505"

	constraintTipoFolio = "dte_documents_tipo_folio_key"
	constraintOrderID   = "dte_documents_order_id_key"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// translateUniqueViolation convierte violaciones de unicidad en errores de dominio:
// (tipo, folio) es una colisión de folio y order_id un documento ya emitido.
func translateUniqueViolation(err error) error {
	if err == nil || !isUniqueViolation(err) {
		return err
	}
	switch name := violatedConstraint(err); name {
	case constraintOrderID:
		return fmt.Errorf("%w: la orden ya tiene documento: %v", domain.ErrConflict, err)
	case constraintTipoFolio, "":
		return fmt.Errorf("%w: %v", domainsii.ErrFolioCollision, err)
	default:
		return fmt.Errorf("%w: constraint %s: %v", domain.ErrConflict, name, err)
	}
}
