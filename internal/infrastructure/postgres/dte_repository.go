package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/entity"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/repository"
)

var _ repository.DTERepository = (*DTERepo)(nil)

// DTERepo implementación de DTERepository (usable con pool o tx).
type DTERepo struct {
	q Querier
}

// NewDTERepository construye el adaptador. Pasar pool o tx (Querier).
func NewDTERepository(q Querier) *DTERepo {
	return &DTERepo{q: q}
}

const dteColumns = `id, order_id, tipo, folio, issue_date, net_total, exempt_total, tax_total,
	grand_total, xml_signed, track_id, status, created_at`

// Create persiste el documento emitido. Una violación de (tipo, folio) se devuelve
// como ErrFolioCollision para que el caso de uso reintente.
func (r *DTERepo) Create(ctx context.Context, d *entity.DTEDocument) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	const q = `
		INSERT INTO dte_documents (` + dteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, q,
		d.ID, d.OrderID, d.Tipo, d.Folio, d.IssueDate,
		d.NetTotal, d.ExemptTotal, d.TaxTotal, d.GrandTotal,
		d.XMLSigned, d.TrackID, d.Status, d.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return translateUniqueViolation(err)
		}
		return fmt.Errorf("insert dte_document: %w", err)
	}
	return nil
}

// GetByOrderID devuelve nil, nil si la orden aún no tiene documento.
func (r *DTERepo) GetByOrderID(ctx context.Context, orderID string) (*entity.DTEDocument, error) {
	const q = `SELECT ` + dteColumns + ` FROM dte_documents WHERE order_id = $1`
	d, err := scanDTE(r.q.QueryRow(ctx, q, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dte_document by order: %w", err)
	}
	return d, nil
}

// GetByTipoFolio devuelve nil, nil si no existe.
func (r *DTERepo) GetByTipoFolio(ctx context.Context, tipo int, folio int64) (*entity.DTEDocument, error) {
	const q = `SELECT ` + dteColumns + ` FROM dte_documents WHERE tipo = $1 AND folio = $2`
	d, err := scanDTE(r.q.QueryRow(ctx, q, tipo, folio))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dte_document by folio: %w", err)
	}
	return d, nil
}

// ListUsedFolios devuelve los folios ya usados del tipo dentro de [start, end].
func (r *DTERepo) ListUsedFolios(ctx context.Context, tipo int, start, end int64) ([]int64, error) {
	const q = `
		SELECT folio FROM dte_documents
		WHERE tipo = $1 AND folio BETWEEN $2 AND $3
		ORDER BY folio`
	rows, err := r.q.Query(ctx, q, tipo, start, end)
	if err != nil {
		return nil, fmt.Errorf("list used folios: %w", err)
	}
	folios, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan used folios: %w", err)
	}
	return folios, nil
}

// List página de documentos; tipo 0 no filtra.
func (r *DTERepo) List(ctx context.Context, tipo, limit, offset int) ([]*entity.DTEDocument, int, error) {
	var total int
	const countQ = `SELECT COUNT(*) FROM dte_documents WHERE ($1 = 0 OR tipo = $1)`
	if err := r.q.QueryRow(ctx, countQ, tipo).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count dte_documents: %w", err)
	}
	const q = `SELECT ` + dteColumns + ` FROM dte_documents
		WHERE ($1 = 0 OR tipo = $1)
		ORDER BY created_at DESC, folio DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, q, tipo, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list dte_documents: %w", err)
	}
	defer rows.Close()
	var out []*entity.DTEDocument
	for rows.Next() {
		d, err := scanDTE(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func scanDTE(row pgx.Row) (*entity.DTEDocument, error) {
	var d entity.DTEDocument
	err := row.Scan(
		&d.ID, &d.OrderID, &d.Tipo, &d.Folio, &d.IssueDate,
		&d.NetTotal, &d.ExemptTotal, &d.TaxTotal, &d.GrandTotal,
		&d.XMLSigned, &d.TrackID, &d.Status, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
