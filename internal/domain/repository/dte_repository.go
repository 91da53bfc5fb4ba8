package repository

import (
	"context"

	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/entity"
)

// DTERepository define el puerto de persistencia de documentos emitidos.
type DTERepository interface {
	// Create inserta el registro. Una violación de (tipo, folio) se informa como
	// sii.ErrFolioCollision y una de order_id como domain.ErrConflict.
	Create(ctx context.Context, doc *entity.DTEDocument) error
	GetByOrderID(ctx context.Context, orderID string) (*entity.DTEDocument, error)
	GetByTipoFolio(ctx context.Context, tipo int, folio int64) (*entity.DTEDocument, error)
	// ListUsedFolios devuelve los folios ya usados del tipo dentro de [start, end].
	ListUsedFolios(ctx context.Context, tipo int, start, end int64) ([]int64, error)
	// List devuelve una página de documentos (más recientes primero) y el total.
	// tipo 0 = todos los tipos.
	List(ctx context.Context, tipo, limit, offset int) ([]*entity.DTEDocument, int, error)
}
