package repository

import (
	"context"

	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/entity"
)

// OrderRepository lectura de órdenes de la tienda (tablas propiedad del storefront).
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Order, error)
}
