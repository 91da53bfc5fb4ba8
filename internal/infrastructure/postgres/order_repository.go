package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/entity"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo lee las tablas orders / order_items de la tienda. No escribe.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de solo lectura.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// GetByID devuelve la orden con sus líneas; nil, nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	const qOrder = `
		SELECT id, created_at, COALESCE(receiver_rut, ''), COALESCE(receiver_name, '')
		FROM orders WHERE id = $1`
	var o entity.Order
	err := r.q.QueryRow(ctx, qOrder, id).Scan(&o.ID, &o.CreatedAt, &o.ReceiverRUT, &o.ReceiverName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	const qItems = `
		SELECT name, quantity, unit_price, COALESCE(exempt, false)
		FROM order_items WHERE order_id = $1
		ORDER BY id`
	rows, err := r.q.Query(ctx, qItems, id)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.Name, &it.Quantity, &it.UnitPrice, &it.Exempt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return &o, nil
}
