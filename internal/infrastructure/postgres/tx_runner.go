package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/application/billing"
	"github.com/ManuelCaceresDuocUC/Frontend-fullstack2-sub000/internal/domain/repository"
)

var _ billing.DTETxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunDTE inicia una transacción, ejecuta fn con el repositorio de documentos atado a
// la tx y hace Commit o Rollback. Si fn falla no queda nada persistido.
func (r *TxRunner) RunDTE(ctx context.Context, fn func(dteRepo repository.DTERepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewDTERepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		// El constraint único puede saltar recién al confirmar (deferrable); se traduce igual.
		return fmt.Errorf("commit transaction: %w", translateUniqueViolation(err))
	}
	return nil
}
