package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/inventory-projections/internal/application/usecase"
	"github.com/jhoicas/inventory-projections/internal/domain/repository"
)

var _ usecase.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool  *pgxpool.Pool
	queue string
}

// NewTxRunner construye el runner con el pool. queue es la cola donde se publican los cambios.
func NewTxRunner(pool *pgxpool.Pool, queue string) *TxRunner {
	return &TxRunner{pool: pool, queue: queue}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Las escrituras y los cambios publicados confirman o se descartan juntos.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	inventoryPlanRepo repository.InventoryPlanRepository,
	transferPlanRepo repository.TransferPlanRepository,
	publisher repository.ChangePublisher,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	itemRepo := NewItemRepository(tx)
	inventoryPlanRepo := NewInventoryPlanRepository(tx)
	transferPlanRepo := NewTransferPlanRepository(tx)
	publisher := NewChangePublisher(tx, r.queue)

	if err := fn(itemRepo, inventoryPlanRepo, transferPlanRepo, publisher); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
