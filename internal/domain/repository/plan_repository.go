package repository

import (
	"context"

	"github.com/jhoicas/inventory-projections/internal/domain/entity"
)

// InventoryPlanRepository puerto de persistencia para planes de inventario.
type InventoryPlanRepository interface {
	Create(ctx context.Context, plan *entity.InventoryPlan) error
	GetByID(ctx context.Context, id string) (*entity.InventoryPlan, error)
	Update(ctx context.Context, plan *entity.InventoryPlan) error
	Delete(ctx context.Context, id string) error
	// ListByItem devuelve los planes del ítem en orden de creación (el orden importa para la composición).
	ListByItem(ctx context.Context, itemID string) ([]entity.InventoryPlan, error)
}

// TransferPlanRepository puerto de persistencia para planes de traslado.
type TransferPlanRepository interface {
	Create(ctx context.Context, plan *entity.TransferPlan) error
	GetByID(ctx context.Context, id string) (*entity.TransferPlan, error)
	Delete(ctx context.Context, id string) error
	// ListByItem devuelve los traslados donde el ítem es origen o destino.
	ListByItem(ctx context.Context, itemID string) ([]entity.TransferPlan, error)
}
